package engine

import "errors"

var (
	// ErrAlreadyStarted guards a double "begin" on the same session (UI double-click).
	ErrAlreadyStarted = errors.New("session already started")
	// ErrAlreadyRunning guards a second Start on a ticking countdown.
	ErrAlreadyRunning = errors.New("countdown already running")
	// ErrSessionNotActive is returned when an answer arrives outside InProgress.
	ErrSessionNotActive = errors.New("session is not in progress")
	// ErrUnknownQuestion marks an answer for a question not in the bound set; it
	// indicates a caller bug, never user input.
	ErrUnknownQuestion = errors.New("question does not belong to this session")
	// ErrInvalidOption marks a selected option outside A-D.
	ErrInvalidOption = errors.New("selected option must be one of A, B, C, D")
	// ErrNotEvaluated is returned when a result is requested before submission.
	ErrNotEvaluated = errors.New("session has not been evaluated")
)
