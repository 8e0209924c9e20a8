// Package supplier assembles the question set a session is bound to. Each
// implementation covers one test mode: random bank sampling, instructor-authored
// fixed tests, and AI generation scaled to the student's progress.
package supplier

import (
	"context"
	"fmt"

	"github.com/vedlearn/session-service/internal/models"
)

// Request carries everything a supplier may need to build a set. Fields not
// relevant to a given mode are ignored by that supplier.
type Request struct {
	StudentID   uint
	SubjectID   uint
	SubjectName string
	// TestID selects the fixed mock test, mock mode only.
	TestID *uint
	// ProgressPercentage drives difficulty scaling in auto mode.
	ProgressPercentage float64
}

// TestSupplier builds the immutable question set for a new session. A supplier
// never mutates stored tests; generation copies questions into the set.
type TestSupplier interface {
	Supply(ctx context.Context, req Request) (models.QuestionSet, error)
}

// GenerationError reports a failed set generation. The session stays in
// NotStarted when generation fails, so callers may retry freely.
type GenerationError struct {
	Mode   models.TestMode
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("test generation failed (%s): %s: %v", e.Mode, e.Reason, e.Err)
	}
	return fmt.Sprintf("test generation failed (%s): %s", e.Mode, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationFailed(mode models.TestMode, reason string, err error) *GenerationError {
	return &GenerationError{Mode: mode, Reason: reason, Err: err}
}
