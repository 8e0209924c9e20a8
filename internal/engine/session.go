package engine

import (
	"sync"
	"time"

	"github.com/vedlearn/session-service/internal/models"
)

// Evaluation is the frozen outcome handed to the evaluated hook exactly once,
// by whichever transition won the submit race.
type Evaluation struct {
	SessionID   string
	StudentID   uint
	Mode        models.TestMode
	Set         *models.QuestionSet
	Answers     models.AnswerMap
	Result      models.ScoreResult
	Tier        models.CourseLevel
	StartedAt   time.Time
	SubmittedAt time.Time
}

// Session is the aggregate root for one attempt at a generated test. All
// mutations are serialized behind one mutex so a manual submit and the
// countdown expiry cannot both win: the first transition takes effect and the
// second is a silent no-op.
//
// A session is single-use. It never moves backward and a fresh attempt
// requires a new session with a newly generated question set.
type Session struct {
	id        string
	studentID uint
	mode      models.TestMode
	set       models.QuestionSet

	now          func() time.Time
	tickInterval time.Duration
	onEvaluated  func(Evaluation)

	mu          sync.Mutex
	state       models.SessionState
	answers     models.AnswerMap
	startedAt   time.Time
	submittedAt time.Time
	result      models.ScoreResult
	countdown   *Countdown
}

// SessionOption customizes session construction.
type SessionOption func(*Session)

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithTickInterval is test-only: it shortens the countdown tick.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) { s.tickInterval = d }
}

// WithEvaluatedHook registers the callback invoked once when the session
// reaches Evaluated, regardless of whether the user or the timer submitted.
func WithEvaluatedHook(fn func(Evaluation)) SessionOption {
	return func(s *Session) { s.onEvaluated = fn }
}

// NewSession binds a freshly generated question set to a new session. The
// session starts in Generated: the set exists but the clock has not begun.
func NewSession(id string, studentID uint, mode models.TestMode, set models.QuestionSet, opts ...SessionOption) *Session {
	s := &Session{
		id:           id,
		studentID:    studentID,
		mode:         mode,
		set:          set,
		now:          time.Now,
		tickInterval: time.Second,
		state:        models.SessionGenerated,
		answers:      make(models.AnswerMap),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string            { return s.id }
func (s *Session) StudentID() uint       { return s.studentID }
func (s *Session) Mode() models.TestMode { return s.mode }

// Set returns the immutable question set bound to this session.
func (s *Session) Set() *models.QuestionSet { return &s.set }

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves the session into InProgress, records the start time and starts
// the countdown. A second call is rejected with ErrAlreadyStarted.
func (s *Session) Begin() error {
	s.mu.Lock()
	if s.state != models.SessionGenerated {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = models.SessionInProgress
	s.startedAt = s.now()
	s.countdown = NewCountdownWithInterval(s.tickInterval, func() {
		s.submit(models.ReasonTimeout)
	})
	countdown := s.countdown
	limit := s.set.TimeLimitSeconds
	s.mu.Unlock()

	// Started outside the lock: a zero time limit expires synchronously and
	// the expiry path re-enters the session mutex.
	_ = countdown.Start(limit)
	return nil
}

// RecordAnswer stores the selected option for a question, overwriting any prior
// answer (last write wins, no history). Writes referencing questions outside
// the bound set are rejected and never touch the answer map.
func (s *Session) RecordAnswer(questionID uint, option models.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionInProgress {
		return ErrSessionNotActive
	}
	if !option.Valid() {
		return ErrInvalidOption
	}
	if s.set.QuestionByID(questionID) == nil {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = option
	return nil
}

// Submit finalizes the session on behalf of the user. Submitting an already
// submitted session is a no-op that returns the original result, so the race
// between a submit click and a same-tick expiry is harmless.
func (s *Session) Submit() (models.ScoreResult, error) {
	return s.submit(models.ReasonUserSubmit)
}

func (s *Session) submit(reason models.SubmitReason) (models.ScoreResult, error) {
	s.mu.Lock()
	switch s.state {
	case models.SessionEvaluated:
		// First transition already won; swallow the duplicate.
		result := s.result
		s.mu.Unlock()
		return result, nil
	case models.SessionInProgress:
	default:
		s.mu.Unlock()
		return models.ScoreResult{}, ErrSessionNotActive
	}

	s.state = models.SessionSubmitted
	s.submittedAt = s.now()
	frozen := s.answers.Clone()
	s.answers = frozen

	result := Score(&s.set, frozen)
	result.TimeTakenSeconds = int(s.submittedAt.Sub(s.startedAt).Seconds())
	result.Reason = reason

	// Evaluation follows submission unconditionally; inputs are already
	// validated so this transition cannot fail.
	s.state = models.SessionEvaluated
	s.result = result

	countdown := s.countdown
	hook := s.onEvaluated
	ev := Evaluation{
		SessionID:   s.id,
		StudentID:   s.studentID,
		Mode:        s.mode,
		Set:         &s.set,
		Answers:     frozen.Clone(),
		Result:      result,
		Tier:        TierFor(result.Percentage),
		StartedAt:   s.startedAt,
		SubmittedAt: s.submittedAt,
	}
	s.mu.Unlock()

	if countdown != nil {
		countdown.Stop()
	}
	if hook != nil {
		hook(ev)
	}
	return result, nil
}

// Result returns the score computed at the first successful submission.
func (s *Session) Result() (models.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionEvaluated {
		return models.ScoreResult{}, ErrNotEvaluated
	}
	return s.result, nil
}

// Answers returns a copy of the current answer map.
func (s *Session) Answers() models.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// RemainingSeconds reports the countdown value; before Begin it is the full
// time limit, after leaving InProgress it is frozen.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countdown == nil {
		return s.set.TimeLimitSeconds
	}
	return s.countdown.Remaining()
}

func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// SubmittedAt is zero until the session leaves InProgress.
func (s *Session) SubmittedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submittedAt
}
