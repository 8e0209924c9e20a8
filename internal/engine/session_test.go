package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedlearn/session-service/internal/models"
)

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	return NewSession("sess-1", 42, models.ModeSubjectAssessment, fourQuestionSet(600), opts...)
}

func TestSession_LifecycleHappyPath(t *testing.T) {
	var evaluations []Evaluation
	s := newTestSession(t, WithEvaluatedHook(func(ev Evaluation) {
		evaluations = append(evaluations, ev)
	}))

	assert.Equal(t, models.SessionGenerated, s.State())
	require.NoError(t, s.Begin())
	assert.Equal(t, models.SessionInProgress, s.State())

	for _, id := range []uint{1, 2, 3, 4} {
		require.NoError(t, s.RecordAnswer(id, models.OptionA))
	}

	result, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, models.SessionEvaluated, s.State())
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, models.ReasonUserSubmit, result.Reason)

	require.Len(t, evaluations, 1)
	assert.Equal(t, "sess-1", evaluations[0].SessionID)
	assert.Equal(t, models.LevelAdvanced, evaluations[0].Tier)
	assert.Len(t, evaluations[0].Answers, 4)
}

func TestSession_BeginTwiceRejected(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.Begin(), ErrAlreadyStarted)
}

func TestSession_AnswerValidation(t *testing.T) {
	s := newTestSession(t)

	// Answers before Begin are rejected.
	assert.ErrorIs(t, s.RecordAnswer(1, models.OptionA), ErrSessionNotActive)

	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.RecordAnswer(99, models.OptionA), ErrUnknownQuestion)
	assert.ErrorIs(t, s.RecordAnswer(1, models.Option("E")), ErrInvalidOption)
	assert.Empty(t, s.Answers(), "rejected writes must not touch the answer map")

	// Last write wins.
	require.NoError(t, s.RecordAnswer(1, models.OptionB))
	require.NoError(t, s.RecordAnswer(1, models.OptionA))
	assert.Equal(t, models.AnswerMap{1: models.OptionA}, s.Answers())
}

func TestSession_SubmitBeforeBeginRejected(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSession_AnswersAfterSubmitRejected(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Begin())
	require.NoError(t, s.RecordAnswer(1, models.OptionA))

	_, err := s.Submit()
	require.NoError(t, err)

	assert.ErrorIs(t, s.RecordAnswer(2, models.OptionA), ErrSessionNotActive)
	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestSession_DoubleSubmitReturnsFirstResult(t *testing.T) {
	var hookCount atomic.Int32
	s := newTestSession(t, WithEvaluatedHook(func(Evaluation) { hookCount.Add(1) }))
	require.NoError(t, s.Begin())
	require.NoError(t, s.RecordAnswer(4, models.OptionA))

	first, err := s.Submit()
	require.NoError(t, err)

	second, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hookCount.Load())
}

func TestSession_TimeoutAutoSubmits(t *testing.T) {
	var hookCount atomic.Int32
	set := fourQuestionSet(3)
	s := NewSession("sess-timeout", 42, models.ModeSubjectAssessment, set,
		WithTickInterval(2*time.Millisecond),
		WithEvaluatedHook(func(Evaluation) { hookCount.Add(1) }))

	require.NoError(t, s.Begin())
	require.NoError(t, s.RecordAnswer(3, models.OptionA))

	require.Eventually(t, func() bool {
		return s.State() == models.SessionEvaluated
	}, time.Second, time.Millisecond, "timer should auto-submit the session")

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, models.ReasonTimeout, result.Reason)
	assert.Equal(t, 2, result.RawScore)
	assert.Equal(t, 0, s.RemainingSeconds())
	assert.Equal(t, int32(1), hookCount.Load())

	// A late manual submit is a harmless duplicate.
	dup, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, result, dup)
	assert.Equal(t, int32(1), hookCount.Load())
}

func TestSession_ManualSubmitRacingExpiry(t *testing.T) {
	var hookCount atomic.Int32
	set := fourQuestionSet(1)
	s := NewSession("sess-race", 42, models.ModeSubjectAssessment, set,
		WithTickInterval(time.Millisecond),
		WithEvaluatedHook(func(Evaluation) { hookCount.Add(1) }))

	require.NoError(t, s.Begin())

	// Hammer submits while the timer expires underneath them.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return s.State() == models.SessionEvaluated
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, int32(1), hookCount.Load(), "exactly one transition may win")
}

func TestSession_RemainingBeforeBeginIsFullLimit(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, 600, s.RemainingSeconds())
}

func TestSession_ResultBeforeEvaluation(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Result()
	assert.ErrorIs(t, err, ErrNotEvaluated)

	require.NoError(t, s.Begin())
	_, err = s.Result()
	assert.ErrorIs(t, err, ErrNotEvaluated)
	s.countdown.Stop()
}

func TestSession_ZeroTimeLimitExpiresOnBegin(t *testing.T) {
	set := fourQuestionSet(0)
	s := NewSession("sess-zero", 42, models.ModeSubjectAssessment, set)

	require.NoError(t, s.Begin())

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, models.SessionEvaluated, s.State())
	assert.Equal(t, models.ReasonTimeout, result.Reason)
	assert.Equal(t, 0, result.Percentage)
}
