package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/engine"
	"github.com/vedlearn/session-service/internal/events"
	"github.com/vedlearn/session-service/internal/insight"
	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories/mocks"
	"github.com/vedlearn/session-service/internal/supplier"
	"github.com/vedlearn/session-service/internal/utils"
	"github.com/vedlearn/session-service/internal/validator"
)

type stubSupplier struct {
	set     models.QuestionSet
	err     error
	lastReq supplier.Request
}

func (s *stubSupplier) Supply(_ context.Context, req supplier.Request) (models.QuestionSet, error) {
	s.lastReq = req
	return s.set, s.err
}

func weightedSet(timeLimitSeconds int) models.QuestionSet {
	questions := []models.Question{
		{ID: 1, SubjectID: 7, Text: "q1", CorrectOption: models.OptionA, Marks: 1, Difficulty: models.DifficultyEasy},
		{ID: 2, SubjectID: 7, Text: "q2", CorrectOption: models.OptionB, Marks: 1, Difficulty: models.DifficultyEasy},
		{ID: 3, SubjectID: 7, Text: "q3", CorrectOption: models.OptionC, Marks: 2, Difficulty: models.DifficultyMedium},
		{ID: 4, SubjectID: 7, Text: "q4", CorrectOption: models.OptionD, Marks: 3, Difficulty: models.DifficultyHard},
	}
	return models.NewQuestionSet("set-1", 7, questions, timeLimitSeconds)
}

type sessionServiceFixture struct {
	service   *SessionService
	supplier  *stubSupplier
	subjects  *mocks.SubjectRepository
	results   *mocks.ResultRepository
	progress  *mocks.ProgressRepository
	publisher *events.MockEventPublisher
}

func newSessionServiceFixture(t *testing.T, set models.QuestionSet) *sessionServiceFixture {
	t.Helper()

	f := &sessionServiceFixture{
		supplier:  &stubSupplier{set: set},
		subjects:  new(mocks.SubjectRepository),
		results:   new(mocks.ResultRepository),
		progress:  new(mocks.ProgressRepository),
		publisher: events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil))),
	}

	f.service = NewSessionService(SessionServiceConfig{
		Registry: NewSessionRegistry(),
		Suppliers: map[models.TestMode]supplier.TestSupplier{
			models.ModeSubjectAssessment: f.supplier,
			models.ModeAutomatedMockTest: f.supplier,
		},
		Subjects:     f.subjects,
		Results:      f.results,
		Progress:     f.progress,
		Publisher:    f.publisher,
		Insights:     insight.NewRuleBased(),
		Validator:    validator.New(),
		Logger:       utils.NewDevelopmentLogger(),
		TickInterval: 2 * time.Millisecond,
	})
	return f
}

func (f *sessionServiceFixture) expectEvaluationSideEffects() {
	f.results.On("Create", mock.Anything, mock.AnythingOfType("*models.SessionResult")).Return(nil)
	f.progress.On("Get", mock.Anything, uint(42), uint(7)).Return(nil, nil)
	f.progress.On("Upsert", mock.Anything, mock.AnythingOfType("*models.StudentSubjectProgress")).Return(nil)
}

func TestSessionService_FullLifecycle(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	f.expectEvaluationSideEffects()
	ctx := context.Background()

	view, err := f.service.Generate(ctx, GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "subject"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionGenerated, view.State)
	assert.Len(t, view.Questions, 4)
	assert.Equal(t, 7, view.TotalMarks)

	_, err = f.service.Begin(ctx, view.SessionID)
	require.NoError(t, err)

	for _, answer := range []struct {
		q   uint
		opt models.Option
	}{{1, models.OptionA}, {2, models.OptionB}, {3, models.OptionC}, {4, models.OptionD}} {
		require.NoError(t, f.service.RecordAnswer(ctx, view.SessionID, answer.q, answer.opt))
	}

	result, err := f.service.Submit(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, models.ReasonUserSubmit, result.Reason)

	f.results.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(r *models.SessionResult) bool {
		return r.ID == view.SessionID && r.Percentage == 100 && r.Tier == models.LevelAdvanced
	}))
	f.progress.AssertCalled(t, "Upsert", mock.Anything, mock.MatchedBy(func(p *models.StudentSubjectProgress) bool {
		return p.TotalTestsTaken == 1 && p.TotalMarksEarned == 7 && p.BestScore == 100
	}))

	types := make([]events.EventType, 0)
	for _, ev := range f.publisher.GetPublishedEvents() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []events.EventType{events.EventSessionGenerated, events.EventSessionStarted, events.EventSessionEvaluated}, types)
}

func TestSessionService_GenerateRejectsInvalidRequest(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))

	_, err := f.service.Generate(context.Background(), GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "essay"})

	assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
}

func TestSessionService_GenerateUnknownSubject(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.Generate(context.Background(), GenerateRequest{StudentID: 42, SubjectID: 99, Mode: "subject"})

	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestSessionService_GenerationFailureLeavesNoSession(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	f.supplier.err = &supplier.GenerationError{Mode: models.ModeSubjectAssessment, Reason: "no questions"}

	_, err := f.service.Generate(context.Background(), GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "subject"})

	var genErr *supplier.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Zero(t, f.service.registry.Len())
}

func TestSessionService_AutoModeFeedsProgressToSupplier(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	f.progress.On("Get", mock.Anything, uint(42), uint(7)).Return(&models.StudentSubjectProgress{
		StudentID:          42,
		SubjectID:          7,
		ProgressPercentage: 72.5,
	}, nil)

	_, err := f.service.Generate(context.Background(), GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "auto"})

	require.NoError(t, err)
	assert.Equal(t, 72.5, f.supplier.lastReq.ProgressPercentage)
	assert.Equal(t, "math", f.supplier.lastReq.SubjectName)
}

func TestSessionService_TimeoutEvaluatesOnce(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(1))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)

	persisted := make(chan *models.SessionResult, 1)
	f.results.On("Create", mock.Anything, mock.AnythingOfType("*models.SessionResult")).
		Run(func(args mock.Arguments) {
			persisted <- args.Get(1).(*models.SessionResult)
		}).Return(nil)
	f.progress.On("Get", mock.Anything, uint(42), uint(7)).Return(nil, nil)
	f.progress.On("Upsert", mock.Anything, mock.AnythingOfType("*models.StudentSubjectProgress")).Return(nil)

	ctx := context.Background()
	view, err := f.service.Generate(ctx, GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "subject"})
	require.NoError(t, err)
	_, err = f.service.Begin(ctx, view.SessionID)
	require.NoError(t, err)
	require.NoError(t, f.service.RecordAnswer(ctx, view.SessionID, 4, models.OptionD))

	select {
	case result := <-persisted:
		assert.Equal(t, models.ReasonTimeout, result.EndReason)
		assert.Equal(t, 3, result.RawScore)
	case <-time.After(3 * time.Second):
		t.Fatal("timer never evaluated the session")
	}

	// The loser of a late manual submit gets the same result back.
	result, err := f.service.Submit(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.ReasonTimeout, result.Reason)
	f.results.AssertNumberOfCalls(t, "Create", 1)
}

func TestSessionService_UnknownSession(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	ctx := context.Background()

	_, err := f.service.Begin(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = f.service.RecordAnswer(ctx, "missing", 1, models.OptionA)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.service.Submit(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.service.TimeRemaining(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_BeginTwice(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	ctx := context.Background()

	view, err := f.service.Generate(ctx, GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "subject"})
	require.NoError(t, err)

	_, err = f.service.Begin(ctx, view.SessionID)
	require.NoError(t, err)
	_, err = f.service.Begin(ctx, view.SessionID)
	assert.ErrorIs(t, err, engine.ErrAlreadyStarted)
}

func TestSessionService_ResultFallsBackToLiveSession(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	// Persistence fails, the live session still answers result queries.
	f.results.On("Create", mock.Anything, mock.AnythingOfType("*models.SessionResult")).Return(gorm.ErrInvalidDB)
	f.results.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, gorm.ErrRecordNotFound)
	f.progress.On("Get", mock.Anything, uint(42), uint(7)).Return(nil, nil)
	f.progress.On("Upsert", mock.Anything, mock.AnythingOfType("*models.StudentSubjectProgress")).Return(nil)

	ctx := context.Background()
	view, err := f.service.Generate(ctx, GenerateRequest{StudentID: 42, SubjectID: 7, Mode: "subject"})
	require.NoError(t, err)
	_, err = f.service.Begin(ctx, view.SessionID)
	require.NoError(t, err)
	require.NoError(t, f.service.RecordAnswer(ctx, view.SessionID, 4, models.OptionD))
	_, err = f.service.Submit(ctx, view.SessionID)
	require.NoError(t, err)

	result, err := f.service.Result(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, view.SessionID, result.ID)
	assert.Equal(t, 3, result.RawScore)
	assert.Equal(t, models.LevelIntermediate, result.Tier)
}

func TestSessionService_InsightGeneratedAndStored(t *testing.T) {
	f := newSessionServiceFixture(t, weightedSet(600))
	stored := &models.SessionResult{
		ID:         "sess-9",
		StudentID:  42,
		SubjectID:  7,
		Mode:       models.ModeSubjectAssessment,
		Percentage: 85,
		Tier:       models.LevelAdvanced,
	}
	f.results.On("GetByID", mock.Anything, "sess-9").Return(stored, nil)
	f.subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	f.results.On("UpdateInsight", mock.Anything, "sess-9", mock.AnythingOfType("[]uint8")).Return(nil)

	out, err := f.service.Insight(context.Background(), "sess-9")

	require.NoError(t, err)
	assert.Equal(t, insight.BandExcellent, out.Band)
	f.results.AssertCalled(t, "UpdateInsight", mock.Anything, "sess-9", mock.AnythingOfType("[]uint8"))
}
