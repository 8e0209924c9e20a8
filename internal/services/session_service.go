package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/engine"
	"github.com/vedlearn/session-service/internal/events"
	"github.com/vedlearn/session-service/internal/insight"
	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/supplier"
	"github.com/vedlearn/session-service/internal/utils"
	"github.com/vedlearn/session-service/internal/validator"
)

// GenerateRequest starts the lifecycle: a validated request produces a
// Generated session bound to a fresh question set.
type GenerateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	SubjectID uint   `json:"subject_id"`
	Mode      string `json:"mode" validate:"required,test_mode"`
	TestID    *uint  `json:"test_id"`
}

// QuestionView is a question as shown to the student: the correct option never
// leaves the server.
type QuestionView struct {
	ID         uint                   `json:"id"`
	Text       string                 `json:"text"`
	OptionA    string                 `json:"option_a"`
	OptionB    string                 `json:"option_b"`
	OptionC    string                 `json:"option_c"`
	OptionD    string                 `json:"option_d"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
	Marks      int                    `json:"marks"`
}

type SessionView struct {
	SessionID        string              `json:"session_id"`
	SubjectID        uint                `json:"subject_id"`
	Mode             models.TestMode     `json:"mode"`
	State            models.SessionState `json:"state"`
	TimeLimitSeconds int                 `json:"time_limit_seconds"`
	TotalMarks       int                 `json:"total_marks"`
	Questions        []QuestionView      `json:"questions"`
}

type TimeRemainingView struct {
	SessionID        string              `json:"session_id"`
	State            models.SessionState `json:"state"`
	RemainingSeconds int                 `json:"remaining_seconds"`
}

// SessionServiceConfig bundles the collaborators of the session service.
type SessionServiceConfig struct {
	Registry  *SessionRegistry
	Suppliers map[models.TestMode]supplier.TestSupplier
	Subjects  repositories.SubjectRepository
	Results   repositories.ResultRepository
	Progress  repositories.ProgressRepository
	Publisher events.EventPublisher
	Insights  insight.Generator
	Validator *validator.Validator
	Logger    utils.Logger
	// TickInterval overrides the countdown tick, tests only.
	TickInterval time.Duration
}

// SessionService orchestrates the session lifecycle around the engine: it
// generates question sets, tracks live sessions, and runs the one-shot
// evaluation side effects.
type SessionService struct {
	registry  *SessionRegistry
	suppliers map[models.TestMode]supplier.TestSupplier
	subjects  repositories.SubjectRepository
	results   repositories.ResultRepository
	progress  repositories.ProgressRepository
	publisher events.EventPublisher
	insights  insight.Generator
	validate  *validator.Validator
	logger    utils.Logger
	ops       *ServiceLogger
	tick      time.Duration
}

func NewSessionService(cfg SessionServiceConfig) *SessionService {
	tick := cfg.TickInterval
	if tick == 0 {
		tick = time.Second
	}
	return &SessionService{
		registry:  cfg.Registry,
		suppliers: cfg.Suppliers,
		subjects:  cfg.Subjects,
		results:   cfg.Results,
		progress:  cfg.Progress,
		publisher: cfg.Publisher,
		insights:  cfg.Insights,
		validate:  cfg.Validator,
		logger:    cfg.Logger,
		ops: NewServiceLogger(utils.ToSlogLogger(cfg.Logger), LogConfig{
			Service:   "session-service",
			Component: "sessions",
		}),
		tick: tick,
	}
}

// Generate builds a question set for the requested mode and registers a new
// session in Generated state. Generation failures leave no session behind.
func (s *SessionService) Generate(ctx context.Context, req GenerateRequest) (view *SessionView, err error) {
	op := s.ops.WithOperation(ctx, "generate", req.StudentID)
	defer func() {
		sessionID := ""
		if view != nil {
			sessionID = view.SessionID
		}
		op.LogResult(sessionID, err)
	}()

	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	mode := models.TestMode(req.Mode)
	sup, ok := s.suppliers[mode]
	if !ok {
		return nil, ErrInvalidTestMode
	}

	supReq := supplier.Request{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TestID:    req.TestID,
	}

	if mode != models.ModeFixedMockTest {
		subject, err := s.subjects.GetByID(ctx, req.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubjectNotFound
			}
			return nil, err
		}
		supReq.SubjectName = subject.Name
	}

	if mode == models.ModeAutomatedMockTest {
		progress, err := s.progress.Get(ctx, req.StudentID, req.SubjectID)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			supReq.ProgressPercentage = progress.ProgressPercentage
		}
	}

	set, err := sup.Supply(ctx, supReq)
	if err != nil {
		s.logger.WarnContext(ctx, "session generation failed",
			"student_id", req.StudentID,
			"mode", mode,
			"error", err)
		return nil, err
	}

	sess := engine.NewSession(uuid.NewString(), req.StudentID, mode, set,
		engine.WithTickInterval(s.tick),
		engine.WithEvaluatedHook(s.handleEvaluated))
	s.registry.Put(sess)

	s.publishEvent(ctx, events.NewSessionGeneratedEvent(sess.ID(), req.StudentID, sess.Set(), mode))
	s.logger.InfoContext(ctx, "session generated",
		"session_id", sess.ID(),
		"student_id", req.StudentID,
		"mode", mode,
		"question_count", len(set.Questions))

	return s.viewOf(sess), nil
}

// Begin starts the countdown for a generated session.
func (s *SessionService) Begin(ctx context.Context, sessionID string) (*TimeRemainingView, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := sess.Begin(); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewSessionStartedEvent(sess.ID(), sess.StudentID(), sess.StartedAt(), sess.Set().TimeLimitSeconds))
	return s.timeRemainingOf(sess), nil
}

// RecordAnswer stores a student's option pick on a running session.
func (s *SessionService) RecordAnswer(ctx context.Context, sessionID string, questionID uint, option models.Option) error {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	return sess.RecordAnswer(questionID, option)
}

// Submit finalizes a session on the student's behalf; duplicates are no-ops.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (result models.ScoreResult, err error) {
	op := s.ops.WithOperation(ctx, "submit", 0)
	defer func() { op.LogResult(sessionID, err) }()

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return models.ScoreResult{}, ErrSessionNotFound
	}
	return sess.Submit()
}

// TimeRemaining reports the countdown without touching session state.
func (s *SessionService) TimeRemaining(ctx context.Context, sessionID string) (*TimeRemainingView, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.timeRemainingOf(sess), nil
}

// Result returns the evaluated outcome of a session, from the results store or
// from the live session when persistence has not caught up.
func (s *SessionService) Result(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	stored, err := s.results.GetByID(ctx, sessionID)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	result, err := sess.Result()
	if err != nil {
		return nil, ErrSessionNotEvaluated
	}

	return buildSessionResult(engine.Evaluation{
		SessionID:   sess.ID(),
		StudentID:   sess.StudentID(),
		Mode:        sess.Mode(),
		Set:         sess.Set(),
		Answers:     sess.Answers(),
		Result:      result,
		Tier:        engine.TierFor(result.Percentage),
		StartedAt:   sess.StartedAt(),
		SubmittedAt: sess.SubmittedAt(),
	}), nil
}

// History lists a student's evaluated sessions, newest first.
func (s *SessionService) History(ctx context.Context, studentID uint, filters repositories.ResultFilters) ([]*models.SessionResult, int64, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	return s.results.GetByStudent(ctx, studentID, filters)
}

// Insight returns the qualitative feedback for an evaluated session,
// generating and storing it on first request.
func (s *SessionService) Insight(ctx context.Context, sessionID string) (*insight.Insight, error) {
	result, err := s.Result(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(result.Insight) > 0 {
		var stored insight.Insight
		if err := json.Unmarshal(result.Insight, &stored); err == nil {
			return &stored, nil
		}
		s.logger.WarnContext(ctx, "discarding unreadable stored insight", "session_id", sessionID)
	}

	subjectName := ""
	if subject, err := s.subjects.GetByID(ctx, result.SubjectID); err == nil {
		subjectName = subject.Name
	}

	generated, err := s.insights.Generate(ctx, insight.Input{
		SubjectName: subjectName,
		Result: models.ScoreResult{
			CorrectCount:     result.CorrectCount,
			TotalQuestions:   result.TotalQuestions,
			RawScore:         result.RawScore,
			TotalMarks:       result.TotalMarks,
			Percentage:       result.Percentage,
			TimeTakenSeconds: result.TimeTakenSeconds,
			Reason:           result.EndReason,
		},
		Tier: result.Tier,
	})
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(generated); err == nil {
		if err := s.results.UpdateInsight(ctx, sessionID, payload); err != nil {
			s.logger.WarnContext(ctx, "failed to store insight", "session_id", sessionID, "error", err)
		}
	}
	return &generated, nil
}

// handleEvaluated runs the one-shot side effects of the winning transition.
// Persistence failures are logged, never surfaced: the score already stands.
func (s *SessionService) handleEvaluated(ev engine.Evaluation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := buildSessionResult(ev)
	if err := s.results.Create(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist session result",
			"session_id", ev.SessionID,
			"error", err)
	}

	if err := s.updateProgress(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "failed to update student progress",
			"session_id", ev.SessionID,
			"student_id", ev.StudentID,
			"error", err)
	}

	s.publishEvent(ctx, events.NewSessionEvaluatedEvent(result))
	s.logger.Info("session evaluated",
		"session_id", ev.SessionID,
		"student_id", ev.StudentID,
		"percentage", ev.Result.Percentage,
		"tier", ev.Tier,
		"reason", ev.Result.Reason)
}

func buildSessionResult(ev engine.Evaluation) *models.SessionResult {
	answers, _ := json.Marshal(ev.Answers)
	return &models.SessionResult{
		ID:               ev.SessionID,
		StudentID:        ev.StudentID,
		SubjectID:        ev.Set.SubjectID,
		TestID:           ev.Set.TestID,
		Mode:             ev.Mode,
		CorrectCount:     ev.Result.CorrectCount,
		TotalQuestions:   ev.Result.TotalQuestions,
		RawScore:         ev.Result.RawScore,
		TotalMarks:       ev.Result.TotalMarks,
		Percentage:       ev.Result.Percentage,
		Tier:             ev.Tier,
		TimeTakenSeconds: ev.Result.TimeTakenSeconds,
		EndReason:        ev.Result.Reason,
		Answers:          answers,
		StartedAt:        ev.StartedAt,
		SubmittedAt:      ev.SubmittedAt,
	}
}

// updateProgress folds the evaluation into the per-subject running totals that
// drive automated test difficulty.
func (s *SessionService) updateProgress(ctx context.Context, ev engine.Evaluation) error {
	current, err := s.progress.Get(ctx, ev.StudentID, ev.Set.SubjectID)
	if err != nil {
		return err
	}
	if current == nil {
		current = &models.StudentSubjectProgress{
			StudentID: ev.StudentID,
			SubjectID: ev.Set.SubjectID,
		}
	}

	percentage := float64(ev.Result.Percentage)
	taken := current.TotalTestsTaken + 1

	current.TotalTestsTaken = taken
	current.TotalMarksEarned += ev.Result.RawScore
	current.TotalMarksPossible += ev.Result.TotalMarks
	if current.TotalMarksPossible > 0 {
		current.ProgressPercentage = float64(current.TotalMarksEarned) / float64(current.TotalMarksPossible) * 100
	}
	current.AverageScore = (current.AverageScore*float64(taken-1) + percentage) / float64(taken)
	if percentage > current.BestScore {
		current.BestScore = percentage
	}
	submittedAt := ev.SubmittedAt
	current.LastTestAt = &submittedAt

	return s.progress.Upsert(ctx, current)
}

func (s *SessionService) publishEvent(ctx context.Context, event *events.SessionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish session event",
			"event_type", event.Type,
			"error", err)
	}
}

func (s *SessionService) viewOf(sess *engine.Session) *SessionView {
	set := sess.Set()
	questions := make([]QuestionView, len(set.Questions))
	for i, q := range set.Questions {
		questions[i] = QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			OptionA:    q.OptionA,
			OptionB:    q.OptionB,
			OptionC:    q.OptionC,
			OptionD:    q.OptionD,
			Difficulty: q.Difficulty,
			Marks:      q.Marks,
		}
	}
	return &SessionView{
		SessionID:        sess.ID(),
		SubjectID:        set.SubjectID,
		Mode:             sess.Mode(),
		State:            sess.State(),
		TimeLimitSeconds: set.TimeLimitSeconds,
		TotalMarks:       set.TotalMarks,
		Questions:        questions,
	}
}

func (s *SessionService) timeRemainingOf(sess *engine.Session) *TimeRemainingView {
	return &TimeRemainingView{
		SessionID:        sess.ID(),
		State:            sess.State(),
		RemainingSeconds: sess.RemainingSeconds(),
	}
}
