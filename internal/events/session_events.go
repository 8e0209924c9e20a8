package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/vedlearn/session-service/internal/models"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	EventSessionGenerated EventType = "session.generated"
	EventSessionStarted   EventType = "session.started"
	EventSessionEvaluated EventType = "session.evaluated"
)

const eventSource = "session-service"

// SessionEvent is the envelope for all published session events.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionGeneratedEvent struct {
	SessionID        string          `json:"session_id"`
	StudentID        uint            `json:"student_id"`
	SubjectID        uint            `json:"subject_id"`
	Mode             models.TestMode `json:"mode"`
	QuestionCount    int             `json:"question_count"`
	TotalMarks       int             `json:"total_marks"`
	TimeLimitSeconds int             `json:"time_limit_seconds"`
}

type SessionStartedEvent struct {
	SessionID        string    `json:"session_id"`
	StudentID        uint      `json:"student_id"`
	StartedAt        time.Time `json:"started_at"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
}

type SessionEvaluatedEvent struct {
	SessionID   string              `json:"session_id"`
	StudentID   uint                `json:"student_id"`
	SubjectID   uint                `json:"subject_id"`
	Mode        models.TestMode     `json:"mode"`
	Percentage  int                 `json:"percentage"`
	RawScore    int                 `json:"raw_score"`
	TotalMarks  int                 `json:"total_marks"`
	Tier        models.CourseLevel  `json:"tier"`
	EndReason   models.SubmitReason `json:"end_reason"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

func NewSessionGeneratedEvent(sessionID string, studentID uint, set *models.QuestionSet, mode models.TestMode) *SessionEvent {
	return newEvent(EventSessionGenerated, SessionGeneratedEvent{
		SessionID:        sessionID,
		StudentID:        studentID,
		SubjectID:        set.SubjectID,
		Mode:             mode,
		QuestionCount:    len(set.Questions),
		TotalMarks:       set.TotalMarks,
		TimeLimitSeconds: set.TimeLimitSeconds,
	})
}

func NewSessionStartedEvent(sessionID string, studentID uint, startedAt time.Time, timeLimitSeconds int) *SessionEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:        sessionID,
		StudentID:        studentID,
		StartedAt:        startedAt,
		TimeLimitSeconds: timeLimitSeconds,
	})
}

func NewSessionEvaluatedEvent(result *models.SessionResult) *SessionEvent {
	return newEvent(EventSessionEvaluated, SessionEvaluatedEvent{
		SessionID:   result.ID,
		StudentID:   result.StudentID,
		SubjectID:   result.SubjectID,
		Mode:        result.Mode,
		Percentage:  result.Percentage,
		RawScore:    result.RawScore,
		TotalMarks:  result.TotalMarks,
		Tier:        result.Tier,
		EndReason:   result.EndReason,
		SubmittedAt: result.SubmittedAt,
	})
}
