package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionGenerated  SessionState = "generated"
	SessionInProgress SessionState = "in_progress"
	SessionSubmitted  SessionState = "submitted"
	SessionEvaluated  SessionState = "evaluated"
)

// TestMode selects which supplier builds the question set for a session.
type TestMode string

const (
	ModeSubjectAssessment TestMode = "subject"
	ModeFixedMockTest     TestMode = "mock"
	ModeAutomatedMockTest TestMode = "auto"
)

func (m TestMode) Valid() bool {
	switch m {
	case ModeSubjectAssessment, ModeFixedMockTest, ModeAutomatedMockTest:
		return true
	}
	return false
}

// SubmitReason distinguishes how a session left InProgress. Timeout is a normal
// terminal transition, never an error.
type SubmitReason string

const (
	ReasonUserSubmit SubmitReason = "user_submitted"
	ReasonTimeout    SubmitReason = "auto_submitted"
)

// AnswerMap holds the selected option per question id. A question absent from
// the map is unanswered.
type AnswerMap map[uint]Option

// Clone returns an independent copy so a frozen snapshot cannot alias live state.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ScoreResult is derived once from a frozen answer map and never mutated.
type ScoreResult struct {
	CorrectCount     int          `json:"correct_count"`
	TotalQuestions   int          `json:"total_questions"`
	RawScore         int          `json:"raw_score"`
	TotalMarks       int          `json:"total_marks"`
	Percentage       int          `json:"percentage"`
	TimeTakenSeconds int          `json:"time_taken_seconds"`
	Reason           SubmitReason `json:"reason"`
}

// SessionResult is the persisted record of an evaluated session, written to the
// results store after the one and only submission.
type SessionResult struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	StudentID uint     `json:"student_id" gorm:"not null;index:idx_result_student_subject"`
	SubjectID uint     `json:"subject_id" gorm:"not null;index:idx_result_student_subject"`
	TestID    *uint    `json:"test_id"` // fixed mock test id, when applicable
	Mode      TestMode `json:"mode" gorm:"not null;size:16"`

	CorrectCount     int          `json:"correct_count" gorm:"not null"`
	TotalQuestions   int          `json:"total_questions" gorm:"not null"`
	RawScore         int          `json:"raw_score" gorm:"not null"`
	TotalMarks       int          `json:"total_marks" gorm:"not null"`
	Percentage       int          `json:"percentage" gorm:"not null"`
	Tier             CourseLevel  `json:"tier" gorm:"not null;size:16"`
	TimeTakenSeconds int          `json:"time_taken_seconds" gorm:"not null"`
	EndReason        SubmitReason `json:"end_reason" gorm:"not null;size:16"`

	// Answer snapshot at submission, keyed by question id.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	// Free-form qualitative feedback from the insight generator, when requested.
	Insight datatypes.JSON `json:"insight,omitempty" gorm:"type:jsonb"`

	StartedAt   time.Time `json:"started_at"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SessionResult) TableName() string {
	return "session_results"
}

// StudentSubjectProgress accumulates per-subject performance across sessions.
// The automated supplier reads it to pick difficulty and test length.
type StudentSubjectProgress struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_progress_student_subject"`
	SubjectID uint `json:"subject_id" gorm:"not null;uniqueIndex:idx_progress_student_subject"`

	TotalTestsTaken    int     `json:"total_tests_taken" gorm:"not null;default:0"`
	TotalMarksEarned   int     `json:"total_marks_earned" gorm:"not null;default:0"`
	TotalMarksPossible int     `json:"total_marks_possible" gorm:"not null;default:0"`
	ProgressPercentage float64 `json:"progress_percentage" gorm:"not null;default:0"`
	AverageScore       float64 `json:"average_score" gorm:"not null;default:0"`
	BestScore          float64 `json:"best_score" gorm:"not null;default:0"`

	LastTestAt *time.Time `json:"last_test_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (StudentSubjectProgress) TableName() string {
	return "student_subject_progress"
}
