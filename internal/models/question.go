package models

import (
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DefaultMarks is the conventional weight per difficulty used when a question
// bank row carries no explicit marks. Marks stored on a question are always
// authoritative over this mapping.
func (d DifficultyLevel) DefaultMarks() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 1
	}
}

// Option is one of the four fixed answer letters.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

type Question struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SubjectID   uint            `json:"subject_id" gorm:"not null;index:idx_question_subject_difficulty"`
	TestID      *uint           `json:"test_id" gorm:"index"` // set for questions authored as part of a fixed mock test
	Text        string          `json:"text" gorm:"type:text;not null" validate:"required"`
	OptionA     string          `json:"option_a" gorm:"type:text;not null" validate:"required"`
	OptionB     string          `json:"option_b" gorm:"type:text;not null" validate:"required"`
	OptionC     string          `json:"option_c" gorm:"type:text;not null" validate:"required"`
	OptionD     string          `json:"option_d" gorm:"type:text;not null" validate:"required"`
	CorrectOption Option        `json:"-" gorm:"not null;size:1" validate:"required,option_letter"`
	Marks       int             `json:"marks" gorm:"not null;default:1" validate:"required,min=1"`
	Difficulty  DifficultyLevel `json:"difficulty" gorm:"not null;index:idx_question_subject_difficulty" validate:"required,difficulty_level"`
	Explanation *string         `json:"explanation" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OptionText returns the text behind an answer letter, or "" for an invalid letter.
func (q *Question) OptionText(o Option) string {
	switch o {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	case OptionD:
		return q.OptionD
	}
	return ""
}

// MockTest is an instructor-authored, reusable test definition. A session never
// mutates it; generation copies its questions into an ephemeral QuestionSet.
type MockTest struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	Title            string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description      *string `json:"description" gorm:"type:text"`
	SubjectID        uint    `json:"subject_id" gorm:"not null;index"`
	TotalMarks       int     `json:"total_marks" gorm:"not null;default:0"`
	TimeLimitMinutes int     `json:"time_limit_minutes" gorm:"not null;default:60" validate:"min=1,max=300"`
	IsPublic         bool    `json:"is_public" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subject   Subject    `json:"-" gorm:"foreignKey:SubjectID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID"`
}

func (Question) TableName() string {
	return "questions"
}

func (MockTest) TableName() string {
	return "mock_tests"
}

// QuestionSet is the fixed, ordered collection of questions bound to exactly one
// session. It is assembled by a test supplier and never changes afterwards.
type QuestionSet struct {
	ID        string `json:"id"`
	SubjectID uint   `json:"subject_id"`
	// TestID is set when the questions come from a fixed mock test.
	TestID           *uint      `json:"test_id,omitempty"`
	Questions        []Question `json:"questions"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	TotalMarks       int        `json:"total_marks"`
}

// NewQuestionSet fixes the question order and total marks at generation time.
func NewQuestionSet(id string, subjectID uint, questions []Question, timeLimitSeconds int) QuestionSet {
	total := 0
	for i := range questions {
		total += questions[i].Marks
	}
	return QuestionSet{
		ID:               id,
		SubjectID:        subjectID,
		Questions:        questions,
		TimeLimitSeconds: timeLimitSeconds,
		TotalMarks:       total,
	}
}

// QuestionByID returns the question with the given id, or nil when the set does
// not contain it.
func (qs *QuestionSet) QuestionByID(id uint) *Question {
	for i := range qs.Questions {
		if qs.Questions[i].ID == id {
			return &qs.Questions[i]
		}
	}
	return nil
}
