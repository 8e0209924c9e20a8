package repositories

import (
	"context"

	"github.com/vedlearn/session-service/internal/models"
)

// QuestionRepository covers the question bank that feeds subject assessments.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	// GetRandomBySubject samples up to limit bank questions (TestID IS NULL) for
	// a subject, optionally pinned to one difficulty.
	GetRandomBySubject(ctx context.Context, subjectID uint, difficulty *models.DifficultyLevel, limit int) ([]models.Question, error)
	CountBySubject(ctx context.Context, subjectID uint) (int64, error)
}

// MockTestRepository covers instructor-authored fixed tests.
type MockTestRepository interface {
	Create(ctx context.Context, test *models.MockTest) error
	GetByID(ctx context.Context, id uint) (*models.MockTest, error)
	// GetByIDWithQuestions loads the test together with its question list.
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error)
	Update(ctx context.Context, test *models.MockTest) error
	Delete(ctx context.Context, id uint) error
	ListBySubject(ctx context.Context, subjectID uint, publicOnly bool) ([]*models.MockTest, error)
}

// SubjectRepository covers the subject catalog.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)
	GetByName(ctx context.Context, name string) (*models.Subject, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Subject, error)
}

// CourseRepository covers the course catalog consumed by recommendations.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	CreateBatch(ctx context.Context, courses []*models.Course) error
	GetBySubject(ctx context.Context, subjectID uint) ([]models.Course, error)
	GetBySubjectAndLevel(ctx context.Context, subjectID uint, level models.CourseLevel) ([]models.Course, error)
}

// ResultRepository persists evaluated session outcomes.
type ResultRepository interface {
	Create(ctx context.Context, result *models.SessionResult) error
	GetByID(ctx context.Context, id string) (*models.SessionResult, error)
	GetByStudent(ctx context.Context, studentID uint, filters ResultFilters) ([]*models.SessionResult, int64, error)
	UpdateInsight(ctx context.Context, id string, insight []byte) error
}

// ProgressRepository accumulates per-student, per-subject performance.
type ProgressRepository interface {
	Get(ctx context.Context, studentID, subjectID uint) (*models.StudentSubjectProgress, error)
	// Upsert creates the row on first contact and overwrites it afterwards.
	Upsert(ctx context.Context, progress *models.StudentSubjectProgress) error
}

// ===== FILTERS =====

type QuestionFilters struct {
	SubjectID  *uint                   `json:"subject_id"`
	TestID     *uint                   `json:"test_id"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Search     *string                 `json:"search"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type ResultFilters struct {
	SubjectID *uint            `json:"subject_id"`
	Mode      *models.TestMode `json:"mode"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}
