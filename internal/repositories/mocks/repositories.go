// Package mocks provides testify mocks for the repository interfaces, shared
// by the supplier and service tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
)

type QuestionRepository struct {
	mock.Mock
}

func (m *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *QuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	return m.Called(ctx, questions).Error(0)
}

func (m *QuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *QuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *QuestionRepository) GetRandomBySubject(ctx context.Context, subjectID uint, difficulty *models.DifficultyLevel, limit int) ([]models.Question, error) {
	args := m.Called(ctx, subjectID, difficulty, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *QuestionRepository) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(ctx context.Context, test *models.MockTest) error {
	return m.Called(ctx, test).Error(0)
}

func (m *MockTestRepository) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MockTest), args.Error(1)
}

func (m *MockTestRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MockTest), args.Error(1)
}

func (m *MockTestRepository) Update(ctx context.Context, test *models.MockTest) error {
	return m.Called(ctx, test).Error(0)
}

func (m *MockTestRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTestRepository) ListBySubject(ctx context.Context, subjectID uint, publicOnly bool) ([]*models.MockTest, error) {
	args := m.Called(ctx, subjectID, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MockTest), args.Error(1)
}

type SubjectRepository struct {
	mock.Mock
}

func (m *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return m.Called(ctx, subject).Error(0)
}

func (m *SubjectRepository) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *SubjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *SubjectRepository) List(ctx context.Context, activeOnly bool) ([]*models.Subject, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

type CourseRepository struct {
	mock.Mock
}

func (m *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *CourseRepository) CreateBatch(ctx context.Context, courses []*models.Course) error {
	return m.Called(ctx, courses).Error(0)
}

func (m *CourseRepository) GetBySubject(ctx context.Context, subjectID uint) ([]models.Course, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *CourseRepository) GetBySubjectAndLevel(ctx context.Context, subjectID uint, level models.CourseLevel) ([]models.Course, error) {
	args := m.Called(ctx, subjectID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

type ResultRepository struct {
	mock.Mock
}

func (m *ResultRepository) Create(ctx context.Context, result *models.SessionResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *ResultRepository) GetByID(ctx context.Context, id string) (*models.SessionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionResult), args.Error(1)
}

func (m *ResultRepository) GetByStudent(ctx context.Context, studentID uint, filters repositories.ResultFilters) ([]*models.SessionResult, int64, error) {
	args := m.Called(ctx, studentID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.SessionResult), args.Get(1).(int64), args.Error(2)
}

func (m *ResultRepository) UpdateInsight(ctx context.Context, id string, insight []byte) error {
	return m.Called(ctx, id, insight).Error(0)
}

type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Get(ctx context.Context, studentID, subjectID uint) (*models.StudentSubjectProgress, error) {
	args := m.Called(ctx, studentID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentSubjectProgress), args.Error(1)
}

func (m *ProgressRepository) Upsert(ctx context.Context, progress *models.StudentSubjectProgress) error {
	return m.Called(ctx, progress).Error(0)
}
