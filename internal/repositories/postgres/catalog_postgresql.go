package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s SubjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	return s.db.WithContext(ctx).Create(subject).Error
}

func (s SubjectPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s SubjectPostgreSQL) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s SubjectPostgreSQL) List(ctx context.Context, activeOnly bool) ([]*models.Subject, error) {
	var subjects []*models.Subject

	query := s.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Create(course).Error
}

func (c CoursePostgreSQL) CreateBatch(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).CreateInBatches(courses, 100).Error
}

func (c CoursePostgreSQL) GetBySubject(ctx context.Context, subjectID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := c.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("title ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c CoursePostgreSQL) GetBySubjectAndLevel(ctx context.Context, subjectID uint, level models.CourseLevel) ([]models.Course, error) {
	var courses []models.Course
	if err := c.db.WithContext(ctx).
		Where("subject_id = ? AND level = ?", subjectID, level).
		Order("title ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
