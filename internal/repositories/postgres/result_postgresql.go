package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) Create(ctx context.Context, result *models.SessionResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r ResultPostgreSQL) GetByID(ctx context.Context, id string) (*models.SessionResult, error) {
	var result models.SessionResult
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) GetByStudent(ctx context.Context, studentID uint, filters repositories.ResultFilters) ([]*models.SessionResult, int64, error) {
	var results []*models.SessionResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SessionResult{}).Where("student_id = ?", studentID)
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.Mode != nil {
		query = query.Where("mode = ?", *filters.Mode)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("submitted_at DESC").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r ResultPostgreSQL) UpdateInsight(ctx context.Context, id string, insight []byte) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionResult{}).
		Where("id = ?", id).
		Update("insight", insight).Error
}

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p ProgressPostgreSQL) Get(ctx context.Context, studentID, subjectID uint) (*models.StudentSubjectProgress, error) {
	var progress models.StudentSubjectProgress
	if err := p.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (p ProgressPostgreSQL) Upsert(ctx context.Context, progress *models.StudentSubjectProgress) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
			UpdateAll: true,
		}).
		Create(progress).Error
}
