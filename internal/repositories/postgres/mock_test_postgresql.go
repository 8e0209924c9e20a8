package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
)

type MockTestPostgreSQL struct {
	db *gorm.DB
}

func NewMockTestPostgreSQL(db *gorm.DB) repositories.MockTestRepository {
	return &MockTestPostgreSQL{db: db}
}

func (m MockTestPostgreSQL) Create(ctx context.Context, test *models.MockTest) error {
	return m.db.WithContext(ctx).Create(test).Error
}

func (m MockTestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	var test models.MockTest
	if err := m.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (m MockTestPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error) {
	var test models.MockTest
	if err := m.db.WithContext(ctx).
		Preload("Questions").
		First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (m MockTestPostgreSQL) Update(ctx context.Context, test *models.MockTest) error {
	return m.db.WithContext(ctx).Save(test).Error
}

func (m MockTestPostgreSQL) Delete(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Delete(&models.MockTest{}, id).Error
}

func (m MockTestPostgreSQL) ListBySubject(ctx context.Context, subjectID uint, publicOnly bool) ([]*models.MockTest, error) {
	var tests []*models.MockTest

	query := m.db.WithContext(ctx).Where("subject_id = ?", subjectID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	if err := query.Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}
