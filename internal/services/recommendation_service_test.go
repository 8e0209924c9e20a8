package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/cache"
	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories/mocks"
	"github.com/vedlearn/session-service/internal/utils"
)

func subjectCourses() []models.Course {
	return []models.Course{
		{ID: 1, SubjectID: 7, Title: "Algebra Basics", Level: models.LevelBeginner},
		{ID: 2, SubjectID: 7, Title: "Linear Equations", Level: models.LevelIntermediate},
		{ID: 3, SubjectID: 7, Title: "Abstract Algebra", Level: models.LevelAdvanced},
	}
}

func newRecommendationFixture(t *testing.T) (*RecommendationService, *mocks.CourseRepository, *mocks.SubjectRepository) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := utils.NewDevelopmentLogger()
	courses := new(mocks.CourseRepository)
	subjects := new(mocks.SubjectRepository)
	service := NewRecommendationService(courses, subjects, cache.NewRedisCache(client, logger), logger)
	return service, courses, subjects
}

func TestRecommendationService_ResolvesAndCaches(t *testing.T) {
	service, courses, subjects := newRecommendationFixture(t)
	subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	courses.On("GetBySubject", mock.Anything, uint(7)).Return(subjectCourses(), nil)
	ctx := context.Background()

	first, err := service.Recommend(ctx, 7, models.LevelIntermediate)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Linear Equations", first[0].Title)

	// Second call is served from the cache.
	second, err := service.Recommend(ctx, 7, models.LevelIntermediate)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	courses.AssertNumberOfCalls(t, "GetBySubject", 1)
}

func TestRecommendationService_FallsBackToClosestTier(t *testing.T) {
	service, courses, subjects := newRecommendationFixture(t)
	subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	courses.On("GetBySubject", mock.Anything, uint(7)).Return([]models.Course{
		{ID: 3, SubjectID: 7, Title: "Abstract Algebra", Level: models.LevelAdvanced},
	}, nil)

	resolved, err := service.Recommend(context.Background(), 7, models.LevelBeginner)

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, models.LevelAdvanced, resolved[0].Level)
}

func TestRecommendationService_UnknownSubject(t *testing.T) {
	service, _, subjects := newRecommendationFixture(t)
	subjects.On("GetByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Recommend(context.Background(), 9, models.LevelBeginner)

	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestRecommendationService_RecommendForScore(t *testing.T) {
	service, courses, subjects := newRecommendationFixture(t)
	subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	courses.On("GetBySubject", mock.Anything, uint(7)).Return(subjectCourses(), nil)

	resolved, tier, err := service.RecommendForScore(context.Background(), 7, 35)

	require.NoError(t, err)
	assert.Equal(t, models.LevelBeginner, tier)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Algebra Basics", resolved[0].Title)
}

func TestRecommendationService_InvalidateSubject(t *testing.T) {
	service, courses, subjects := newRecommendationFixture(t)
	subjects.On("GetByID", mock.Anything, uint(7)).Return(&models.Subject{ID: 7, Name: "math"}, nil)
	courses.On("GetBySubject", mock.Anything, uint(7)).Return(subjectCourses(), nil)
	ctx := context.Background()

	_, err := service.Recommend(ctx, 7, models.LevelAdvanced)
	require.NoError(t, err)

	service.InvalidateSubject(ctx, 7)

	_, err = service.Recommend(ctx, 7, models.LevelAdvanced)
	require.NoError(t, err)
	courses.AssertNumberOfCalls(t, "GetBySubject", 2)
}
