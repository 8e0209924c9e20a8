package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vedlearn/session-service/internal/cache"
	"github.com/vedlearn/session-service/internal/engine"
	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/recommend"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/utils"
)

const recommendationTTL = 10 * time.Minute

// RecommendationService resolves follow-up courses for a performance tier,
// caching resolved lists per (subject, tier).
type RecommendationService struct {
	courses  repositories.CourseRepository
	subjects repositories.SubjectRepository
	cache    cache.CacheService
	logger   utils.Logger
}

func NewRecommendationService(courses repositories.CourseRepository, subjects repositories.SubjectRepository, cacheService cache.CacheService, logger utils.Logger) *RecommendationService {
	return &RecommendationService{
		courses:  courses,
		subjects: subjects,
		cache:    cacheService,
		logger:   logger,
	}
}

// Recommend returns the courses for a subject and tier, applying the fallback
// policy when the exact tier has no courses. An empty list is a valid outcome.
func (s *RecommendationService) Recommend(ctx context.Context, subjectID uint, tier models.CourseLevel) ([]models.Course, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	key := recommendationKey(subjectID, tier)
	if s.cache != nil {
		var cached []models.Course
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "recommendation cache read failed", "key", key, "error", err)
		}
	}

	courses, err := s.courses.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	resolved := recommend.Resolve(courses, tier)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resolved, recommendationTTL); err != nil {
			s.logger.WarnContext(ctx, "recommendation cache write failed", "key", key, "error", err)
		}
	}
	return resolved, nil
}

// RecommendForScore maps a percentage onto its tier first, then resolves.
func (s *RecommendationService) RecommendForScore(ctx context.Context, subjectID uint, percentage int) ([]models.Course, models.CourseLevel, error) {
	tier := engine.TierFor(percentage)
	courses, err := s.Recommend(ctx, subjectID, tier)
	return courses, tier, err
}

// InvalidateSubject drops cached recommendations after catalog changes.
func (s *RecommendationService) InvalidateSubject(ctx context.Context, subjectID uint) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("recommend:%d:*", subjectID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache invalidation failed", "pattern", pattern, "error", err)
	}
}

func recommendationKey(subjectID uint, tier models.CourseLevel) string {
	return fmt.Sprintf("recommend:%d:%s", subjectID, tier)
}
