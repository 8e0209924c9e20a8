package supplier

import (
	"context"

	"github.com/google/uuid"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/utils"
)

// FixedTestSupplier copies an instructor-authored mock test into a question
// set. The stored test is never mutated by the session taking it.
type FixedTestSupplier struct {
	tests  repositories.MockTestRepository
	logger utils.Logger
}

func NewFixedTestSupplier(tests repositories.MockTestRepository, logger utils.Logger) *FixedTestSupplier {
	return &FixedTestSupplier{tests: tests, logger: logger}
}

func (s *FixedTestSupplier) Supply(ctx context.Context, req Request) (models.QuestionSet, error) {
	if req.TestID == nil {
		return models.QuestionSet{}, generationFailed(models.ModeFixedMockTest, "test id is required", nil)
	}

	test, err := s.tests.GetByIDWithQuestions(ctx, *req.TestID)
	if err != nil {
		return models.QuestionSet{}, generationFailed(models.ModeFixedMockTest, "mock test not found", err)
	}
	if len(test.Questions) == 0 {
		return models.QuestionSet{}, generationFailed(models.ModeFixedMockTest, "mock test has no questions", nil)
	}

	questions := make([]models.Question, len(test.Questions))
	copy(questions, test.Questions)
	for i := range questions {
		if questions[i].Marks <= 0 {
			questions[i].Marks = questions[i].Difficulty.DefaultMarks()
		}
	}

	set := models.NewQuestionSet(uuid.NewString(), test.SubjectID, questions, test.TimeLimitMinutes*60)
	set.TestID = &test.ID
	s.logger.InfoContext(ctx, "question set assembled from mock test",
		"test_id", test.ID,
		"question_count", len(questions),
		"time_limit_minutes", test.TimeLimitMinutes)
	return set, nil
}
