package supplier

import (
	"context"

	"github.com/google/uuid"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories"
	"github.com/vedlearn/session-service/internal/utils"
)

const (
	defaultBankQuestionCount    = 10
	defaultBankTimeLimitMinutes = 30
)

// BankSupplier samples random question-bank questions for a subject. It backs
// the plain subject assessment mode.
type BankSupplier struct {
	questions     repositories.QuestionRepository
	logger        utils.Logger
	questionCount int
	timeLimitSec  int
}

func NewBankSupplier(questions repositories.QuestionRepository, logger utils.Logger) *BankSupplier {
	return &BankSupplier{
		questions:     questions,
		logger:        logger,
		questionCount: defaultBankQuestionCount,
		timeLimitSec:  defaultBankTimeLimitMinutes * 60,
	}
}

func (s *BankSupplier) Supply(ctx context.Context, req Request) (models.QuestionSet, error) {
	questions, err := s.questions.GetRandomBySubject(ctx, req.SubjectID, nil, s.questionCount)
	if err != nil {
		return models.QuestionSet{}, generationFailed(models.ModeSubjectAssessment, "question bank query failed", err)
	}
	if len(questions) == 0 {
		return models.QuestionSet{}, generationFailed(models.ModeSubjectAssessment, "no questions available for subject", nil)
	}

	// Stored marks are authoritative; zero means the row predates per-question
	// marks and falls back to the difficulty convention.
	for i := range questions {
		if questions[i].Marks <= 0 {
			questions[i].Marks = questions[i].Difficulty.DefaultMarks()
		}
	}

	set := models.NewQuestionSet(uuid.NewString(), req.SubjectID, questions, s.timeLimitSec)
	s.logger.InfoContext(ctx, "question set assembled from bank",
		"subject_id", req.SubjectID,
		"question_count", len(questions),
		"total_marks", set.TotalMarks)
	return set, nil
}
