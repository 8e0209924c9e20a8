package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vedlearn/session-service/internal/models"
)

// fourQuestionSet builds a set worth 7 marks (1+1+2+3), all with correct
// option A, used across the engine tests.
func fourQuestionSet(timeLimitSeconds int) models.QuestionSet {
	questions := []models.Question{
		{ID: 1, SubjectID: 10, Text: "q1", CorrectOption: models.OptionA, Marks: 1, Difficulty: models.DifficultyEasy},
		{ID: 2, SubjectID: 10, Text: "q2", CorrectOption: models.OptionA, Marks: 1, Difficulty: models.DifficultyEasy},
		{ID: 3, SubjectID: 10, Text: "q3", CorrectOption: models.OptionA, Marks: 2, Difficulty: models.DifficultyMedium},
		{ID: 4, SubjectID: 10, Text: "q4", CorrectOption: models.OptionA, Marks: 3, Difficulty: models.DifficultyHard},
	}
	return models.NewQuestionSet("set-1", 10, questions, timeLimitSeconds)
}

func TestScore_AllCorrect(t *testing.T) {
	set := fourQuestionSet(600)
	answers := models.AnswerMap{1: models.OptionA, 2: models.OptionA, 3: models.OptionA, 4: models.OptionA}

	result := Score(&set, answers)

	assert.Equal(t, 4, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 7, result.RawScore)
	assert.Equal(t, 7, result.TotalMarks)
	assert.Equal(t, 100, result.Percentage)
}

func TestScore_AllWrongOrUnanswered(t *testing.T) {
	set := fourQuestionSet(600)
	// One wrong answer, the rest unanswered.
	answers := models.AnswerMap{1: models.OptionB}

	result := Score(&set, answers)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 0, result.RawScore)
	assert.Equal(t, 0, result.Percentage)
}

func TestScore_PartialWeightedCredit(t *testing.T) {
	set := fourQuestionSet(600)
	// Only the hard 3-mark question is right: 3/7 rounds to 43.
	answers := models.AnswerMap{1: models.OptionC, 2: models.OptionD, 4: models.OptionA}

	result := Score(&set, answers)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 3, result.RawScore)
	assert.Equal(t, 43, result.Percentage)
}

func TestScore_RoundsHalfUp(t *testing.T) {
	questions := []models.Question{
		{ID: 1, CorrectOption: models.OptionA, Marks: 1, Difficulty: models.DifficultyEasy},
		{ID: 2, CorrectOption: models.OptionA, Marks: 7, Difficulty: models.DifficultyHard},
	}
	set := models.NewQuestionSet("set-2", 10, questions, 600)

	// 1/8 = 12.5, which rounds up to 13.
	result := Score(&set, models.AnswerMap{1: models.OptionA})
	assert.Equal(t, 13, result.Percentage)
}

func TestScore_EmptySetScoresZero(t *testing.T) {
	set := models.NewQuestionSet("set-empty", 10, nil, 600)

	result := Score(&set, models.AnswerMap{})

	assert.Equal(t, 0, result.TotalMarks)
	assert.Equal(t, 0, result.Percentage)
}
