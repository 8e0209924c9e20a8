package engine

import (
	"math"

	"github.com/vedlearn/session-service/internal/models"
)

// Score grades a frozen answer map against its question set. It is pure and
// deterministic: scoring the same inputs twice yields identical results.
//
// Marks are read from each question as stored at generation time; they are
// never recomputed from difficulty. An unanswered question never counts as
// correct. An empty set resolves to 0% rather than a division error.
func Score(set *models.QuestionSet, answers models.AnswerMap) models.ScoreResult {
	result := models.ScoreResult{
		TotalQuestions: len(set.Questions),
		TotalMarks:     set.TotalMarks,
	}

	for i := range set.Questions {
		q := &set.Questions[i]
		selected, answered := answers[q.ID]
		if !answered {
			continue
		}
		if selected == q.CorrectOption {
			result.CorrectCount++
			result.RawScore += q.Marks
		}
	}

	if result.TotalMarks > 0 {
		result.Percentage = roundHalfUp(float64(result.RawScore) / float64(result.TotalMarks) * 100)
	}
	return result
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
