package insight

import (
	"context"
	"fmt"
)

// Performance bands for the rule-based generator.
const (
	BandExcellent        = "Excellent"
	BandGood             = "Good"
	BandNeedsImprovement = "Needs Improvement"
	BandBeginnerLevel    = "Beginner Level"
)

// RuleBased derives feedback from the score alone. It never fails, which makes
// it the terminal fallback when the AI generator is unavailable.
type RuleBased struct{}

func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

func (r *RuleBased) Generate(_ context.Context, input Input) (Insight, error) {
	p := input.Result.Percentage

	var out Insight
	switch {
	case p >= 80:
		out = Insight{
			Band:    BandExcellent,
			Summary: fmt.Sprintf("Excellent work in %s: %d%% with %d of %d questions correct.", input.SubjectName, p, input.Result.CorrectCount, input.Result.TotalQuestions),
			Strengths: []string{
				"Strong command of the tested material",
				"Consistent accuracy across difficulty levels",
			},
			Weaknesses: []string{},
			Recommendations: []string{
				"Move on to advanced material in this subject",
				"Attempt harder question sets to stay challenged",
			},
		}
	case p >= 60:
		out = Insight{
			Band:    BandGood,
			Summary: fmt.Sprintf("Good performance in %s: %d%%.", input.SubjectName, p),
			Strengths: []string{
				"Solid grasp of core concepts",
			},
			Weaknesses: []string{
				"Some gaps on harder questions",
			},
			Recommendations: []string{
				"Review the questions answered incorrectly",
				"Practice medium and hard difficulty questions",
			},
		}
	case p >= 40:
		out = Insight{
			Band:    BandNeedsImprovement,
			Summary: fmt.Sprintf("Room to grow in %s: %d%%.", input.SubjectName, p),
			Strengths: []string{
				"Familiarity with parts of the material",
			},
			Weaknesses: []string{
				"Core concepts need reinforcement",
			},
			Recommendations: []string{
				"Revisit the fundamentals before retesting",
				"Work through intermediate courses in this subject",
			},
		}
	default:
		out = Insight{
			Band:    BandBeginnerLevel,
			Summary: fmt.Sprintf("A starting point in %s: %d%%.", input.SubjectName, p),
			Strengths: []string{
				"Completed a full assessment",
			},
			Weaknesses: []string{
				"Most of the tested material is still unfamiliar",
			},
			Recommendations: []string{
				"Start with beginner courses in this subject",
				"Retake the assessment after studying the basics",
			},
		}
	}
	return out, nil
}
