package engine

import "github.com/vedlearn/session-service/internal/models"

// TierFor maps a percentage score to a proficiency tier.
//
// Band edges are closed on the lower side: exactly 40 is still beginner and
// exactly 70 is still intermediate. Advanced requires strictly more than 70.
// Downstream course eligibility depends on this exact placement.
func TierFor(percentage int) models.CourseLevel {
	switch {
	case percentage <= 40:
		return models.LevelBeginner
	case percentage <= 70:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}
