// Package recommend maps a scored performance tier onto follow-up courses.
// Resolution is pure: it works over a course list already narrowed to one
// subject and never errors, an empty catalog just yields no recommendations.
package recommend

import (
	"sort"

	"github.com/vedlearn/session-service/internal/models"
)

// Resolve picks the courses to surface for a tier, falling back when the
// catalog has no exact match:
//
//  1. courses at exactly the requested tier
//  2. courses at the ordinally closest populated tier, ties going to the
//     lower (easier) tier
//  3. every course for the subject, regardless of tier
//
// A nil result means the subject has no courses at all, which is a valid
// outcome rather than a failure.
func Resolve(courses []models.Course, tier models.CourseLevel) []models.Course {
	if len(courses) == 0 {
		return nil
	}

	byLevel := make(map[models.CourseLevel][]models.Course)
	for _, c := range courses {
		byLevel[c.Level] = append(byLevel[c.Level], c)
	}

	if exact, ok := byLevel[tier]; ok {
		return sortByTitle(exact)
	}

	if closest := closestLevel(byLevel, tier); closest != "" {
		return sortByTitle(byLevel[closest])
	}

	return sortByTitle(append([]models.Course(nil), courses...))
}

// closestLevel finds the populated tier with the smallest ordinal distance to
// the target, preferring the easier tier on a tie. It returns "" when no
// populated tier has a known ordinal.
func closestLevel(byLevel map[models.CourseLevel][]models.Course, tier models.CourseLevel) models.CourseLevel {
	target := tier.Ordinal()
	if target < 0 {
		return ""
	}

	best := models.CourseLevel("")
	bestDist := -1
	for _, level := range []models.CourseLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced} {
		if _, ok := byLevel[level]; !ok {
			continue
		}
		dist := level.Ordinal() - target
		if dist < 0 {
			dist = -dist
		}
		// Iteration runs lowest tier first, so a strict improvement check
		// keeps the easier tier on equal distance.
		if bestDist < 0 || dist < bestDist {
			best = level
			bestDist = dist
		}
	}
	return best
}

func sortByTitle(courses []models.Course) []models.Course {
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Title < courses[j].Title
	})
	return courses
}
