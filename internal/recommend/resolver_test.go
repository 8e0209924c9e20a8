package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedlearn/session-service/internal/models"
)

func course(id uint, title string, level models.CourseLevel) models.Course {
	return models.Course{ID: id, SubjectID: 1, Title: title, Level: level}
}

func TestResolve_ExactTierMatch(t *testing.T) {
	catalog := []models.Course{
		course(1, "Algebra Basics", models.LevelBeginner),
		course(2, "Linear Algebra", models.LevelIntermediate),
		course(3, "Abstract Algebra", models.LevelAdvanced),
	}

	got := Resolve(catalog, models.LevelIntermediate)

	require.Len(t, got, 1)
	assert.Equal(t, "Linear Algebra", got[0].Title)
}

func TestResolve_FallsBackToClosestTier(t *testing.T) {
	catalog := []models.Course{
		course(1, "Algebra Basics", models.LevelBeginner),
		course(3, "Abstract Algebra", models.LevelAdvanced),
	}

	// Intermediate is empty; beginner and advanced are equidistant, so the
	// easier tier wins.
	got := Resolve(catalog, models.LevelIntermediate)

	require.Len(t, got, 1)
	assert.Equal(t, models.LevelBeginner, got[0].Level)
}

func TestResolve_OnlyHarderCoursesStillRecommended(t *testing.T) {
	catalog := []models.Course{
		course(3, "Abstract Algebra", models.LevelAdvanced),
		course(4, "Galois Theory", models.LevelAdvanced),
	}

	got := Resolve(catalog, models.LevelBeginner)

	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, models.LevelAdvanced, c.Level)
	}
}

func TestResolve_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Resolve(nil, models.LevelBeginner))
	assert.Empty(t, Resolve([]models.Course{}, models.LevelAdvanced))
}

func TestResolve_UnknownTierFallsBackToWholeSubject(t *testing.T) {
	catalog := []models.Course{
		course(1, "Algebra Basics", models.LevelBeginner),
		course(3, "Abstract Algebra", models.LevelAdvanced),
	}

	got := Resolve(catalog, models.CourseLevel("expert"))

	assert.Len(t, got, 2)
}

func TestResolve_OrdersByTitle(t *testing.T) {
	catalog := []models.Course{
		course(2, "Zeta Functions", models.LevelAdvanced),
		course(1, "Abstract Algebra", models.LevelAdvanced),
	}

	got := Resolve(catalog, models.LevelAdvanced)

	require.Len(t, got, 2)
	assert.Equal(t, "Abstract Algebra", got[0].Title)
	assert.Equal(t, "Zeta Functions", got[1].Title)
}
