// Package insight produces qualitative feedback on an evaluated session. The
// Gemini generator is preferred, with a deterministic rule-based fallback so a
// result can always carry feedback.
package insight

import (
	"context"

	"github.com/vedlearn/session-service/internal/models"
)

// Input is the evaluated outcome the generators work from.
type Input struct {
	SubjectName string
	Result      models.ScoreResult
	Tier        models.CourseLevel
}

// Insight is the feedback payload stored alongside a session result.
type Insight struct {
	Band            string   `json:"band"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

type Generator interface {
	Generate(ctx context.Context, input Input) (Insight, error)
}
