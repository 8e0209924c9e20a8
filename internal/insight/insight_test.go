package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/utils"
)

func resultWithPercentage(p int) Input {
	return Input{
		SubjectName: "physics",
		Result:      models.ScoreResult{Percentage: p, CorrectCount: 3, TotalQuestions: 5, RawScore: 6, TotalMarks: 10},
		Tier:        models.LevelIntermediate,
	}
}

func TestRuleBased_Bands(t *testing.T) {
	tests := []struct {
		percentage int
		wantBand   string
	}{
		{100, BandExcellent},
		{80, BandExcellent},
		{79, BandGood},
		{60, BandGood},
		{59, BandNeedsImprovement},
		{40, BandNeedsImprovement},
		{39, BandBeginnerLevel},
		{0, BandBeginnerLevel},
	}

	g := NewRuleBased()
	for _, tt := range tests {
		out, err := g.Generate(context.Background(), resultWithPercentage(tt.percentage))
		require.NoError(t, err)
		assert.Equal(t, tt.wantBand, out.Band, "percentage %d", tt.percentage)
		assert.NotEmpty(t, out.Summary)
		assert.NotEmpty(t, out.Recommendations)
	}
}

type fakeTextGenerator struct {
	output string
	err    error
}

func (f *fakeTextGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return f.output, f.err
}

func TestGemini_ParsesStructuredOutput(t *testing.T) {
	g := &Gemini{
		generator: &fakeTextGenerator{output: "```json\n" +
			`{"band": "Good", "summary": "Solid run.", "strengths": ["accuracy"], "weaknesses": ["speed"], "recommendations": ["practice"]}` +
			"\n```"},
		logger: utils.NewDevelopmentLogger(),
	}

	out, err := g.Generate(context.Background(), resultWithPercentage(65))

	require.NoError(t, err)
	assert.Equal(t, "Good", out.Band)
	assert.Equal(t, []string{"accuracy"}, out.Strengths)
}

func TestGemini_RejectsMalformedOutput(t *testing.T) {
	for name, output := range map[string]string{
		"prose":      "The student did well overall.",
		"no summary": `{"band": "Good"}`,
		"no band":    `{"summary": "ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			g := &Gemini{
				generator: &fakeTextGenerator{output: output},
				logger:    utils.NewDevelopmentLogger(),
			}
			_, err := g.Generate(context.Background(), resultWithPercentage(50))
			assert.Error(t, err)
		})
	}
}

func TestWithFallback_UsesRuleBasedWhenPrimaryFails(t *testing.T) {
	failing := &Gemini{
		generator: &fakeTextGenerator{err: errors.New("quota exhausted")},
		logger:    utils.NewDevelopmentLogger(),
	}
	g := NewWithFallback(failing, NewRuleBased(), utils.NewDevelopmentLogger())

	out, err := g.Generate(context.Background(), resultWithPercentage(85))

	require.NoError(t, err)
	assert.Equal(t, BandExcellent, out.Band)
}

func TestWithFallback_NilPrimary(t *testing.T) {
	g := NewWithFallback(nil, NewRuleBased(), utils.NewDevelopmentLogger())

	out, err := g.Generate(context.Background(), resultWithPercentage(10))

	require.NoError(t, err)
	assert.Equal(t, BandBeginnerLevel, out.Band)
}
