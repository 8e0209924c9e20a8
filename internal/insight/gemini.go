package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vedlearn/session-service/internal/utils"
)

const geminiModelName = "gemini-1.5-flash"

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiTextGenerator struct {
	model *genai.GenerativeModel
}

func (g *geminiTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("model returned no text parts")
	}
	return out.String(), nil
}

// Gemini asks the model for structured feedback. Malformed output is an error
// so callers can fall back to the rule-based generator.
type Gemini struct {
	generator textGenerator
	logger    utils.Logger
}

func NewGemini(ctx context.Context, apiKey string, logger utils.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{
		generator: &geminiTextGenerator{model: client.GenerativeModel(geminiModelName)},
		logger:    logger,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, input Input) (Insight, error) {
	prompt := fmt.Sprintf(`You are a tutor reviewing a student's test result.

Subject: %s
Score: %d%% (%d of %d questions correct, %d of %d marks)
Performance tier: %s

Respond with a single JSON object only, no prose and no markdown fences, with these fields:
"band" (a short performance label), "summary" (2-3 sentences), "strengths" (array of strings), "weaknesses" (array of strings), "recommendations" (array of strings).`,
		input.SubjectName,
		input.Result.Percentage,
		input.Result.CorrectCount, input.Result.TotalQuestions,
		input.Result.RawScore, input.Result.TotalMarks,
		input.Tier)

	raw, err := g.generator.GenerateText(ctx, prompt)
	if err != nil {
		return Insight{}, fmt.Errorf("gemini request failed: %w", err)
	}

	parsed, err := parseInsight(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "rejected malformed insight output", "error", err)
		return Insight{}, err
	}
	return parsed, nil
}

func parseInsight(raw string) (Insight, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var out Insight
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return Insight{}, fmt.Errorf("output is not an insight object: %w", err)
	}
	if out.Summary == "" {
		return Insight{}, fmt.Errorf("insight has no summary")
	}
	if out.Band == "" {
		return Insight{}, fmt.Errorf("insight has no band")
	}
	return out, nil
}

// WithFallback chains generators: the first to succeed wins. Used to put the
// rule-based generator behind Gemini.
type WithFallback struct {
	primary  Generator
	fallback Generator
	logger   utils.Logger
}

func NewWithFallback(primary, fallback Generator, logger utils.Logger) *WithFallback {
	return &WithFallback{primary: primary, fallback: fallback, logger: logger}
}

func (w *WithFallback) Generate(ctx context.Context, input Input) (Insight, error) {
	if w.primary != nil {
		out, err := w.primary.Generate(ctx, input)
		if err == nil {
			return out, nil
		}
		w.logger.WarnContext(ctx, "insight generator failed, using fallback", "error", err)
	}
	return w.fallback.Generate(ctx, input)
}
