package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/utils"
)

const geminiModelName = "gemini-1.5-flash"

// textGenerator is the slice of the Gemini client the supplier needs; tests
// substitute a canned implementation.
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

// GeminiSupplier generates a fresh test with Gemini, scaling difficulty,
// question count and time limit to the student's progress in the subject.
type GeminiSupplier struct {
	generator textGenerator
	logger    utils.Logger
}

func NewGeminiSupplier(ctx context.Context, apiKey string, logger utils.Logger) (*GeminiSupplier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiSupplier{
		generator: &geminiTextGenerator{model: client.GenerativeModel(geminiModelName)},
		logger:    logger,
	}, nil
}

// generationPlan fixes difficulty, length and time limit from subject progress.
type generationPlan struct {
	Difficulty       models.DifficultyLevel
	QuestionCount    int
	TimeLimitMinutes int
}

func planFor(progressPercentage float64) generationPlan {
	switch {
	case progressPercentage < 30:
		return generationPlan{models.DifficultyEasy, 5, 30}
	case progressPercentage < 60:
		return generationPlan{models.DifficultyMedium, 8, 45}
	default:
		return generationPlan{models.DifficultyHard, 10, 60}
	}
}

func (s *GeminiSupplier) Supply(ctx context.Context, req Request) (models.QuestionSet, error) {
	plan := planFor(req.ProgressPercentage)
	prompt := buildPrompt(req.SubjectName, plan)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return models.QuestionSet{}, generationFailed(models.ModeAutomatedMockTest, "gemini request failed", err)
	}

	questions, err := parseGeneratedQuestions(raw, req.SubjectID, plan)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected malformed gemini output", "error", err)
		return models.QuestionSet{}, generationFailed(models.ModeAutomatedMockTest, "malformed model output", err)
	}

	set := models.NewQuestionSet(uuid.NewString(), req.SubjectID, questions, plan.TimeLimitMinutes*60)
	s.logger.InfoContext(ctx, "question set generated",
		"subject", req.SubjectName,
		"difficulty", plan.Difficulty,
		"question_count", len(questions))
	return set, nil
}

func buildPrompt(subject string, plan generationPlan) string {
	return fmt.Sprintf(`You are an exam author. Generate exactly %d multiple-choice questions on the subject %q at %s difficulty.

Respond with a JSON array only, no prose and no markdown fences. Each element must have exactly these string fields:
"question", "option_a", "option_b", "option_c", "option_d", "correct_option" (one of "A", "B", "C", "D") and optionally "explanation".`,
		plan.QuestionCount, subject, plan.Difficulty)
}

type generatedQuestion struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
	Explanation   string `json:"explanation"`
}

// parseGeneratedQuestions validates the model output strictly: any missing
// field, bad option letter or empty array fails the whole generation.
func parseGeneratedQuestions(raw string, subjectID uint, plan generationPlan) ([]models.Question, error) {
	cleaned := stripCodeFences(raw)

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &generated); err != nil {
		return nil, fmt.Errorf("output is not a JSON question array: %w", err)
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("output contains no questions")
	}

	questions := make([]models.Question, 0, len(generated))
	for i, g := range generated {
		if strings.TrimSpace(g.Question) == "" {
			return nil, fmt.Errorf("question %d: empty question text", i+1)
		}
		for name, text := range map[string]string{
			"option_a": g.OptionA, "option_b": g.OptionB,
			"option_c": g.OptionC, "option_d": g.OptionD,
		} {
			if strings.TrimSpace(text) == "" {
				return nil, fmt.Errorf("question %d: empty %s", i+1, name)
			}
		}
		correct := models.Option(strings.ToUpper(strings.TrimSpace(g.CorrectOption)))
		if !correct.Valid() {
			return nil, fmt.Errorf("question %d: invalid correct_option %q", i+1, g.CorrectOption)
		}

		var explanation *string
		if e := strings.TrimSpace(g.Explanation); e != "" {
			explanation = &e
		}

		// Generated questions are ephemeral: ids are set positions, never
		// database keys.
		questions = append(questions, models.Question{
			ID:            uint(i + 1),
			SubjectID:     subjectID,
			Text:          g.Question,
			OptionA:       g.OptionA,
			OptionB:       g.OptionB,
			OptionC:       g.OptionC,
			OptionD:       g.OptionD,
			CorrectOption: correct,
			Marks:         plan.Difficulty.DefaultMarks(),
			Difficulty:    plan.Difficulty,
			Explanation:   explanation,
		})
	}
	return questions, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
