package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/behavio/config"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// RubricSuggestion is an LLM's proposed score per rubric item id.
type RubricSuggestion struct {
	Scores   map[string]float64 `json:"scores"`
	Feedback string             `json:"feedback"`
}

// RubricAssistantService proposes rubric scores for free-text answers. Its
// output is advisory and never stored.
type RubricAssistantService interface {
	SuggestRubricScores(ctx context.Context, prompt string, rubric []scoring.RubricItem, answerText string) (*RubricSuggestion, error)
	Close() error
}

type geminiRubricAssistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewRubricAssistantService(cfg *config.Config) (RubricAssistantService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Rubric suggestions are disabled.")
		return &geminiRubricAssistant{}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	return &geminiRubricAssistant{client: client, model: model}, nil
}

func (s *geminiRubricAssistant) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *geminiRubricAssistant) SuggestRubricScores(ctx context.Context, prompt string, rubric []scoring.RubricItem, answerText string) (*RubricSuggestion, error) {
	if s.model == nil {
		return nil, fmt.Errorf("%w: rubric assistant is not configured", ErrUnavailable)
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildRubricPrompt(prompt, rubric, answerText)))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during rubric suggestion")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return nil, fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	suggestion, err := parseRubricSuggestion(text.String())
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", text.String()).Msg("Failed to parse rubric suggestion from Gemini response")
		return nil, err
	}
	return suggestion, nil
}

func buildRubricPrompt(prompt string, rubric []scoring.RubricItem, answerText string) string {
	var b strings.Builder
	b.WriteString("You are an experienced assessor grading a written answer in a competency-based assessment.\n")
	b.WriteString("Score the answer against each rubric criterion below. Use only the evidence in the answer.\n\n")
	b.WriteString("Question:\n---\n")
	b.WriteString(prompt)
	b.WriteString("\n---\n\nRubric criteria:\n")
	for _, item := range rubric {
		fmt.Fprintf(&b, "- id %q (%s): score from 0 to %g\n", item.ID, item.DisplayLabel(), item.Cap())
	}
	b.WriteString("\nAnswer:\n---\n")
	b.WriteString(answerText)
	b.WriteString("\n---\n\n")
	b.WriteString(`Respond with JSON only, in the form {"scores": {"<criterion id>": <number>}, "feedback": "<two or three sentences>"}.`)
	return b.String()
}

// parseRubricSuggestion reads the model's JSON, tolerating a markdown fence
// around it.
func parseRubricSuggestion(raw string) (*RubricSuggestion, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var suggestion RubricSuggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return nil, fmt.Errorf("could not parse rubric suggestion: %w", err)
	}
	if suggestion.Scores == nil {
		return nil, fmt.Errorf("rubric suggestion has no scores")
	}
	return &suggestion, nil
}
