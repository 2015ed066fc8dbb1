package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/monitoring"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/rs/zerolog/log"
)

// AdminAttemptService holds the grader-facing operations on answers of
// existing attempts.
type AdminAttemptService interface {
	OverrideAnswerScore(ctx context.Context, attemptID string, questionID uint, req dto.OverrideScoreRequest) (*dto.AnswerOverrideDTO, error)
	ClearOverride(ctx context.Context, attemptID string, questionID uint) (*dto.AnswerOverrideDTO, error)
	SuggestRubricScores(ctx context.Context, attemptID string, questionID uint) (*dto.RubricSuggestionDTO, error)
}

type adminAttemptService struct {
	answerRepo repository.AnswerRepository
	assistant  RubricAssistantService
}

func NewAdminAttemptService(answerRepo repository.AnswerRepository, assistant RubricAssistantService) AdminAttemptService {
	return &adminAttemptService{answerRepo: answerRepo, assistant: assistant}
}

func (s *adminAttemptService) OverrideAnswerScore(ctx context.Context, attemptID string, questionID uint, req dto.OverrideScoreRequest) (*dto.AnswerOverrideDTO, error) {
	if req.ManualScore == nil || *req.ManualScore < 0 {
		return nil, fmt.Errorf("%w: manual_score must be a non-negative number", ErrInvalidInput)
	}
	o := repository.Override{Active: true, Score: req.ManualScore, Note: req.Note}
	if err := s.answerRepo.SetOverride(ctx, attemptID, questionID, o); err != nil {
		return nil, s.wrapAnswerErr(err, attemptID, questionID)
	}
	monitoring.ManualOverrides.Inc()
	log.Info().Str("attemptID", attemptID).Uint("questionID", questionID).Float64("manualScore", *req.ManualScore).Msg("Manual score override applied")
	return s.overrideView(ctx, attemptID, questionID)
}

func (s *adminAttemptService) ClearOverride(ctx context.Context, attemptID string, questionID uint) (*dto.AnswerOverrideDTO, error) {
	if err := s.answerRepo.SetOverride(ctx, attemptID, questionID, repository.Override{}); err != nil {
		return nil, s.wrapAnswerErr(err, attemptID, questionID)
	}
	log.Info().Str("attemptID", attemptID).Uint("questionID", questionID).Msg("Manual score override cleared")
	return s.overrideView(ctx, attemptID, questionID)
}

func (s *adminAttemptService) SuggestRubricScores(ctx context.Context, attemptID string, questionID uint) (*dto.RubricSuggestionDTO, error) {
	answer, err := s.answerRepo.FindByAttemptAndQuestion(ctx, attemptID, questionID)
	if err != nil {
		return nil, s.wrapAnswerErr(err, attemptID, questionID)
	}
	if scoring.QuestionType(answer.Question.Type) != scoring.TypeFreeText {
		return nil, fmt.Errorf("%w: question %d is %s, rubric suggestions need FREE_TEXT", ErrInvalidState, questionID, answer.Question.Type)
	}
	params := scoring.ParseFreeTextParams(answer.Question.Metadata)
	if len(params.Rubric) == 0 {
		return nil, fmt.Errorf("%w: question %d has no rubric", ErrInvalidState, questionID)
	}
	text, ok := answerText(answer.Response)
	if !ok {
		return nil, fmt.Errorf("%w: answer has no text to assess", ErrInvalidState)
	}

	suggestion, err := s.assistant.SuggestRubricScores(ctx, answer.Question.Prompt, params.Rubric, text)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("could not get rubric suggestion: %w", err)
	}

	result := &dto.RubricSuggestionDTO{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Items:      make([]dto.RubricSuggestionItemDTO, 0, len(params.Rubric)),
		Feedback:   suggestion.Feedback,
	}
	for _, item := range params.Rubric {
		limit := item.Cap()
		suggested := suggestion.Scores[item.ID]
		if suggested < 0 {
			suggested = 0
		} else if suggested > limit {
			suggested = limit
		}
		result.Items = append(result.Items, dto.RubricSuggestionItemDTO{
			ID:        item.ID,
			Label:     item.DisplayLabel(),
			Max:       limit,
			Suggested: suggested,
		})
	}
	return result, nil
}

func (s *adminAttemptService) overrideView(ctx context.Context, attemptID string, questionID uint) (*dto.AnswerOverrideDTO, error) {
	answer, err := s.answerRepo.FindByAttemptAndQuestion(ctx, attemptID, questionID)
	if err != nil {
		return nil, s.wrapAnswerErr(err, attemptID, questionID)
	}
	return toAnswerOverrideDTO(answer), nil
}

func (s *adminAttemptService) wrapAnswerErr(err error, attemptID string, questionID uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: no answer for question %d in attempt %s", ErrNotFound, questionID, attemptID)
	}
	if errors.Is(err, repository.ErrAttemptOpen) {
		return fmt.Errorf("%w: attempt %s is still in progress, overrides apply after submission", ErrInvalidState, attemptID)
	}
	log.Error().Err(err).Str("attemptID", attemptID).Uint("questionID", questionID).Msg("Failed to access answer")
	return fmt.Errorf("could not access answer: %w", err)
}

func toAnswerOverrideDTO(a *model.Answer) *dto.AnswerOverrideDTO {
	return &dto.AnswerOverrideDTO{
		AttemptID:      a.TestAttemptID,
		QuestionID:     a.QuestionID,
		ManualOverride: a.ManualOverride,
		ManualScore:    a.ManualScore,
		ManualNote:     a.ManualNote,
		EffectiveScore: scoring.EffectiveScore(a.Stored()),
	}
}

// answerText pulls the written text from a free-text response, which is
// either a bare string or an object with a "text" field.
func answerText(response []byte) (string, bool) {
	var text string
	if err := json.Unmarshal(response, &text); err == nil {
		return text, strings.TrimSpace(text) != ""
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(response, &body); err != nil {
		return "", false
	}
	return body.Text, strings.TrimSpace(body.Text) != ""
}
