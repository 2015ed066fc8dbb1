package dto

import (
	"encoding/json"
	"time"

	"github.com/lshigami/behavio/internal/scoring"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type StartTestResponse struct {
	TestID        uint      `json:"test_id"`
	UserID        string    `json:"user_id"`
	AttemptID     string    `json:"attempt_id"`
	StartedAt     time.Time `json:"started_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	QuestionOrder []uint    `json:"question_order"`
}

type BehaviourScoreDTO struct {
	BehaviourID string  `json:"behaviour_id"`
	Behaviour   string  `json:"behaviour"`
	Score       float64 `json:"score"`
}

// TestResultDTO is the scored outcome of an attempt.
type TestResultDTO struct {
	TestID          uint                `json:"test_id"`
	AttemptID       string              `json:"attempt_id"`
	OverallScore    int                 `json:"overall_score"`
	Grade           string              `json:"grade"`
	BehaviourScores []BehaviourScoreDTO `json:"behaviour_scores"`
	Recommendations []string            `json:"recommendations"`
}

type AuditEntryDTO struct {
	QuestionID             uint                   `json:"question_id"`
	Order                  int                    `json:"order"`
	Response               json.RawMessage        `json:"response" swaggertype:"object"`
	AwardedScore           *float64               `json:"awarded_score"`
	MaxScore               *float64               `json:"max_score"`
	EffectiveScore         float64                `json:"effective_score"`
	ManualOverride         bool                   `json:"manual_override"`
	ManualScore            *float64               `json:"manual_score"`
	ManualNote             *string                `json:"manual_note,omitempty"`
	BehaviourContributions []scoring.Contribution `json:"behaviour_contributions"`
	RubricBreakdown        []scoring.RubricLine   `json:"rubric_breakdown,omitempty"`
}

// AttemptResultDTO is a results view rebuilt from stored answers. Audit is
// only filled in audit mode.
type AttemptResultDTO struct {
	TestResultDTO
	UserID      string          `json:"user_id"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Audit       []AuditEntryDTO `json:"audit,omitempty"`
}

type AttemptSummaryDTO struct {
	ID          string     `json:"id"`
	TestID      uint       `json:"test_id"`
	TestName    string     `json:"test_name"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       *int       `json:"score,omitempty"`
}

type AttemptListDTO struct {
	Items    []AttemptSummaryDTO `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

type BehaviourDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Grade       string `json:"grade,omitempty"`
}
