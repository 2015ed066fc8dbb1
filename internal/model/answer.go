package model

import (
	"time"

	"github.com/lshigami/behavio/internal/scoring"
	"gorm.io/datatypes"
)

type Answer struct {
	ID                     uint                   `gorm:"primarykey" json:"id"`
	TestAttemptID          string                 `json:"test_attempt_id" gorm:"not null;size:36;uniqueIndex:idx_answer_attempt_question"`
	QuestionID             uint                   `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question               Question               `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Position               int                    `json:"order" gorm:"not null"`
	Response               datatypes.JSON         `json:"response"`
	Score                  *int                   `json:"score,omitempty"`
	AwardedScore           *float64               `json:"awarded_score,omitempty"`
	MaxScore               *float64               `json:"max_score,omitempty"`
	BehaviourContributions []scoring.Contribution `json:"behaviour_contributions,omitempty" gorm:"type:text;serializer:json"`
	RubricBreakdown        []scoring.RubricLine   `json:"rubric_breakdown,omitempty" gorm:"type:text;serializer:json"`
	ManualOverride         bool                   `json:"manual_override" gorm:"not null;default:false"`
	ManualScore            *float64               `json:"manual_score,omitempty"`
	ManualNote             *string                `json:"manual_note,omitempty" gorm:"type:text"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// Stored exposes the persisted scoring fields for results reconstruction.
func (a Answer) Stored() scoring.StoredAnswer {
	return scoring.StoredAnswer{
		AwardedScore:   a.AwardedScore,
		MaxScore:       a.MaxScore,
		ManualOverride: a.ManualOverride,
		ManualScore:    a.ManualScore,
		Contributions:  a.BehaviourContributions,
		Rubric:         a.RubricBreakdown,
	}
}
