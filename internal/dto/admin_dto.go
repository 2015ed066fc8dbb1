package dto

type OverrideScoreRequest struct {
	ManualScore *float64 `json:"manual_score" binding:"required,min=0"`
	Note        *string  `json:"note" binding:"omitempty,max=2000"`
}

type AnswerOverrideDTO struct {
	AttemptID      string   `json:"attempt_id"`
	QuestionID     uint     `json:"question_id"`
	ManualOverride bool     `json:"manual_override"`
	ManualScore    *float64 `json:"manual_score"`
	ManualNote     *string  `json:"manual_note,omitempty"`
	EffectiveScore float64  `json:"effective_score"`
}

type RubricSuggestionItemDTO struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Max       float64 `json:"max"`
	Suggested float64 `json:"suggested"`
}

type RubricSuggestionDTO struct {
	AttemptID  string                    `json:"attempt_id"`
	QuestionID uint                      `json:"question_id"`
	Items      []RubricSuggestionItemDTO `json:"items"`
	Feedback   string                    `json:"feedback"`
}
