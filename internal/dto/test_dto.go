package dto

import "time"

type ListTestsQuery struct {
	Q        string `form:"q"`
	GradeID  *uint  `form:"grade_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type TestSummaryDTO struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	GradeName        string    `json:"grade,omitempty"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type TestListDTO struct {
	Items    []TestSummaryDTO `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// QuestionViewDTO is a question as shown to a test-taker; answer keys,
// weights and rubric caps are never included.
type QuestionViewDTO struct {
	ID      uint     `json:"id"`
	Order   int      `json:"order"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type TestDetailsDTO struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	Grade            string            `json:"grade,omitempty"`
	Questions        []QuestionViewDTO `json:"questions"`
}
