package dto

import "encoding/json"

type StartTestRequest struct {
	// UserID defaults to the bearer token subject when omitted.
	UserID string `json:"user_id"`
}

type SubmittedAnswerDTO struct {
	QuestionID uint            `json:"question_id" binding:"required"`
	Response   json.RawMessage `json:"response" swaggertype:"object"`
}

type SubmitTestRequest struct {
	AttemptID string               `json:"attempt_id" binding:"required"`
	Answers   []SubmittedAnswerDTO `json:"answers" binding:"dive"`
	// OwnerID, when set, must match the attempt's user. Filled from the
	// token of a signed-in non-admin, never from the body.
	OwnerID string `json:"-"`
}

type ListAttemptsQuery struct {
	UserID   string `form:"user_id"`
	TestID   *uint  `form:"test_id"`
	Status   string `form:"status" binding:"omitempty,oneof=IN_PROGRESS SUBMITTED EXPIRED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
