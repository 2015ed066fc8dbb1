package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/behavio/internal/controller"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/service"
)

type AdminAttemptController struct {
	adminService      service.AdminAttemptService
	assessmentService service.AssessmentService
}

func NewAdminAttemptController(as service.AdminAttemptService, assessment service.AssessmentService) *AdminAttemptController {
	return &AdminAttemptController{adminService: as, assessmentService: assessment}
}

func answerParams(ctx *gin.Context) (string, uint, bool) {
	attemptID := strings.TrimSpace(ctx.Param("attempt_id"))
	if attemptID == "" {
		controller.BadRequest(ctx, "Invalid attempt_id format", nil)
		return "", 0, false
	}
	questionID, ok := controller.UintParam(ctx, "question_id")
	return attemptID, questionID, ok
}

// OverrideAnswerScore godoc
// @Summary (Admin) Override an answer's score
// @Description Replaces the automatic score of one answer of a submitted or expired attempt. Results rebuilt afterwards redistribute the new score across the question's behaviours.
// @Tags Admin - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Param request body dto.OverrideScoreRequest true "Manual score and note"
// @Success 200 {object} dto.AnswerOverrideDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input, or attempt still in progress"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /admin/attempts/{attempt_id}/answers/{question_id}/override [put]
func (c *AdminAttemptController) OverrideAnswerScore(ctx *gin.Context) {
	attemptID, questionID, ok := answerParams(ctx)
	if !ok {
		return
	}
	var req dto.OverrideScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.adminService.OverrideAnswerScore(ctx.Request.Context(), attemptID, questionID, req)
	if err != nil {
		controller.RespondError(ctx, "OverrideAnswerScore", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ClearOverride godoc
// @Summary (Admin) Remove an answer's score override
// @Tags Admin - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.AnswerOverrideDTO
// @Failure 400 {object} dto.ErrorResponse "Attempt still in progress"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /admin/attempts/{attempt_id}/answers/{question_id}/override [delete]
func (c *AdminAttemptController) ClearOverride(ctx *gin.Context) {
	attemptID, questionID, ok := answerParams(ctx)
	if !ok {
		return
	}
	resp, err := c.adminService.ClearOverride(ctx.Request.Context(), attemptID, questionID)
	if err != nil {
		controller.RespondError(ctx, "ClearOverride", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SuggestRubricScores godoc
// @Summary (Admin) Ask Gemini for rubric scores
// @Description Proposes a score per rubric item for a free-text answer. Nothing is stored.
// @Tags Admin - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.RubricSuggestionDTO
// @Failure 400 {object} dto.ErrorResponse "Question is not rubric graded"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Failure 503 {object} dto.ErrorResponse "Gemini is not configured"
// @Router /admin/attempts/{attempt_id}/answers/{question_id}/rubric-suggestion [post]
func (c *AdminAttemptController) SuggestRubricScores(ctx *gin.Context) {
	attemptID, questionID, ok := answerParams(ctx)
	if !ok {
		return
	}
	resp, err := c.adminService.SuggestRubricScores(ctx.Request.Context(), attemptID, questionID)
	if err != nil {
		controller.RespondError(ctx, "SuggestRubricScores", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAuditResults godoc
// @Summary (Admin) Audit an attempt
// @Description Results rebuilt from stored answers with per-answer detail.
// @Tags Admin - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /admin/attempts/{attempt_id}/audit [get]
func (c *AdminAttemptController) GetAuditResults(ctx *gin.Context) {
	attemptID := strings.TrimSpace(ctx.Param("attempt_id"))
	if attemptID == "" {
		controller.BadRequest(ctx, "Invalid attempt_id format", nil)
		return
	}
	resp, err := c.assessmentService.GetAttemptResults(ctx.Request.Context(), attemptID, true)
	if err != nil {
		controller.RespondError(ctx, "GetAuditResults", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *AdminAttemptController) RegisterRoutes(rg *gin.RouterGroup) {
	attempts := rg.Group("/attempts")
	{
		attempts.GET("/:attempt_id/audit", c.GetAuditResults)
		attempts.PUT("/:attempt_id/answers/:question_id/override", c.OverrideAnswerScore)
		attempts.DELETE("/:attempt_id/answers/:question_id/override", c.ClearOverride)
		attempts.POST("/:attempt_id/answers/:question_id/rubric-suggestion", c.SuggestRubricScores)
	}
}
