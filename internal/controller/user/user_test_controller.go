package user

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/behavio/internal/controller"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/middleware"
	"github.com/lshigami/behavio/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	userTestService   service.UserTestService
	assessmentService service.AssessmentService
	behaviourService  service.BehaviourService
}

func NewUserTestController(uts service.UserTestService, as service.AssessmentService, bs service.BehaviourService) *UserTestController {
	return &UserTestController{
		userTestService:   uts,
		assessmentService: as,
		behaviourService:  bs,
	}
}

// actingUser resolves whose data a request concerns. A signed-in non-admin
// can only act as themselves.
func actingUser(ctx *gin.Context, requested string) string {
	claims := middleware.ClaimsFromContext(ctx)
	if claims == nil || (claims.Role == middleware.RoleAdmin && requested != "") {
		return strings.TrimSpace(requested)
	}
	return claims.Subject
}

// GetAllTests godoc
// @Summary (User) List published tests
// @Description Paged list of published tests, optionally filtered by name and grade.
// @Tags User - Tests
// @Produce json
// @Param q query string false "Name filter"
// @Param grade_id query int false "Grade ID"
// @Param page query int false "Page number (from 1)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} dto.TestListDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *UserTestController) GetAllTests(ctx *gin.Context) {
	var query dto.ListTestsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		controller.BadRequest(ctx, "Invalid query parameters", err)
		return
	}
	tests, err := c.userTestService.GetAllTests(ctx.Request.Context(), query)
	if err != nil {
		controller.RespondError(ctx, "GetAllTests", err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary (User) Get a test and its questions
// @Description Questions are listed in authoring order without answer keys.
// @Tags User - Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestDetailsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *UserTestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	details, err := c.userTestService.GetTestDetails(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, "GetTestDetails", err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// StartTest godoc
// @Summary (User) Start an attempt
// @Description Creates an IN_PROGRESS attempt with a freshly shuffled question order.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param request body dto.StartTestRequest false "User ID (defaults to the token subject)"
// @Success 201 {object} dto.StartTestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Test not found or has no questions"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /tests/{test_id}/start [post]
func (c *UserTestController) StartTest(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.StartTestRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			controller.BadRequest(ctx, "Invalid request body", err)
			return
		}
	}

	resp, err := c.assessmentService.StartTest(ctx.Request.Context(), testID, actingUser(ctx, req.UserID))
	if err != nil {
		controller.RespondError(ctx, "StartTest", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SubmitTest godoc
// @Summary (User) Submit an attempt
// @Description Scores every answer, persists the scores and completes the attempt. An attempt can be submitted once.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param request body dto.SubmitTestRequest true "Attempt ID and answers"
// @Success 200 {object} dto.TestResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input, or attempt no longer in progress"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found or owned by another user"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /tests/{test_id}/submit [post]
func (c *UserTestController) SubmitTest(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	if claims := middleware.ClaimsFromContext(ctx); claims != nil && claims.Role != middleware.RoleAdmin {
		req.OwnerID = claims.Subject
	}
	log.Info().Uint("testID", testID).Str("attemptID", req.AttemptID).Int("answerCount", len(req.Answers)).Msg("Received test submission")

	result, err := c.assessmentService.SubmitTest(ctx.Request.Context(), testID, req)
	if err != nil {
		controller.RespondError(ctx, "SubmitTest", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttemptResults godoc
// @Summary (User) Get attempt results
// @Description Rebuilds results from stored answer scores, applying manual overrides. Audit detail is included for admins.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id}/results [get]
func (c *UserTestController) GetAttemptResults(ctx *gin.Context) {
	attemptID := strings.TrimSpace(ctx.Param("attempt_id"))
	if attemptID == "" {
		controller.BadRequest(ctx, "Invalid attempt_id format", nil)
		return
	}
	audit, _ := strconv.ParseBool(ctx.Query("audit"))
	audit = audit && middleware.IsAdmin(ctx)

	result, err := c.assessmentService.GetAttemptResults(ctx.Request.Context(), attemptID, audit)
	if err != nil {
		controller.RespondError(ctx, "GetAttemptResults", err)
		return
	}
	if claims := middleware.ClaimsFromContext(ctx); claims != nil && claims.Role != middleware.RoleAdmin && claims.Subject != result.UserID {
		controller.RespondError(ctx, "GetAttemptResults", service.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListAttempts godoc
// @Summary (User) List a user's attempts
// @Description Newest first. Overdue attempts are reported as EXPIRED.
// @Tags User - Attempts
// @Produce json
// @Param user_id query string false "User ID (defaults to the token subject)"
// @Param test_id query int false "Test ID"
// @Param status query string false "IN_PROGRESS, SUBMITTED or EXPIRED"
// @Param page query int false "Page number (from 1)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} dto.AttemptListDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /attempts [get]
func (c *UserTestController) ListAttempts(ctx *gin.Context) {
	var query dto.ListAttemptsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		controller.BadRequest(ctx, "Invalid query parameters", err)
		return
	}
	query.UserID = actingUser(ctx, query.UserID)

	attempts, err := c.assessmentService.ListAttempts(ctx.Request.Context(), query)
	if err != nil {
		controller.RespondError(ctx, "ListAttempts", err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// ListBehaviours godoc
// @Summary (User) List behaviours
// @Tags User - Behaviours
// @Produce json
// @Param grade query string false "Grade name"
// @Success 200 {array} dto.BehaviourDTO
// @Router /behaviours [get]
func (c *UserTestController) ListBehaviours(ctx *gin.Context) {
	behaviours, err := c.behaviourService.List(ctx.Request.Context(), ctx.Query("grade"))
	if err != nil {
		controller.RespondError(ctx, "ListBehaviours", err)
		return
	}
	ctx.JSON(http.StatusOK, behaviours)
}

// GetBehaviour godoc
// @Summary (User) Get a behaviour
// @Tags User - Behaviours
// @Produce json
// @Param behaviour_id path int true "Behaviour ID"
// @Success 200 {object} dto.BehaviourDTO
// @Failure 404 {object} dto.ErrorResponse "Behaviour not found"
// @Router /behaviours/{behaviour_id} [get]
func (c *UserTestController) GetBehaviour(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "behaviour_id")
	if !ok {
		return
	}
	behaviour, err := c.behaviourService.Get(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetBehaviour", err)
		return
	}
	ctx.JSON(http.StatusOK, behaviour)
}

// RegisterRoutes mounts the user-facing endpoints. start and submit go
// through limit.
func (c *UserTestController) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	tests := rg.Group("/tests")
	{
		tests.GET("", c.GetAllTests)
		tests.GET("/:test_id", c.GetTestDetails)
		tests.POST("/:test_id/start", limit, c.StartTest)
		tests.POST("/:test_id/submit", limit, c.SubmitTest)
	}
	attempts := rg.Group("/attempts")
	{
		attempts.GET("", c.ListAttempts)
		attempts.GET("/:attempt_id/results", c.GetAttemptResults)
	}
	behaviours := rg.Group("/behaviours")
	{
		behaviours.GET("", c.ListBehaviours)
		behaviours.GET("/:behaviour_id", c.GetBehaviour)
	}
}
