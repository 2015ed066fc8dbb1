package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/middleware"
	"github.com/lshigami/behavio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "controller-secret"

type fakeAssessment struct {
	startUser    string
	submitted    dto.SubmitTestRequest
	auditAsked   bool
	listQuery    dto.ListAttemptsQuery
	resultsOwner string
	err          error
}

func (f *fakeAssessment) StartTest(ctx context.Context, testID uint, userID string) (*dto.StartTestResponse, error) {
	f.startUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.StartTestResponse{TestID: testID, UserID: userID, AttemptID: "att-1"}, nil
}

func (f *fakeAssessment) SubmitTest(ctx context.Context, testID uint, req dto.SubmitTestRequest) (*dto.TestResultDTO, error) {
	f.submitted = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TestResultDTO{TestID: testID, AttemptID: req.AttemptID, OverallScore: 75, Recommendations: []string{}}, nil
}

func (f *fakeAssessment) GetAttemptResults(ctx context.Context, attemptID string, includeAudit bool) (*dto.AttemptResultDTO, error) {
	f.auditAsked = includeAudit
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AttemptResultDTO{TestResultDTO: dto.TestResultDTO{AttemptID: attemptID}, UserID: f.resultsOwner, Status: "SUBMITTED"}, nil
}

func (f *fakeAssessment) ListAttempts(ctx context.Context, query dto.ListAttemptsQuery) (*dto.AttemptListDTO, error) {
	f.listQuery = query
	return &dto.AttemptListDTO{Items: []dto.AttemptSummaryDTO{}}, f.err
}

type fakeCatalogue struct{ err error }

func (f fakeCatalogue) GetAllTests(ctx context.Context, query dto.ListTestsQuery) (*dto.TestListDTO, error) {
	return &dto.TestListDTO{Items: []dto.TestSummaryDTO{}, Page: 1, PageSize: 20}, f.err
}

func (f fakeCatalogue) GetTestDetails(ctx context.Context, testID uint) (*dto.TestDetailsDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TestDetailsDTO{ID: testID}, nil
}

func (f fakeCatalogue) List(ctx context.Context, gradeName string) ([]dto.BehaviourDTO, error) {
	return []dto.BehaviourDTO{}, f.err
}

func (f fakeCatalogue) Get(ctx context.Context, id uint) (*dto.BehaviourDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.BehaviourDTO{ID: id}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(a service.AssessmentService, c fakeCatalogue) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1", middleware.Authenticate(secret))
	NewUserTestController(c, a, c).RegisterRoutes(api, func(ctx *gin.Context) { ctx.Next() })
	return r
}

func do(t *testing.T, r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, err := middleware.GenerateToken(subject, role, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestStartTestEndpoint(t *testing.T) {
	t.Run("token subject wins for a signed-in user", func(t *testing.T) {
		a := &fakeAssessment{}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/start", `{"user_id":"someone-else"}`, token(t, "user-1", middleware.RoleUser))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "user-1", a.startUser)
	})

	t.Run("anonymous caller names the user", func(t *testing.T) {
		a := &fakeAssessment{}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/start", `{"user_id":"user-9"}`, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "user-9", a.startUser)
	})

	t.Run("bad test id", func(t *testing.T) {
		w := do(t, newRouter(&fakeAssessment{}, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/abc/start", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing test maps to 404", func(t *testing.T) {
		a := &fakeAssessment{err: fmt.Errorf("%w: test 3", service.ErrNotFound)}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/start", `{"user_id":"u"}`, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "test 3")
	})
}

func TestSubmitTestEndpoint(t *testing.T) {
	t.Run("passes answers through", func(t *testing.T) {
		a := &fakeAssessment{}
		body := `{"attempt_id":"att-1","answers":[{"question_id":1,"response":"A"},{"question_id":2,"response":{"rubricScores":{"a":2}}}]}`
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/submit", body, "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, a.submitted.Answers, 2)
		assert.JSONEq(t, `"A"`, string(a.submitted.Answers[0].Response))
		var result dto.TestResultDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 75, result.OverallScore)
	})

	t.Run("signed-in user submits as themselves", func(t *testing.T) {
		a := &fakeAssessment{}
		r := newRouter(a, fakeCatalogue{})

		w := do(t, r, http.MethodPost, "/api/v1/tests/3/submit", `{"attempt_id":"att-1","OwnerID":"user-2"}`, token(t, "user-1", middleware.RoleUser))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", a.submitted.OwnerID)

		do(t, r, http.MethodPost, "/api/v1/tests/3/submit", `{"attempt_id":"att-1"}`, token(t, "grader", middleware.RoleAdmin))
		assert.Empty(t, a.submitted.OwnerID)
	})

	t.Run("attempt id is required", func(t *testing.T) {
		w := do(t, newRouter(&fakeAssessment{}, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/submit", `{"answers":[]}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inactive attempt maps to 400", func(t *testing.T) {
		a := &fakeAssessment{err: fmt.Errorf("%w: attempt expired", service.ErrInvalidState)}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/submit", `{"attempt_id":"att-1"}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		a := &fakeAssessment{err: errors.New("pq: connection refused")}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodPost, "/api/v1/tests/3/submit", `{"attempt_id":"att-1"}`, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestGetAttemptResultsEndpoint(t *testing.T) {
	t.Run("audit needs an admin", func(t *testing.T) {
		a := &fakeAssessment{resultsOwner: "user-1"}
		r := newRouter(a, fakeCatalogue{})

		do(t, r, http.MethodGet, "/api/v1/attempts/att-1/results?audit=true", "", token(t, "user-1", middleware.RoleUser))
		assert.False(t, a.auditAsked)

		w := do(t, r, http.MethodGet, "/api/v1/attempts/att-1/results?audit=true", "", token(t, "grader", middleware.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, a.auditAsked)
	})

	t.Run("other users' attempts are hidden", func(t *testing.T) {
		a := &fakeAssessment{resultsOwner: "user-2"}
		w := do(t, newRouter(a, fakeCatalogue{}), http.MethodGet, "/api/v1/attempts/att-1/results", "", token(t, "user-1", middleware.RoleUser))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListAttemptsEndpoint(t *testing.T) {
	a := &fakeAssessment{}
	r := newRouter(a, fakeCatalogue{})

	w := do(t, r, http.MethodGet, "/api/v1/attempts?user_id=other&status=EXPIRED&page=2", "", token(t, "user-1", middleware.RoleUser))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", a.listQuery.UserID)
	assert.Equal(t, "EXPIRED", a.listQuery.Status)
	assert.Equal(t, 2, a.listQuery.Page)

	w = do(t, r, http.MethodGet, "/api/v1/attempts?user_id=u&status=DONE", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogueEndpoints(t *testing.T) {
	r := newRouter(&fakeAssessment{}, fakeCatalogue{})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/tests?page=1&page_size=10", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/tests?page_size=1000", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/tests/4", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/behaviours?grade=G7", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/behaviours/2", "", "").Code)

	missing := newRouter(&fakeAssessment{}, fakeCatalogue{err: service.ErrNotFound})
	assert.Equal(t, http.StatusNotFound, do(t, missing, http.MethodGet, "/api/v1/behaviours/2", "", "").Code)
}
