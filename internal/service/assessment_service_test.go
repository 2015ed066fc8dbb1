package service_test

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/lshigami/behavio/internal/service"
	"github.com/lshigami/behavio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRecommender struct{}

func (stubRecommender) Recommend(report scoring.Report, grade string) []string {
	if report.OverallScore >= 90 {
		return []string{"Ready for " + grade}
	}
	return []string{}
}

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

type harness struct {
	db      *gorm.DB
	fixture testutil.Fixture
	clock   *manualClock
	svc     service.AssessmentService
	admin   service.AdminAttemptService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	h := &harness{db: db, fixture: testutil.Seed(t, db), clock: newClock()}
	h.svc = service.NewAssessmentService(
		repository.NewTestRepository(db),
		repository.NewTestAttemptRepository(db),
		stubRecommender{},
		service.WithClock(h.clock.Now),
		service.WithShuffle(rand.New(rand.NewSource(1)).Shuffle),
	)
	h.admin = service.NewAdminAttemptService(repository.NewAnswerRepository(db), &stubAssistant{})
	return h
}

func (h *harness) fullAnswers(attemptID string) dto.SubmitTestRequest {
	f := h.fixture
	return dto.SubmitTestRequest{
		AttemptID: attemptID,
		Answers: []dto.SubmittedAnswerDTO{
			{QuestionID: f.MCQ.ID, Response: json.RawMessage(`"A"`)},
			{QuestionID: f.SJT.ID, Response: json.RawMessage(`["A","B"]`)},
			{QuestionID: f.FreeText.ID, Response: json.RawMessage(`{"text":"I listened first.","rubricScores":{"situation":3,"action":4}}`)},
		},
	}
}

func behaviourScores(r dto.TestResultDTO) map[string]float64 {
	out := make(map[string]float64, len(r.BehaviourScores))
	for _, b := range r.BehaviourScores {
		out[b.Behaviour] = b.Score
	}
	return out
}

func TestStartTest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	t.Run("creates an attempt with every question once", func(t *testing.T) {
		resp, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AttemptID)
		assert.Equal(t, h.clock.now, resp.StartedAt)
		assert.Equal(t, h.clock.now.Add(30*time.Minute), resp.ExpiresAt)
		assert.ElementsMatch(t, []uint{h.fixture.MCQ.ID, h.fixture.SJT.ID, h.fixture.FreeText.ID}, resp.QuestionOrder)
	})

	t.Run("test without questions", func(t *testing.T) {
		empty := testutil.EmptyTest(t, h.db)
		_, err := h.svc.StartTest(ctx, empty.ID, "user-1")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("missing test", func(t *testing.T) {
		_, err := h.svc.StartTest(ctx, 9999, "user-1")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("blank user", func(t *testing.T) {
		_, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "  ")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestSubmitTest(t *testing.T) {
	ctx := context.Background()

	t.Run("scores every answer and completes the attempt", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)
		h.clock.Advance(12 * time.Minute)

		result, err := h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
		require.NoError(t, err)

		assert.Equal(t, 96, result.OverallScore)
		assert.Equal(t, "G7", result.Grade)
		scores := behaviourScores(*result)
		assert.Equal(t, 4.0, scores["Leadership"])
		assert.Equal(t, 3.67, scores["Teamwork"])
		assert.Equal(t, []string{"Ready for G7"}, result.Recommendations)
	})

	t.Run("second submit is rejected", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)
		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
		require.NoError(t, err)

		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("late submit expires the attempt", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)
		h.clock.Advance(31 * time.Minute)

		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
		assert.ErrorIs(t, err, service.ErrInvalidState)

		results, err := h.svc.GetAttemptResults(ctx, started.AttemptID, false)
		require.NoError(t, err)
		assert.Equal(t, "EXPIRED", results.Status)
		assert.Equal(t, 0, results.OverallScore)
	})

	t.Run("submit exactly at the deadline is accepted", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)
		h.clock.Advance(30 * time.Minute)

		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
		assert.NoError(t, err)
	})

	t.Run("unanswered and unknown questions", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)

		result, err := h.svc.SubmitTest(ctx, h.fixture.Test.ID, dto.SubmitTestRequest{
			AttemptID: started.AttemptID,
			Answers: []dto.SubmittedAnswerDTO{
				{QuestionID: h.fixture.MCQ.ID, Response: json.RawMessage(`"A"`)},
				{QuestionID: h.fixture.MCQ.ID, Response: json.RawMessage(`"B"`)},
				{QuestionID: 9999, Response: json.RawMessage(`"A"`)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 33, result.OverallScore)
		assert.Equal(t, 4.0, behaviourScores(*result)["Leadership"])
	})

	t.Run("attempt of another test", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)

		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID+1, h.fullAnswers(started.AttemptID))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("attempt of another user", func(t *testing.T) {
		h := newHarness(t)
		started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
		require.NoError(t, err)

		req := h.fullAnswers(started.AttemptID)
		req.OwnerID = "user-2"
		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, req)
		assert.ErrorIs(t, err, service.ErrNotFound)

		results, err := h.svc.GetAttemptResults(ctx, started.AttemptID, false)
		require.NoError(t, err)
		assert.Equal(t, "IN_PROGRESS", results.Status)

		req.OwnerID = "user-1"
		_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, req)
		assert.NoError(t, err)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers("missing"))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestGetAttemptResults(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	started, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
	require.NoError(t, err)
	submitted, err := h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(started.AttemptID))
	require.NoError(t, err)

	t.Run("rebuilt results match the submit response", func(t *testing.T) {
		results, err := h.svc.GetAttemptResults(ctx, started.AttemptID, false)
		require.NoError(t, err)

		assert.Equal(t, *submitted, results.TestResultDTO)
		assert.Equal(t, "SUBMITTED", results.Status)
		assert.Equal(t, "user-1", results.UserID)
		assert.Nil(t, results.Audit)
	})

	t.Run("repeated reads are identical", func(t *testing.T) {
		first, err := h.svc.GetAttemptResults(ctx, started.AttemptID, true)
		require.NoError(t, err)
		second, err := h.svc.GetAttemptResults(ctx, started.AttemptID, true)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first.Audit, 3)
	})

	t.Run("manual override redistributes behaviour credit", func(t *testing.T) {
		manual := 2.0
		override, err := h.admin.OverrideAnswerScore(ctx, started.AttemptID, h.fixture.SJT.ID, dto.OverrideScoreRequest{ManualScore: &manual})
		require.NoError(t, err)
		assert.Equal(t, 2.0, override.EffectiveScore)

		results, err := h.svc.GetAttemptResults(ctx, started.AttemptID, true)
		require.NoError(t, err)
		assert.Equal(t, 79, results.OverallScore)
		scores := behaviourScores(results.TestResultDTO)
		assert.Equal(t, 3.33, scores["Leadership"])
		assert.Equal(t, 3.0, scores["Teamwork"])

		for _, entry := range results.Audit {
			if entry.QuestionID == h.fixture.SJT.ID {
				assert.True(t, entry.ManualOverride)
				assert.Equal(t, 2.0, entry.EffectiveScore)
				require.NotNil(t, entry.AwardedScore)
				assert.Equal(t, 4.0, *entry.AwardedScore)
			}
		}

		cleared, err := h.admin.ClearOverride(ctx, started.AttemptID, h.fixture.SJT.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, cleared.EffectiveScore)
		results, err = h.svc.GetAttemptResults(ctx, started.AttemptID, false)
		require.NoError(t, err)
		assert.Equal(t, *submitted, results.TestResultDTO)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		_, err := h.svc.GetAttemptResults(ctx, "missing", false)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestListAttempts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	first, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
	require.NoError(t, err)
	h.clock.Advance(time.Minute)
	second, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-1")
	require.NoError(t, err)
	_, err = h.svc.SubmitTest(ctx, h.fixture.Test.ID, h.fullAnswers(second.AttemptID))
	require.NoError(t, err)

	h.clock.Advance(45 * time.Minute)
	list, err := h.svc.ListAttempts(ctx, dto.ListAttemptsQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.AttemptID, list.Items[0].ID)
	assert.Equal(t, "SUBMITTED", list.Items[0].Status)
	assert.Equal(t, first.AttemptID, list.Items[1].ID)
	assert.Equal(t, "EXPIRED", list.Items[1].Status)
	assert.Equal(t, h.fixture.Test.Name, list.Items[1].TestName)

	inProgress, err := h.svc.ListAttempts(ctx, dto.ListAttemptsQuery{UserID: "user-1", Status: "IN_PROGRESS"})
	require.NoError(t, err)
	assert.Empty(t, inProgress.Items)

	t.Run("overdue attempts count as expired before paging", func(t *testing.T) {
		h := newHarness(t)
		overdue, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-2")
		require.NoError(t, err)
		h.clock.Advance(time.Hour)
		fresh, err := h.svc.StartTest(ctx, h.fixture.Test.ID, "user-2")
		require.NoError(t, err)

		expired, err := h.svc.ListAttempts(ctx, dto.ListAttemptsQuery{UserID: "user-2", Status: "EXPIRED"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), expired.Total)
		require.Len(t, expired.Items, 1)
		assert.Equal(t, overdue.AttemptID, expired.Items[0].ID)

		open, err := h.svc.ListAttempts(ctx, dto.ListAttemptsQuery{UserID: "user-2", Status: "IN_PROGRESS", PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), open.Total)
		require.Len(t, open.Items, 1)
		assert.Equal(t, fresh.AttemptID, open.Items[0].ID)
	})

	_, err = h.svc.ListAttempts(ctx, dto.ListAttemptsQuery{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
