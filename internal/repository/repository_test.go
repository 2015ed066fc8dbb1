package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/lshigami/behavio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func startAttempt(t *testing.T, db *gorm.DB, f testutil.Fixture, startedAt time.Time) *model.TestAttempt {
	t.Helper()
	attempt := &model.TestAttempt{TestID: f.Test.ID, UserID: "user-1", Status: model.AttemptInProgress, StartedAt: startedAt}
	answers := []model.Answer{
		{QuestionID: f.FreeText.ID, Position: 1},
		{QuestionID: f.MCQ.ID, Position: 2},
		{QuestionID: f.SJT.ID, Position: 3},
	}
	require.NoError(t, repository.NewTestAttemptRepository(db).CreateWithAnswers(context.Background(), attempt, answers))
	return attempt
}

func TestTestRepository(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewTestRepository(db)
	ctx := context.Background()

	t.Run("loads questions in authoring order with behaviours", func(t *testing.T) {
		test, err := repo.FindByIDWithQuestionsAndBehaviours(ctx, f.Test.ID)
		require.NoError(t, err)

		assert.Equal(t, "G7", test.GradeName())
		require.Len(t, test.Questions, 3)
		assert.Equal(t, f.MCQ.ID, test.Questions[0].QuestionID)
		assert.Equal(t, f.FreeText.ID, test.Questions[2].QuestionID)
		sjt := test.Questions[1].Question
		require.Len(t, sjt.BehaviourLinks, 2)
		assert.Equal(t, "Leadership", sjt.BehaviourLinks[0].Behaviour.Name)
		assert.Equal(t, "Teamwork", sjt.BehaviourLinks[1].Behaviour.Name)
	})

	t.Run("drops soft-deleted questions", func(t *testing.T) {
		require.NoError(t, db.Delete(&model.Question{}, f.FreeText.ID).Error)
		t.Cleanup(func() {
			db.Unscoped().Model(&model.Question{}).Where("id = ?", f.FreeText.ID).Update("deleted_at", nil)
		})

		test, err := repo.FindByIDWithQuestionsAndBehaviours(ctx, f.Test.ID)
		require.NoError(t, err)
		assert.Len(t, test.Questions, 2)
	})

	t.Run("missing test", func(t *testing.T) {
		_, err := repo.FindByIDWithQuestionsAndBehaviours(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("published tests with question counts", func(t *testing.T) {
		testutil.EmptyTest(t, db)

		tests, total, err := repo.FindPublished(ctx, repository.TestFilter{Query: "behaviours"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tests, 1)
		assert.Equal(t, 3, tests[0].QuestionCount)

		_, total, err = repo.FindPublished(ctx, repository.TestFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestTestAttemptRepository(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewTestAttemptRepository(db)
	ctx := context.Background()
	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("answers come back in presentation order", func(t *testing.T) {
		attempt := startAttempt(t, db, f, startedAt)
		assert.Len(t, attempt.ID, 36)

		got, err := repo.FindByIDWithDetails(ctx, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptInProgress, got.Status)
		require.Len(t, got.Answers, 3)
		assert.Equal(t, f.FreeText.ID, got.Answers[0].QuestionID)
		assert.Equal(t, "FREE_TEXT", got.Answers[0].Question.Type)
		assert.Equal(t, "G7", got.Test.GradeName())
	})

	t.Run("submit stores scoring and rejects a second submit", func(t *testing.T) {
		attempt := startAttempt(t, db, f, startedAt)
		sub := repository.Submission{
			AttemptID:   attempt.ID,
			CompletedAt: startedAt.Add(10 * time.Minute),
			Score:       33,
			Answers: []repository.AnswerScoring{{
				QuestionID:    f.MCQ.ID,
				Response:      datatypes.JSON(`"A"`),
				Score:         4,
				AwardedScore:  4,
				MaxScore:      4,
				Contributions: []scoring.Contribution{{BehaviourID: "1", Behaviour: "Leadership", Awarded: 4, Max: 4}},
			}},
		}
		require.NoError(t, repo.Submit(ctx, sub))

		got, err := repo.FindByID(ctx, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptSubmitted, got.Status)
		require.NotNil(t, got.Score)
		assert.Equal(t, 33, *got.Score)
		mcq := got.Answers[1]
		require.NotNil(t, mcq.AwardedScore)
		assert.Equal(t, 4.0, *mcq.AwardedScore)
		assert.Equal(t, sub.Answers[0].Contributions, mcq.BehaviourContributions)
		assert.Nil(t, got.Answers[0].AwardedScore)

		assert.ErrorIs(t, repo.Submit(ctx, sub), repository.ErrAttemptNotActive)
	})

	t.Run("submit rolls back when an answer row is missing", func(t *testing.T) {
		attempt := startAttempt(t, db, f, startedAt)
		err := repo.Submit(ctx, repository.Submission{
			AttemptID:   attempt.ID,
			CompletedAt: startedAt,
			Answers:     []repository.AnswerScoring{{QuestionID: 9999, Response: datatypes.JSON(`1`)}},
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := repo.FindByID(ctx, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptInProgress, got.Status)
	})

	t.Run("mark expired only moves in-progress attempts", func(t *testing.T) {
		attempt := startAttempt(t, db, f, startedAt)

		changed, err := repo.MarkExpired(ctx, attempt.ID, startedAt.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = repo.MarkExpired(ctx, attempt.ID, startedAt.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("find by user filters and pages", func(t *testing.T) {
		status := model.AttemptExpired
		attempts, total, err := repo.FindByUser(ctx, repository.AttemptFilter{UserID: "user-1", Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, attempts, 1)
		assert.Equal(t, f.Test.Name, attempts[0].Test.Name)

		attempts, total, err = repo.FindByUser(ctx, repository.AttemptFilter{UserID: "user-1", Page: repository.Page{Number: 1, Size: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, attempts, 2)

		_, total, err = repo.FindByUser(ctx, repository.AttemptFilter{UserID: "someone-else"})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestCreateWithAnswersIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewTestAttemptRepository(db)
	ctx := context.Background()

	attempt := &model.TestAttempt{TestID: f.Test.ID, UserID: "user-1", Status: model.AttemptInProgress, StartedAt: time.Now().UTC()}
	answers := []model.Answer{
		{QuestionID: f.MCQ.ID, Position: 1},
		{QuestionID: f.MCQ.ID, Position: 2},
	}
	require.Error(t, repo.CreateWithAnswers(ctx, attempt, answers))

	var attempts, rows int64
	require.NoError(t, db.Model(&model.TestAttempt{}).Unscoped().Count(&attempts).Error)
	require.NoError(t, db.Model(&model.Answer{}).Count(&rows).Error)
	assert.Zero(t, attempts)
	assert.Zero(t, rows)
}

func TestFindInProgressByUser(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewTestAttemptRepository(db)
	ctx := context.Background()
	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	open := startAttempt(t, db, f, startedAt)
	closed := startAttempt(t, db, f, startedAt)
	_, err := repo.MarkExpired(ctx, closed.ID, startedAt.Add(time.Hour))
	require.NoError(t, err)

	got, err := repo.FindInProgressByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
	assert.Equal(t, f.Test.TimeLimitMinutes, got[0].Test.TimeLimitMinutes)
}

func TestAnswerRepositoryOverride(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewAnswerRepository(db)
	ctx := context.Background()
	attempt := startAttempt(t, db, f, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	score, note := 2.5, "partial credit"
	err := repo.SetOverride(ctx, attempt.ID, f.SJT.ID, repository.Override{Active: true, Score: &score})
	assert.ErrorIs(t, err, repository.ErrAttemptOpen)
	answer, err := repo.FindByAttemptAndQuestion(ctx, attempt.ID, f.SJT.ID)
	require.NoError(t, err)
	assert.False(t, answer.ManualOverride)

	require.NoError(t, repository.NewTestAttemptRepository(db).Submit(ctx, repository.Submission{AttemptID: attempt.ID, CompletedAt: attempt.StartedAt}))
	require.NoError(t, repo.SetOverride(ctx, attempt.ID, f.SJT.ID, repository.Override{Active: true, Score: &score, Note: &note}))

	answer, err = repo.FindByAttemptAndQuestion(ctx, attempt.ID, f.SJT.ID)
	require.NoError(t, err)
	assert.True(t, answer.ManualOverride)
	require.NotNil(t, answer.ManualScore)
	assert.Equal(t, 2.5, *answer.ManualScore)
	assert.Equal(t, "SJT", answer.Question.Type)

	require.NoError(t, repo.SetOverride(ctx, attempt.ID, f.SJT.ID, repository.Override{}))
	answer, err = repo.FindByAttemptAndQuestion(ctx, attempt.ID, f.SJT.ID)
	require.NoError(t, err)
	assert.False(t, answer.ManualOverride)
	assert.Nil(t, answer.ManualScore)
	assert.Nil(t, answer.ManualNote)

	assert.ErrorIs(t, repo.SetOverride(ctx, attempt.ID, 9999, repository.Override{}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.SetOverride(ctx, "missing", f.SJT.ID, repository.Override{}), repository.ErrNotFound)
	_, err = repo.FindByAttemptAndQuestion(ctx, "missing", f.SJT.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBehaviourRepository(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewBehaviourRepository(db)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Leadership", all[0].Name)

	none, err := repo.FindAll(ctx, "SCS")
	require.NoError(t, err)
	assert.Empty(t, none)

	b, err := repo.FindByID(ctx, f.Teamwork.ID)
	require.NoError(t, err)
	assert.Equal(t, "G7", b.Grade.Name)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPageNormalized(t *testing.T) {
	assert.Equal(t, repository.Page{Number: 1, Size: repository.DefaultPageSize}, repository.Page{}.Normalized())
	assert.Equal(t, repository.Page{Number: 3, Size: repository.MaxPageSize}, repository.Page{Number: 3, Size: 500}.Normalized())
	assert.Equal(t, 40, repository.Page{Number: 3, Size: 20}.Offset())
}
