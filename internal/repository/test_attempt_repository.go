package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerScoring is the scoring output persisted for one answer on submit.
type AnswerScoring struct {
	QuestionID    uint
	Response      datatypes.JSON
	Score         int
	AwardedScore  float64
	MaxScore      float64
	Contributions []scoring.Contribution
	Rubric        []scoring.RubricLine
}

// Submission is everything a submit writes, applied as one unit.
type Submission struct {
	AttemptID   string
	Answers     []AnswerScoring
	CompletedAt time.Time
	Score       int
}

type AttemptFilter struct {
	UserID string
	TestID *uint
	Status *model.AttemptStatus
	Page   Page
}

type TestAttemptRepository interface {
	// CreateWithAnswers inserts the attempt and its blank answers in one
	// transaction.
	CreateWithAnswers(ctx context.Context, attempt *model.TestAttempt, answers []model.Answer) error
	FindByID(ctx context.Context, id string) (*model.TestAttempt, error)
	// FindByIDWithDetails loads the test, its grade and every answer with its
	// question, answers in presentation order.
	FindByIDWithDetails(ctx context.Context, id string) (*model.TestAttempt, error)
	// MarkExpired moves an in-progress attempt to EXPIRED. It reports whether
	// this call made the transition.
	MarkExpired(ctx context.Context, id string, at time.Time) (bool, error)
	// Submit stores every answer's scoring and moves the attempt to SUBMITTED
	// in one transaction. ErrAttemptNotActive is returned when the attempt has
	// left IN_PROGRESS, including when a concurrent submit won.
	Submit(ctx context.Context, s Submission) error
	FindByUser(ctx context.Context, filter AttemptFilter) ([]model.TestAttempt, int64, error)
	// FindInProgressByUser loads a user's open attempts with their tests so
	// overdue ones can be expired before listing.
	FindInProgressByUser(ctx context.Context, userID string) ([]model.TestAttempt, error)
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) CreateWithAnswers(ctx context.Context, attempt *model.TestAttempt, answers []model.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(attempt).Error; err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].TestAttemptID = attempt.ID
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(answers, 100).Error; err != nil {
			return fmt.Errorf("create answers: %w", err)
		}
		attempt.Answers = answers
		return nil
	})
}

func answersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("answers.position ASC")
}

func (r *testAttemptRepository) FindByID(ctx context.Context, id string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.WithContext(ctx).
		Preload("Answers", answersInOrder).
		Where("id = ?", id).
		First(&attempt).Error
	if err != nil {
		return nil, translate(err)
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindByIDWithDetails(ctx context.Context, id string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.WithContext(ctx).
		Preload("Test").
		Preload("Test.Grade").
		Preload("Answers", answersInOrder).
		Preload("Answers.Question").
		Where("id = ?", id).
		First(&attempt).Error
	if err != nil {
		return nil, translate(err)
	}
	return &attempt, nil
}

func (r *testAttemptRepository) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.TestAttempt{}).
		Where("id = ? AND status = ?", id, string(model.AttemptInProgress)).
		Updates(map[string]any{
			"status":       string(model.AttemptExpired),
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *testAttemptRepository) Submit(ctx context.Context, s Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The status guard runs first so a losing concurrent submit stops
		// before touching any answer.
		res := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND status = ?", s.AttemptID, string(model.AttemptInProgress)).
			Updates(map[string]any{
				"status":       string(model.AttemptSubmitted),
				"completed_at": s.CompletedAt,
				"score":        s.Score,
			})
		if res.Error != nil {
			return fmt.Errorf("update attempt status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAttemptNotActive
		}

		for _, a := range s.Answers {
			score := a.Score
			awarded := a.AwardedScore
			maxScore := a.MaxScore
			res := tx.Model(&model.Answer{}).
				Where("test_attempt_id = ? AND question_id = ?", s.AttemptID, a.QuestionID).
				Select("Response", "Score", "AwardedScore", "MaxScore", "BehaviourContributions", "RubricBreakdown").
				Updates(&model.Answer{
					Response:               a.Response,
					Score:                  &score,
					AwardedScore:           &awarded,
					MaxScore:               &maxScore,
					BehaviourContributions: a.Contributions,
					RubricBreakdown:        a.Rubric,
				})
			if res.Error != nil {
				return fmt.Errorf("update answer for question %d: %w", a.QuestionID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("answer for question %d: %w", a.QuestionID, ErrNotFound)
			}
		}
		return nil
	})
}

func (r *testAttemptRepository) FindByUser(ctx context.Context, filter AttemptFilter) ([]model.TestAttempt, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", filter.UserID)
		if filter.TestID != nil {
			db = db.Where("test_id = ?", *filter.TestID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", string(*filter.Status))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.TestAttempt{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalized()
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Test").
		Order("started_at DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (r *testAttemptRepository) FindInProgressByUser(ctx context.Context, userID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("user_id = ? AND status = ?", userID, string(model.AttemptInProgress)).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
