package repository

import (
	"context"

	"github.com/lshigami/behavio/internal/model"
	"gorm.io/gorm"
)

// Override is a grader's replacement score for one answer. A nil Score with
// Active false clears a previous override.
type Override struct {
	Active bool
	Score  *float64
	Note   *string
}

type AnswerRepository interface {
	FindByAttemptAndQuestion(ctx context.Context, attemptID string, questionID uint) (*model.Answer, error)
	// SetOverride writes or clears a grader's override. Attempts still in
	// progress are refused with ErrAttemptOpen, since submit scores without
	// looking at overrides.
	SetOverride(ctx context.Context, attemptID string, questionID uint, o Override) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByAttemptAndQuestion(ctx context.Context, attemptID string, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("test_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &answer, nil
}

func (r *answerRepository) SetOverride(ctx context.Context, attemptID string, questionID uint, o Override) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempt model.TestAttempt
		if err := tx.Select("id", "status").Where("id = ?", attemptID).First(&attempt).Error; err != nil {
			return translate(err)
		}
		if attempt.Status == model.AttemptInProgress {
			return ErrAttemptOpen
		}

		res := tx.Model(&model.Answer{}).
			Where("test_attempt_id = ? AND question_id = ?", attemptID, questionID).
			Updates(map[string]any{
				"manual_override": o.Active,
				"manual_score":    o.Score,
				"manual_note":     o.Note,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
