package repository

import (
	"context"
	"strings"

	"github.com/lshigami/behavio/internal/model"
	"gorm.io/gorm"
)

type TestFilter struct {
	Query   string
	GradeID *uint
	Page    Page
}

type TestWithQuestionCount struct {
	model.Test
	QuestionCount int
}

type TestRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	// FindByIDWithQuestionsAndBehaviours loads the grade, the questions in
	// authoring order and every question's behaviour links.
	FindByIDWithQuestionsAndBehaviours(ctx context.Context, id uint) (*model.Test, error)
	FindPublished(ctx context.Context, filter TestFilter) ([]TestWithQuestionCount, int64, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.WithContext(ctx).Preload("Grade").First(&test, id).Error; err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (r *testRepository) FindByIDWithQuestionsAndBehaviours(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC").Order("test_questions.question_id ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.BehaviourLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("behaviour_links.position ASC")
		}).
		Preload("Questions.Question.BehaviourLinks.Behaviour").
		First(&test, id).Error
	if err != nil {
		return nil, translate(err)
	}
	// Soft-deleted questions come back as zero values from the preload.
	kept := test.Questions[:0]
	for _, tq := range test.Questions {
		if tq.Question.ID != 0 {
			kept = append(kept, tq)
		}
	}
	test.Questions = kept
	return &test, nil
}

func (r *testRepository) FindPublished(ctx context.Context, filter TestFilter) ([]TestWithQuestionCount, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_published = ?", true)
		if q := strings.TrimSpace(filter.Query); q != "" {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		if filter.GradeID != nil {
			db = db.Where("grade_id = ?", *filter.GradeID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Test{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalized()
	var tests []model.Test
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Grade").
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	if len(tests) == 0 {
		return []TestWithQuestionCount{}, total, nil
	}

	ids := make([]uint, 0, len(tests))
	for _, t := range tests {
		ids = append(ids, t.ID)
	}
	var counts []struct {
		TestID        uint
		QuestionCount int
	}
	err = r.db.WithContext(ctx).Model(&model.TestQuestion{}).
		Select("test_id, COUNT(*) AS question_count").
		Where("test_id IN ?", ids).
		Group("test_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, err
	}
	byTest := make(map[uint]int, len(counts))
	for _, c := range counts {
		byTest[c.TestID] = c.QuestionCount
	}

	results := make([]TestWithQuestionCount, 0, len(tests))
	for _, t := range tests {
		results = append(results, TestWithQuestionCount{Test: t, QuestionCount: byTest[t.ID]})
	}
	return results, total, nil
}
