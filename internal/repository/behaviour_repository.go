package repository

import (
	"context"

	"github.com/lshigami/behavio/internal/model"
	"gorm.io/gorm"
)

type BehaviourRepository interface {
	// FindAll lists behaviours, restricted to one grade when gradeName is set.
	FindAll(ctx context.Context, gradeName string) ([]model.Behaviour, error)
	FindByID(ctx context.Context, id uint) (*model.Behaviour, error)
}

type behaviourRepository struct {
	db *gorm.DB
}

func NewBehaviourRepository(db *gorm.DB) BehaviourRepository {
	return &behaviourRepository{db: db}
}

func (r *behaviourRepository) FindAll(ctx context.Context, gradeName string) ([]model.Behaviour, error) {
	var behaviours []model.Behaviour
	q := r.db.WithContext(ctx).Preload("Grade")
	if gradeName != "" {
		q = q.Joins("JOIN grades ON grades.id = behaviours.grade_id AND grades.deleted_at IS NULL").
			Where("grades.name = ?", gradeName)
	}
	if err := q.Order("behaviours.name ASC").Find(&behaviours).Error; err != nil {
		return nil, err
	}
	return behaviours, nil
}

func (r *behaviourRepository) FindByID(ctx context.Context, id uint) (*model.Behaviour, error) {
	var behaviour model.Behaviour
	if err := r.db.WithContext(ctx).Preload("Grade").First(&behaviour, id).Error; err != nil {
		return nil, translate(err)
	}
	return &behaviour, nil
}
