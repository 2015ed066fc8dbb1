package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/rs/zerolog/log"
)

type BehaviourService interface {
	List(ctx context.Context, gradeName string) ([]dto.BehaviourDTO, error)
	Get(ctx context.Context, id uint) (*dto.BehaviourDTO, error)
}

type behaviourService struct {
	behaviourRepo repository.BehaviourRepository
}

func NewBehaviourService(behaviourRepo repository.BehaviourRepository) BehaviourService {
	return &behaviourService{behaviourRepo: behaviourRepo}
}

func (s *behaviourService) List(ctx context.Context, gradeName string) ([]dto.BehaviourDTO, error) {
	behaviours, err := s.behaviourRepo.FindAll(ctx, gradeName)
	if err != nil {
		log.Error().Err(err).Str("grade", gradeName).Msg("Failed to list behaviours")
		return nil, fmt.Errorf("error fetching behaviours: %w", err)
	}
	out := make([]dto.BehaviourDTO, 0, len(behaviours))
	for _, b := range behaviours {
		out = append(out, toBehaviourDTO(b))
	}
	return out, nil
}

func (s *behaviourService) Get(ctx context.Context, id uint) (*dto.BehaviourDTO, error) {
	b, err := s.behaviourRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: behaviour %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("error fetching behaviour %d: %w", id, err)
	}
	out := toBehaviourDTO(*b)
	return &out, nil
}

func toBehaviourDTO(b model.Behaviour) dto.BehaviourDTO {
	out := dto.BehaviourDTO{ID: b.ID, Name: b.Name, Description: b.Description}
	if b.Grade != nil {
		out.Grade = b.Grade.Name
	}
	return out
}
