package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/rs/zerolog/log"
)

type UserTestService interface {
	GetAllTests(ctx context.Context, query dto.ListTestsQuery) (*dto.TestListDTO, error)
	GetTestDetails(ctx context.Context, testID uint) (*dto.TestDetailsDTO, error)
}

type userTestService struct {
	testRepo repository.TestRepository
}

func NewUserTestService(testRepo repository.TestRepository) UserTestService {
	return &userTestService{testRepo: testRepo}
}

func (s *userTestService) GetAllTests(ctx context.Context, query dto.ListTestsQuery) (*dto.TestListDTO, error) {
	page := repository.Page{Number: query.Page, Size: query.PageSize}.Normalized()
	tests, total, err := s.testRepo.FindPublished(ctx, repository.TestFilter{
		Query:   query.Q,
		GradeID: query.GradeID,
		Page:    page,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to get tests with question count from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	items := make([]dto.TestSummaryDTO, 0, len(tests))
	for _, twc := range tests {
		var item dto.TestSummaryDTO
		if err := copier.Copy(&item, &twc.Test); err != nil {
			log.Error().Err(err).Msg("Failed to copy Test model to TestSummaryDTO")
			return nil, fmt.Errorf("error preparing test list: %w", err)
		}
		item.GradeName = twc.Test.GradeName()
		item.QuestionCount = twc.QuestionCount
		items = append(items, item)
	}
	return &dto.TestListDTO{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (s *userTestService) GetTestDetails(ctx context.Context, testID uint) (*dto.TestDetailsDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestionsAndBehaviours(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, fmt.Errorf("error fetching test %d: %w", testID, err)
	}

	resp := dto.TestDetailsDTO{
		ID:               test.ID,
		Name:             test.Name,
		Description:      test.Description,
		TimeLimitMinutes: test.TimeLimitMinutes,
		Grade:            test.GradeName(),
		Questions:        make([]dto.QuestionViewDTO, 0, len(test.Questions)),
	}
	for i, tq := range test.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionViewDTO{
			ID:      tq.Question.ID,
			Order:   i + 1,
			Prompt:  tq.Question.Prompt,
			Type:    tq.Question.Type,
			Options: scoring.Options(tq.Question.Type, tq.Question.Metadata),
		})
	}
	return &resp, nil
}
