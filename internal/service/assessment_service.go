package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/behavio/internal/dto"
	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/monitoring"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/scoring"
	"github.com/lshigami/behavio/internal/tracing"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type Clock func() time.Time

// ShuffleFunc permutes n elements through swap. rand.Shuffle and
// (*rand.Rand).Shuffle both fit.
type ShuffleFunc func(n int, swap func(i, j int))

// Recommender turns a scored report into development recommendations.
type Recommender interface {
	Recommend(report scoring.Report, grade string) []string
}

type AssessmentService interface {
	StartTest(ctx context.Context, testID uint, userID string) (*dto.StartTestResponse, error)
	SubmitTest(ctx context.Context, testID uint, req dto.SubmitTestRequest) (*dto.TestResultDTO, error)
	GetAttemptResults(ctx context.Context, attemptID string, includeAudit bool) (*dto.AttemptResultDTO, error)
	ListAttempts(ctx context.Context, query dto.ListAttemptsQuery) (*dto.AttemptListDTO, error)
}

type AssessmentOption func(*assessmentService)

func WithClock(now Clock) AssessmentOption {
	return func(s *assessmentService) { s.now = now }
}

func WithShuffle(shuffle ShuffleFunc) AssessmentOption {
	return func(s *assessmentService) { s.shuffle = shuffle }
}

type assessmentService struct {
	testRepo    repository.TestRepository
	attemptRepo repository.TestAttemptRepository
	recommender Recommender
	now         Clock
	shuffle     ShuffleFunc
}

func NewAssessmentService(
	testRepo repository.TestRepository,
	attemptRepo repository.TestAttemptRepository,
	recommender Recommender,
	opts ...AssessmentOption,
) AssessmentService {
	s := &assessmentService{
		testRepo:    testRepo,
		attemptRepo: attemptRepo,
		recommender: recommender,
		now:         time.Now,
		shuffle:     rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the current time at the precision the database keeps.
func (s *assessmentService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *assessmentService) StartTest(ctx context.Context, testID uint, userID string) (*dto.StartTestResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "AssessmentService.StartTest")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	test, err := s.testRepo.FindByIDWithQuestionsAndBehaviours(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, testID)
		}
		tracing.RecordError(ctx, err)
		log.Error().Err(err).Uint("testID", testID).Msg("StartTest: failed to load test")
		return nil, fmt.Errorf("failed to load test %d: %w", testID, err)
	}
	if len(test.Questions) == 0 {
		return nil, fmt.Errorf("%w: test %d has no questions", ErrNotFound, testID)
	}

	order := make([]uint, len(test.Questions))
	for i, tq := range test.Questions {
		order[i] = tq.QuestionID
	}
	s.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	startedAt := s.timestamp()
	attempt := &model.TestAttempt{
		TestID:    testID,
		UserID:    userID,
		Status:    model.AttemptInProgress,
		StartedAt: startedAt,
	}
	answers := make([]model.Answer, len(order))
	for i, questionID := range order {
		answers[i] = model.Answer{QuestionID: questionID, Position: i + 1}
	}

	if err := s.attemptRepo.CreateWithAnswers(ctx, attempt, answers); err != nil {
		tracing.RecordError(ctx, err)
		log.Error().Err(err).Uint("testID", testID).Str("userID", userID).Msg("StartTest: failed to create attempt")
		return nil, fmt.Errorf("failed to start test %d: %w", testID, err)
	}
	monitoring.AttemptTransitions.WithLabelValues(string(model.AttemptInProgress)).Inc()
	log.Info().Str("attemptID", attempt.ID).Uint("testID", testID).Str("userID", userID).Int("questions", len(order)).Msg("Attempt started")

	return &dto.StartTestResponse{
		TestID:        testID,
		UserID:        userID,
		AttemptID:     attempt.ID,
		StartedAt:     startedAt,
		ExpiresAt:     attempt.Deadline(test.TimeLimitMinutes),
		QuestionOrder: order,
	}, nil
}

func (s *assessmentService) SubmitTest(ctx context.Context, testID uint, req dto.SubmitTestRequest) (*dto.TestResultDTO, error) {
	ctx, span := tracing.Tracer().Start(ctx, "AssessmentService.SubmitTest")
	defer span.End()

	attempt, err := s.attemptRepo.FindByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, req.AttemptID)
		}
		tracing.RecordError(ctx, err)
		log.Error().Err(err).Str("attemptID", req.AttemptID).Msg("SubmitTest: failed to load attempt")
		return nil, fmt.Errorf("failed to load attempt %s: %w", req.AttemptID, err)
	}
	if attempt.TestID != testID {
		return nil, fmt.Errorf("%w: attempt %s does not belong to test %d", ErrNotFound, req.AttemptID, testID)
	}
	if req.OwnerID != "" && req.OwnerID != attempt.UserID {
		log.Warn().Str("attemptID", attempt.ID).Str("ownerID", req.OwnerID).Msg("SubmitTest: attempt belongs to another user")
		return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, req.AttemptID)
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt %s is not active", ErrInvalidState, attempt.ID)
	}

	test, err := s.testRepo.FindByIDWithQuestionsAndBehaviours(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, testID)
		}
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to load test %d: %w", testID, err)
	}

	now := s.timestamp()
	if attempt.ExpiredAt(now, test.TimeLimitMinutes) {
		if _, err := s.attemptRepo.MarkExpired(ctx, attempt.ID, now); err != nil {
			tracing.RecordError(ctx, err)
			log.Error().Err(err).Str("attemptID", attempt.ID).Msg("SubmitTest: failed to mark attempt expired")
			return nil, fmt.Errorf("failed to expire attempt %s: %w", attempt.ID, err)
		}
		monitoring.AttemptTransitions.WithLabelValues(string(model.AttemptExpired)).Inc()
		log.Info().Str("attemptID", attempt.ID).Time("deadline", attempt.Deadline(test.TimeLimitMinutes)).Msg("Submission rejected: attempt expired")
		return nil, fmt.Errorf("%w: attempt %s has expired", ErrInvalidState, attempt.ID)
	}

	questions := make(map[uint]scoring.Question, len(test.Questions))
	for _, tq := range test.Questions {
		questions[tq.QuestionID] = tq.Question.Compile()
	}

	submitted := make(map[uint]json.RawMessage, len(req.Answers))
	for _, a := range req.Answers {
		if _, dup := submitted[a.QuestionID]; dup {
			log.Warn().Str("attemptID", attempt.ID).Uint("questionID", a.QuestionID).Msg("SubmitTest: duplicate answer ignored")
			continue
		}
		submitted[a.QuestionID] = a.Response
	}

	// Answers are folded in presentation order so the behaviour order matches
	// what results reconstruction produces later.
	var tally scoring.Tally
	scored := make([]repository.AnswerScoring, 0, len(submitted))
	inAttempt := make(map[uint]bool, len(attempt.Answers))
	for _, row := range attempt.Answers {
		inAttempt[row.QuestionID] = true
		response, answered := submitted[row.QuestionID]
		q, known := questions[row.QuestionID]
		if !answered || !known {
			tally = tally.Add(scoring.AnswerScore{MaxScore: scoring.ScoreMax})
			continue
		}
		result := q.Score(response)
		tally = tally.Add(result)
		scored = append(scored, repository.AnswerScoring{
			QuestionID:    row.QuestionID,
			Response:      datatypes.JSON(response),
			Score:         int(math.Round(result.AwardedScore)),
			AwardedScore:  result.AwardedScore,
			MaxScore:      result.MaxScore,
			Contributions: result.Contributions,
			Rubric:        result.Rubric,
		})
	}
	for questionID := range submitted {
		if !inAttempt[questionID] {
			log.Debug().Str("attemptID", attempt.ID).Uint("questionID", questionID).Msg("SubmitTest: answer for unknown question skipped")
		}
	}

	report := tally.Report()
	err = s.attemptRepo.Submit(ctx, repository.Submission{
		AttemptID:   attempt.ID,
		Answers:     scored,
		CompletedAt: now,
		Score:       report.OverallScore,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotActive) {
			return nil, fmt.Errorf("%w: attempt %s is not active", ErrInvalidState, attempt.ID)
		}
		tracing.RecordError(ctx, err)
		log.Error().Err(err).Str("attemptID", attempt.ID).Msg("SubmitTest: failed to persist submission")
		return nil, fmt.Errorf("failed to save submission for attempt %s: %w", attempt.ID, err)
	}
	monitoring.AttemptTransitions.WithLabelValues(string(model.AttemptSubmitted)).Inc()
	monitoring.OverallScores.Observe(float64(report.OverallScore))
	log.Info().Str("attemptID", attempt.ID).Int("overallScore", report.OverallScore).Int("answered", len(scored)).Msg("Attempt submitted")

	result := s.buildResult(testID, attempt.ID, test.GradeName(), report)
	return &result, nil
}

func (s *assessmentService) GetAttemptResults(ctx context.Context, attemptID string, includeAudit bool) (*dto.AttemptResultDTO, error) {
	ctx, span := tracing.Tracer().Start(ctx, "AssessmentService.GetAttemptResults")
	defer span.End()

	attempt, err := s.loadAttemptDetails(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.ExpiredAt(s.timestamp(), attempt.Test.TimeLimitMinutes) {
		if err := s.expire(ctx, attempt); err != nil {
			return nil, err
		}
		if attempt, err = s.loadAttemptDetails(ctx, attemptID); err != nil {
			return nil, err
		}
	}

	var tally scoring.Tally
	var audit []dto.AuditEntryDTO
	for _, a := range attempt.Answers {
		reconciled := scoring.Reconcile(a.Stored())
		tally = tally.Add(reconciled)
		if includeAudit {
			audit = append(audit, dto.AuditEntryDTO{
				QuestionID:             a.QuestionID,
				Order:                  a.Position,
				Response:               json.RawMessage(a.Response),
				AwardedScore:           a.AwardedScore,
				MaxScore:               a.MaxScore,
				EffectiveScore:         reconciled.AwardedScore,
				ManualOverride:         a.ManualOverride,
				ManualScore:            a.ManualScore,
				ManualNote:             a.ManualNote,
				BehaviourContributions: reconciled.Contributions,
				RubricBreakdown:        a.RubricBreakdown,
			})
		}
	}

	grade := attempt.Test.GradeName()
	return &dto.AttemptResultDTO{
		TestResultDTO: s.buildResult(attempt.TestID, attempt.ID, grade, tally.Report()),
		UserID:        attempt.UserID,
		Status:        string(attempt.Status),
		StartedAt:     attempt.StartedAt,
		CompletedAt:   attempt.CompletedAt,
		Audit:         audit,
	}, nil
}

func (s *assessmentService) ListAttempts(ctx context.Context, query dto.ListAttemptsQuery) (*dto.AttemptListDTO, error) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	filter := repository.AttemptFilter{
		UserID: userID,
		TestID: query.TestID,
		Page:   repository.Page{Number: query.Page, Size: query.PageSize}.Normalized(),
	}
	if query.Status != "" {
		status := model.AttemptStatus(query.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, query.Status)
		}
		filter.Status = &status
	}

	if err := s.expireOverdue(ctx, userID); err != nil {
		return nil, err
	}

	attempts, total, err := s.attemptRepo.FindByUser(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ListAttempts: failed to list attempts")
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	items := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for i := range attempts {
		attempt := &attempts[i]
		var item dto.AttemptSummaryDTO
		if err := copier.Copy(&item, attempt); err != nil {
			log.Error().Err(err).Msg("Failed to copy TestAttempt model to AttemptSummaryDTO")
			return nil, fmt.Errorf("error preparing attempt list: %w", err)
		}
		item.Status = string(attempt.Status)
		item.TestName = attempt.Test.Name
		items = append(items, item)
	}

	return &dto.AttemptListDTO{
		Items:    items,
		Total:    total,
		Page:     filter.Page.Number,
		PageSize: filter.Page.Size,
	}, nil
}

// expireOverdue settles every overdue attempt of the user before a listing
// counts and pages them.
func (s *assessmentService) expireOverdue(ctx context.Context, userID string) error {
	open, err := s.attemptRepo.FindInProgressByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ListAttempts: failed to load open attempts")
		return fmt.Errorf("failed to load open attempts: %w", err)
	}
	now := s.timestamp()
	for i := range open {
		if open[i].ExpiredAt(now, open[i].Test.TimeLimitMinutes) {
			if err := s.expire(ctx, &open[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// expire lazily moves an overdue attempt to EXPIRED and mirrors the change on
// the in-memory copy.
func (s *assessmentService) expire(ctx context.Context, attempt *model.TestAttempt) error {
	now := s.timestamp()
	changed, err := s.attemptRepo.MarkExpired(ctx, attempt.ID, now)
	if err != nil {
		log.Error().Err(err).Str("attemptID", attempt.ID).Msg("Failed to mark attempt expired")
		return fmt.Errorf("failed to expire attempt %s: %w", attempt.ID, err)
	}
	if changed {
		monitoring.AttemptTransitions.WithLabelValues(string(model.AttemptExpired)).Inc()
		attempt.Status = model.AttemptExpired
		attempt.CompletedAt = &now
	}
	return nil
}

func (s *assessmentService) loadAttemptDetails(ctx context.Context, attemptID string) (*model.TestAttempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, attemptID)
		}
		tracing.RecordError(ctx, err)
		log.Error().Err(err).Str("attemptID", attemptID).Msg("Failed to load attempt details")
		return nil, fmt.Errorf("failed to load attempt %s: %w", attemptID, err)
	}
	return attempt, nil
}

func (s *assessmentService) buildResult(testID uint, attemptID, grade string, report scoring.Report) dto.TestResultDTO {
	behaviours := make([]dto.BehaviourScoreDTO, 0, len(report.BehaviourScores))
	for _, b := range report.BehaviourScores {
		behaviours = append(behaviours, dto.BehaviourScoreDTO{
			BehaviourID: b.BehaviourID,
			Behaviour:   b.Behaviour,
			Score:       b.Score,
		})
	}
	recommendations := []string{}
	if s.recommender != nil {
		recommendations = s.recommender.Recommend(report, grade)
	}
	return dto.TestResultDTO{
		TestID:          testID,
		AttemptID:       attemptID,
		OverallScore:    report.OverallScore,
		Grade:           grade,
		BehaviourScores: behaviours,
		Recommendations: recommendations,
	}
}
