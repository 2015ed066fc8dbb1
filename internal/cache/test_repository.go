package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/lshigami/behavio/internal/model"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/rs/zerolog/log"
)

const testDefinitionKeyPrefix = "behavio:test:definition:"

// TestRepository serves full test definitions from Redis and falls through
// to the wrapped repository on a miss. Redis failures are logged and never
// surface to callers.
type TestRepository struct {
	repository.TestRepository
	rdb *redis.Client
	ttl time.Duration
}

var _ repository.TestRepository = (*TestRepository)(nil)

func NewTestRepository(next repository.TestRepository, rdb *redis.Client, ttl time.Duration) *TestRepository {
	return &TestRepository{TestRepository: next, rdb: rdb, ttl: ttl}
}

func definitionKey(id uint) string {
	return fmt.Sprintf("%s%d", testDefinitionKeyPrefix, id)
}

func (r *TestRepository) FindByIDWithQuestionsAndBehaviours(ctx context.Context, id uint) (*model.Test, error) {
	key := definitionKey(id)

	val, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var test model.Test
		if err := json.Unmarshal(val, &test); err == nil {
			return &test, nil
		}
		log.Warn().Str("key", key).Msg("Discarding unreadable cached test definition")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("key", key).Msg("Redis read failed, loading test from database")
	}

	test, err := r.TestRepository.FindByIDWithQuestionsAndBehaviours(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(test)
	if err != nil {
		log.Warn().Err(err).Uint("testID", id).Msg("Could not encode test definition for cache")
		return test, nil
	}
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis write failed")
	}
	return test, nil
}

// Invalidate drops a cached definition, e.g. after the test was edited.
func (r *TestRepository) Invalidate(ctx context.Context, id uint) error {
	return r.rdb.Del(ctx, definitionKey(id)).Err()
}
