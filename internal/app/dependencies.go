package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Dependencies bundles the process-wide services assembled once at
// startup. Handlers and services still receive what they need explicitly;
// this struct keeps the wiring in one place.
type Dependencies struct {
	Context        context.Context
	DB             *pgxpool.Pool
	Redis          *redis.Client
	Validator      *validator.Validate
	LimiterStore   limiter.Store
	PublishLimiter *limiter.Limiter
	TaskClient     *asynq.Client
}

// NewLimiterStore wires a rate limiter store backed by Redis.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "ratelimit:publish",
	})
	if err != nil {
		return nil, fmt.Errorf("init limiter store: %w", err)
	}
	return store, nil
}

// NewPublishLimiter builds the fixed-window limiter guarding catalog
// publishes with max requests per window.
func NewPublishLimiter(store limiter.Store, max int, window time.Duration) *limiter.Limiter {
	return limiter.New(store, limiter.Rate{Period: window, Limit: int64(max)})
}

// RunMigrations brings the schema up to date. An already current schema
// is not an error.
func RunMigrations(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
