// Command autodebit runs a single autodebit batch and exits. It is meant
// to be invoked from cron or a scheduler; the redis lock makes concurrent
// invocations safe with the API-triggered batch.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-pledge/internal/common"
	"github.com/noah-isme/backend-pledge/internal/config"
	"github.com/noah-isme/backend-pledge/internal/events"
	"github.com/noah-isme/backend-pledge/internal/lock"
	"github.com/noah-isme/backend-pledge/internal/notify"
	"github.com/noah-isme/backend-pledge/internal/obs"
	"github.com/noah-isme/backend-pledge/internal/order"
	"github.com/noah-isme/backend-pledge/internal/payment"
	"github.com/noah-isme/backend-pledge/internal/resilience"
)

const batchLockKey = "autodebit:batch"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(
		envOrDefault("OBS_LOG_FORMAT", "json"),
		envOrDefault("OBS_LOG_LEVEL", "info"),
	).With().Str("component", "autodebit").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "pledge-autodebit"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	orderStore := order.PGStore{Pool: pool}
	bus := &events.Bus{
		Store: &events.PGStore{Pool: pool},
		Notifiers: []events.Notifier{notify.EmailNotifier{
			Mail:          common.NopEmailSender{},
			Enabled:       cfg.EmailEnabled,
			OperatorEmail: cfg.OperatorEmail,
		}},
	}

	batch := &payment.AutodebitService{
		Orders: orderStore,
		Gateway: payment.BreakerGateway{
			Next: payment.Stripe{
				SecretKey: cfg.StripeSecretKey,
				BaseURL:   cfg.StripeBaseURL,
			},
			Breaker: resilience.NewBreaker(5, 0.5, 30*time.Second).
				WithTarget("stripe").
				WithLogger(logger),
		},
		Events: bus,
	}

	locks := lock.Locker{R: redisClient}

	runCtx := logger.WithContext(context.Background())
	err = locks.TryLock(runCtx, batchLockKey, cfg.BatchLockTTL, func(ctx context.Context) error {
		summary, err := batch.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info().
			Int("processed", summary.Processed).
			Int("charged", summary.Charged).
			Int("failed", summary.Failed).
			Int("skipped", summary.Skipped).
			Int64("totalCharged", summary.TotalCharged).
			Dur("took", summary.FinishedAt.Sub(summary.StartedAt)).
			Msg("autodebit batch completed")
		return nil
	})
	switch {
	case errors.Is(err, lock.ErrNotAcquired):
		logger.Warn().Msg("another batch is already running")
		os.Exit(2)
	case err != nil:
		logger.Fatal().Err(err).Msg("autodebit batch failed")
	}
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
