package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/paymentinstructions/internal/adapter/http"
	"github.com/iho/paymentinstructions/internal/adapter/http/handler"
	"github.com/iho/paymentinstructions/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/paymentinstructions/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/paymentinstructions/internal/adapter/repository/redis"
	"github.com/iho/paymentinstructions/internal/infrastructure/config"
	"github.com/iho/paymentinstructions/internal/infrastructure/connect"
	"github.com/iho/paymentinstructions/internal/infrastructure/logger"
	"github.com/iho/paymentinstructions/internal/infrastructure/metrics"
	"github.com/iho/paymentinstructions/internal/infrastructure/postgres"
	"github.com/iho/paymentinstructions/internal/infrastructure/redis"
	"github.com/iho/paymentinstructions/internal/usecase"
)

const (
	rateLimitCleanupInterval = 10 * time.Minute
	rateLimitMaxIdle         = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to initialize")
	}
	defer app.Close()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logg.Error().Err(err).Msg("server failed")
	}

	logg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server forced to shutdown")
	}

	logg.Info().Msg("server stopped")
}

// app is the wired HTTP service plus the resources it owns.
type app struct {
	router  http.Handler
	closers []func()
}

// Close releases backing connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logg zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{}
	policy := connect.DefaultPolicy(cfg.ConnectMaxElapsed)

	var (
		checks []handler.Check
		opts   []usecase.InstructionOption
		routes httpAdapter.RouterConfig
	)

	m := metrics.New(reg)
	if cfg.MetricsEnabled {
		routes.MetricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	// PostgreSQL audit trail
	if cfg.AuditEnabled() {
		pool, err := connect.Retry(ctx, logg, "postgres", policy, func(ctx context.Context) (*pgxpool.Pool, error) {
			return postgres.NewPool(ctx, postgres.PoolConfig{
				DatabaseURL: cfg.DatabaseURL,
				MaxConns:    cfg.DatabaseMaxConns,
				MinConns:    cfg.DatabaseMinConns,
			})
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		logg.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, logg); err != nil {
			a.Close()
			return nil, err
		}

		auditRepo := postgresRepo.NewAuditRepository(pool, postgresRepo.NewRetrier(logg))
		opts = append(opts, usecase.WithAuditRecorder(auditRepo))
		checks = append(checks, handler.Check{Name: "postgres", Ping: pool.Ping})
	}

	// Redis idempotency
	if cfg.IdempotencyEnabled() {
		client, err := connect.Retry(ctx, logg, "redis", policy, func(ctx context.Context) (*goredis.Client, error) {
			return redis.NewClient(ctx, cfg.RedisURL)
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { client.Close() })
		logg.Info().Msg("connected to redis")

		store := redisRepo.NewIdempotencyStore(client)
		routes.Idempotency = middleware.NewIdempotencyMiddleware(store, cfg.IdempotencyTTL, logg).
			OnReplay(m.IdempotencyReplays.Inc)
		checks = append(checks, handler.Check{Name: "redis", Ping: redis.Pinger(client)})
	}

	if cfg.RateLimitEnabled() {
		routes.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
			OnLimit(m.RateLimitHits.Inc)
		go routes.RateLimiter.RunCleanup(ctx, rateLimitCleanupInterval, rateLimitMaxIdle)
	}

	instructionUC := usecase.NewInstructionUseCase(usecase.SystemClock{}, postgresRepo.NewULIDGenerator(), opts...)

	routes.InstructionHandler = handler.NewInstructionHandler(instructionUC, logg, m)
	routes.HealthHandler = handler.NewHealthHandler(checks...)
	routes.Logger = logg

	a.router = httpAdapter.NewRouter(routes)
	return a, nil
}
