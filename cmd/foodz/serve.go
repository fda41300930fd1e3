package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/ai"
	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/catalog"
	"github.com/foodz/foodz-api/internal/httpapi"
	"github.com/foodz/foodz-api/internal/orders"
	"github.com/foodz/foodz-api/internal/telemetry"
	"github.com/foodz/foodz-api/pkg/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer("foodz-api", cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed to init tracer")
	}
	defer shutdownTracer()

	ctx := context.Background()
	pool, err := connectPostgres(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "failed to ping redis")
	}
	logger.Info("Redis connected")

	tokens, err := auth.NewTokenManager(cfg.JWTSecretKey, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		return err
	}

	catalogStore := catalog.NewPostgresStore(pool)
	aiService := ai.NewService(cfg.AISettings(), ai.WithServiceLogger(logger))

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog:   catalogStore,
		Orders:    orders.NewService(catalogStore, orders.NewPostgresStore(pool)),
		Users:     auth.NewPostgresStore(pool),
		UserCache: auth.NewRedisCache(rdb),
		Tokens:    tokens,
		AI:        aiService,
		Limiter:   ratelimit.NewLimiter(rdb, cfg.AIRateLimitRPM),
		Tracer:    otel.GetTracerProvider().Tracer("foodz-api"),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Foodz API starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serverErr:
		aiService.Shutdown()
		return errors.Wrap(err, "server error")
	}
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	aiService.Shutdown()
	if err != nil {
		return errors.Wrap(err, "forced shutdown")
	}
	logger.Info("Server stopped")
	return nil
}
