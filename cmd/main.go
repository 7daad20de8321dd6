package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arkandaru/simdoc/internal/api"
	"github.com/arkandaru/simdoc/internal/config"
	"github.com/arkandaru/simdoc/internal/configs/env"
	"github.com/arkandaru/simdoc/internal/engine"
	"github.com/arkandaru/simdoc/internal/infra/mongo"
	redisInfra "github.com/arkandaru/simdoc/internal/infra/redis"
	"github.com/arkandaru/simdoc/internal/logger"
	"github.com/arkandaru/simdoc/internal/metrics"
	"github.com/arkandaru/simdoc/internal/repository"
	"github.com/arkandaru/simdoc/internal/stream"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting simdoc server")

	// Initialize Prometheus metrics
	metrics.InitPrometheus()
	log.Info().Msg("Prometheus metrics initialized")

	// Start metrics server in separate goroutine
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}
	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics server started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed to start")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Initialize MongoDB repository
	mongoRepo := repository.NewMongoRepository(mongoClient)

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(mongoRepo)
	docsRepo := repository.NewDocumentsRepository(mongoRepo)
	corpusRepo := repository.NewCorpusRepository(mongoRepo)
	paramsRepo := repository.NewParamsRepository(mongoRepo)
	checksRepo := repository.NewChecksRepository(mongoRepo)
	resultsRepo := repository.NewResultsRepository(mongoRepo)
	verifRepo := repository.NewVerificationRepository(mongoRepo)
	policyRepo := repository.NewPolicyRepository(mongoRepo)
	auditRepo := repository.NewAuditRepository(mongoRepo)

	// Workers that died mid-run left their checks in processing forever;
	// fail anything processing from before this boot.
	if swept, err := checksRepo.FailStaleProcessing(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("Failed to sweep stale processing checks")
	} else if swept > 0 {
		log.Info().Int64("swept", swept).Msg("Failed stale processing checks from previous run")
	}

	// Build the corpus index under the active params, if any
	indexMgr := engine.NewIndexManager(corpusRepo, paramsRepo)
	if _, err := indexMgr.Rebuild(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial corpus index build failed, will retry on first check")
	}

	// Initialize retry handler
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	// Initialize Redis stream consumer
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		docsRepo,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	// Initialize worker pool
	workerPool := engine.NewWorkerPool(ctx)
	defer workerPool.Close()

	router := api.SetupRoutes(
		cfg,
		usersRepo,
		docsRepo,
		corpusRepo,
		paramsRepo,
		checksRepo,
		resultsRepo,
		verifRepo,
		policyRepo,
		auditRepo,
		indexMgr,
		workerPool,
		redisClient,
	)

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	go func() {
		defer consumerCancel()
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	// Start Gin server
	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	// Shutdown metrics server gracefully
	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer metricsCancel()
	if err := metricsServer.Shutdown(metricsCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
