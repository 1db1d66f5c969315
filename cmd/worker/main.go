package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"learntrack/internal/config"
	"learntrack/internal/logger"
	"learntrack/internal/pubsub"
	"learntrack/internal/repository"
	"learntrack/internal/service"
	"learntrack/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}
	if !cfg.EventsEnabled() {
		logger.Fatal().Msg("GCP_PROJECT_ID must be set to consume progress events")
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize DB connection
	uri, err := service.ResolveMongoURI(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to resolve Mongo URI: %v", err)
	}
	client, err := repository.Connect(ctx, uri)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		_ = client.Disconnect(dctx)
	}()
	logger.Info().Msg("Database connection established")

	repos := repository.NewRepositories(client.Database(cfg.MongoDatabase))

	// Initialize Pub/Sub receiver
	psClient, err := pubsub.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer psClient.Close()
	receiver := pubsub.NewSubscriptionReceiver(psClient, cfg.PubSubProgressSubscription, logger)

	if err := worker.Run(ctx, logger, receiver, worker.NewStatsWorker(repos.Stats, logger)); err != nil {
		logger.Fatal().Msgf("Stats worker failed: %v", err)
	}
	logger.Info().Msg("Stats worker stopped gracefully")
}
