package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"learntrack/internal/cache"
	"learntrack/internal/config"
	"learntrack/internal/events"
	"learntrack/internal/grading"
	"learntrack/internal/middleware"
	"learntrack/internal/pubsub"
	"learntrack/internal/repository"
	"learntrack/internal/service"
	"learntrack/internal/storage"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// New wires services over db and returns the HTTP handler. The returned
// cleanup closes the cache and Pub/Sub clients.
func New(ctx context.Context, cfg *config.Config, db *mongo.Database, logger zerolog.Logger) (http.Handler, func() error, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Initializing router")

	svcs, cleanup, err := Wire(ctx, cfg, db, logger)
	if err != nil {
		return nil, cleanup, err
	}
	return NewHandler(cfg, svcs, logger), cleanup, nil
}

// Wire builds repositories, optional infrastructure and services over db.
// Infrastructure left unconfigured is skipped.
func Wire(ctx context.Context, cfg *config.Config, db *mongo.Database, logger zerolog.Logger) (*service.Services, func() error, error) {
	var closers []func() error
	cleanup := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	// 1. Repositories, with the course catalog behind a read-through cache
	repos := repository.NewRepositories(db)
	if cfg.RedisURL != "" {
		store, closeStore, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, closeStore)
		repos.Courses = cache.NewCourseRepository(repos.Courses, store, cfg.CacheTTL(), logger)
		logger.Info().Dur("ttl", cfg.CacheTTL()).Msg("Course cache enabled")
	}

	// 2. Module content storage
	objects, err := storage.NewS3Store(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to initialize S3: %w", err)
	}
	if objects == nil {
		logger.Warn().Msg("S3 bucket not configured, content uploads disabled")
	}

	// 3. Progress events
	bus := events.NewBus(logger)
	bus.SubscribeAll(events.LogHandler(logger))
	if cfg.EventsEnabled() {
		publisher, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create Pub/Sub publisher: %w", err)
		}
		closers = append(closers, publisher.Close)
		bus.SubscribeAll(pubsub.Forwarder(publisher, cfg.PubSubProgressTopic))
		logger.Info().Str("topic", cfg.PubSubProgressTopic).Msg("Forwarding progress events to Pub/Sub")
	}

	// 4. Services
	grader := grading.NewGrader(grading.WithPartialCredit(cfg.GradingPartialCredit))
	return service.NewServices(repos, objects, bus, grader, logger), cleanup, nil
}

// NewHandler builds the middleware chain and API over already wired services.
func NewHandler(cfg *config.Config, svcs *service.Services, logger zerolog.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	isLocalDev := cfg.PubSubEmulatorHost != ""
	pubsubAuthMiddleware := middleware.PubSubAuthMiddleware(isLocalDev, cfg.DLQEndpointURL, cfg.PubSubPushServiceAccountEmail, logger)

	chiRouter, api := SetupHumaAPI(cfg, authMiddleware, pubsubAuthMiddleware, logger)
	RegisterRoutes(api, Handlers(svcs, logger), logger)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", chiRouter))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	return middleware.RequestID(middleware.LoggerMiddleware(logger)(c.Handler(mux)))
}
