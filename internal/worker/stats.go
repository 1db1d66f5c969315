// Package worker consumes progress events and maintains per-course statistics.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"learntrack/internal/events"
	"learntrack/internal/pubsub"
	"learntrack/internal/repository"

	"github.com/rs/zerolog"
)

// StatsWorker folds progress events into CourseStats. Each event id is applied
// at most once.
type StatsWorker struct {
	stats  repository.StatsRepository
	logger zerolog.Logger
}

func NewStatsWorker(stats repository.StatsRepository, logger zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		stats:  stats,
		logger: logger.With().Str("component", "stats_worker").Logger(),
	}
}

// Handle processes one message payload. Malformed payloads are dropped; a
// returned error requests redelivery.
func (w *StatsWorker) Handle(ctx context.Context, data []byte) error {
	var e events.Event
	if err := json.Unmarshal(data, &e); err != nil {
		w.logger.Error().Err(err).Msg("Dropping undecodable event")
		return nil
	}
	if e.ID == "" || e.CourseID == "" {
		w.logger.Error().Str("event_type", e.Type).Msg("Dropping event without id or course")
		return nil
	}

	first, err := w.stats.MarkProcessed(ctx, e.ID)
	if err != nil {
		return err
	}
	if !first {
		w.logger.Debug().Str("event_id", e.ID).Msg("Skipping duplicate event")
		return nil
	}

	if err := w.apply(ctx, e); err != nil {
		if ferr := w.stats.ForgetProcessed(ctx, e.ID); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return fmt.Errorf("failed to apply %s event %s: %w", e.Type, e.ID, err)
	}
	w.logger.Debug().Str("event_id", e.ID).Str("event_type", e.Type).Str("course_id", e.CourseID).Msg("Applied event")
	return nil
}

func (w *StatsWorker) apply(ctx context.Context, e events.Event) error {
	var d repository.StatsDelta
	switch e.Type {
	case events.EnrollmentCreated:
		d.Enrollments = 1
	case events.CourseCompleted:
		d.Completions = 1
	case events.AttemptGraded:
		d.QuizAttempts = 1
		d.QuizPercentages = e.Percentage
		if e.Passed {
			d.QuizPasses = 1
		}
	case events.CourseDeleted:
		return w.stats.DeleteStats(ctx, e.CourseID)
	default:
		return nil
	}
	return w.stats.IncrementStats(ctx, e.CourseID, d)
}

// Run consumes events from r until ctx is cancelled.
func Run(ctx context.Context, logger zerolog.Logger, r pubsub.Receiver, w *StatsWorker) error {
	logger.Info().Msg("Starting stats worker")
	err := r.Receive(ctx, w.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("Shutting down stats worker")
	return nil
}
