package repository

import (
	"context"
	"fmt"
	"time"

	"learntrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsDelta is added to a course's counters.
type StatsDelta struct {
	Enrollments     int64
	Completions     int64
	QuizAttempts    int64
	QuizPasses      int64
	QuizPercentages float64
}

type StatsRepository interface {
	IncrementStats(ctx context.Context, courseID string, d StatsDelta) error
	GetStats(ctx context.Context, courseID string) (*model.CourseStats, error)
	DeleteStats(ctx context.Context, courseID string) error
	// MarkProcessed records an event id. It returns false when the id was
	// already recorded.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	// ForgetProcessed removes a mark so the event can be handled again.
	ForgetProcessed(ctx context.Context, eventID string) error
}

type statsRepo struct {
	stats     *mongo.Collection
	processed *mongo.Collection
}

func NewStatsRepo(db *mongo.Database) StatsRepository {
	return &statsRepo{
		stats:     db.Collection(courseStatsCollection),
		processed: db.Collection(processedEventsCollection),
	}
}

func (r *statsRepo) IncrementStats(ctx context.Context, courseID string, d StatsDelta) error {
	update := bson.M{
		"$inc": bson.M{
			"enrollments":           d.Enrollments,
			"completions":           d.Completions,
			"quiz_attempts":         d.QuizAttempts,
			"quiz_passes":           d.QuizPasses,
			"total_quiz_percentage": d.QuizPercentages,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.stats.UpdateOne(ctx, bson.M{"_id": courseID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to increment course stats: %w", err)
	}
	return nil
}

func (r *statsRepo) GetStats(ctx context.Context, courseID string) (*model.CourseStats, error) {
	s, err := findOne[model.CourseStats](ctx, r.stats, bson.M{"_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to get course stats: %w", err)
	}
	return s, nil
}

func (r *statsRepo) DeleteStats(ctx context.Context, courseID string) error {
	if _, err := r.stats.DeleteOne(ctx, bson.M{"_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course stats: %w", err)
	}
	return nil
}

func (r *statsRepo) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := r.processed.InsertOne(ctx, bson.M{"_id": eventID, "processed_at": time.Now().UTC()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record processed event: %w", err)
	}
	return true, nil
}

func (r *statsRepo) ForgetProcessed(ctx context.Context, eventID string) error {
	if _, err := r.processed.DeleteOne(ctx, bson.M{"_id": eventID}); err != nil {
		return fmt.Errorf("failed to forget processed event: %w", err)
	}
	return nil
}
