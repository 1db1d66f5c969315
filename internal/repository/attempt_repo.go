package repository

import (
	"context"
	"fmt"

	"learntrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository interface {
	// CreateAttempt returns ErrDuplicate when the user already has an attempt
	// with the same number at the quiz
	CreateAttempt(ctx context.Context, a *model.QuizAttempt) error
	GetAttemptByID(ctx context.Context, attemptID string) (*model.QuizAttempt, error)
	// ListAttempts returns a user's attempts at a quiz, newest first
	ListAttempts(ctx context.Context, quizID, userID string) ([]model.QuizAttempt, error)
	CountAttempts(ctx context.Context, quizID, userID string) (int, error)
	ListRecentAttemptsByUser(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error)
	DeleteAttemptsByQuizID(ctx context.Context, quizID string) error
	DeleteAttemptsByCourseID(ctx context.Context, courseID string) error
}

type attemptRepo struct {
	col *mongo.Collection
}

func NewAttemptRepo(db *mongo.Database) AttemptRepository {
	return &attemptRepo{col: db.Collection(attemptsCollection)}
}

func (r *attemptRepo) CreateAttempt(ctx context.Context, a *model.QuizAttempt) error {
	a.ID = newID()
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("attempt %d at quiz %s: %w", a.AttemptNumber, a.QuizID, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) GetAttemptByID(ctx context.Context, attemptID string) (*model.QuizAttempt, error) {
	a, err := findOne[model.QuizAttempt](ctx, r.col, bson.M{"_id": attemptID})
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz attempt: %w", err)
	}
	return a, nil
}

func (r *attemptRepo) ListAttempts(ctx context.Context, quizID, userID string) ([]model.QuizAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	attempts, err := findAll[model.QuizAttempt](ctx, r.col, bson.M{"quiz_id": quizID, "user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	return attempts, nil
}

func (r *attemptRepo) CountAttempts(ctx context.Context, quizID, userID string) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"quiz_id": quizID, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}
	return int(n), nil
}

func (r *attemptRepo) ListRecentAttemptsByUser(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetLimit(int64(limit))
	attempts, err := findAll[model.QuizAttempt](ctx, r.col, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attempts: %w", err)
	}
	return attempts, nil
}

func (r *attemptRepo) DeleteAttemptsByQuizID(ctx context.Context, quizID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"quiz_id": quizID}); err != nil {
		return fmt.Errorf("failed to delete quiz attempts: %w", err)
	}
	return nil
}

func (r *attemptRepo) DeleteAttemptsByCourseID(ctx context.Context, courseID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course attempts: %w", err)
	}
	return nil
}
