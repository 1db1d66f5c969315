package repository

import (
	"context"
	"fmt"
	"time"

	"learntrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuizRepository interface {
	CreateQuiz(ctx context.Context, q *model.Quiz) error
	GetQuizByID(ctx context.Context, quizID string) (*model.Quiz, error)
	GetQuizByModuleID(ctx context.Context, moduleID string) (*model.Quiz, error)
	UpdateQuiz(ctx context.Context, q *model.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	DeleteQuizzesByCourseID(ctx context.Context, courseID string) error
}

type quizRepo struct {
	col *mongo.Collection
}

func NewQuizRepo(db *mongo.Database) QuizRepository {
	return &quizRepo{col: db.Collection(quizzesCollection)}
}

func (r *quizRepo) CreateQuiz(ctx context.Context, q *model.Quiz) error {
	now := time.Now().UTC()
	q.ID = newID()
	q.CreatedAt, q.UpdatedAt = now, now
	if _, err := r.col.InsertOne(ctx, q); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("module %s already has a quiz: %w", q.ModuleID, err)
		}
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

func (r *quizRepo) GetQuizByID(ctx context.Context, quizID string) (*model.Quiz, error) {
	q, err := findOne[model.Quiz](ctx, r.col, bson.M{"_id": quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return q, nil
}

func (r *quizRepo) GetQuizByModuleID(ctx context.Context, moduleID string) (*model.Quiz, error) {
	q, err := findOne[model.Quiz](ctx, r.col, bson.M{"module_id": moduleID})
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by module: %w", err)
	}
	return q, nil
}

func (r *quizRepo) UpdateQuiz(ctx context.Context, q *model.Quiz) error {
	q.UpdatedAt = time.Now().UTC()
	if err := replaceByID(ctx, r.col, q.ID, q); err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", q.ID, err)
	}
	return nil
}

func (r *quizRepo) DeleteQuiz(ctx context.Context, quizID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": quizID}); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	return nil
}

func (r *quizRepo) DeleteQuizzesByCourseID(ctx context.Context, courseID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course quizzes: %w", err)
	}
	return nil
}
