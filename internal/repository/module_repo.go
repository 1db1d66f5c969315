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

type ModuleRepository interface {
	CreateModule(ctx context.Context, m *model.Module) error
	GetModuleByID(ctx context.Context, moduleID string) (*model.Module, error)
	// GetModulesByCourseID returns modules ordered by their syllabus position
	GetModulesByCourseID(ctx context.Context, courseID string) ([]model.Module, error)
	UpdateModule(ctx context.Context, m *model.Module) error
	DeleteModule(ctx context.Context, moduleID string) error
	DeleteModulesByCourseID(ctx context.Context, courseID string) error
}

type moduleRepo struct {
	col *mongo.Collection
}

func NewModuleRepo(db *mongo.Database) ModuleRepository {
	return &moduleRepo{col: db.Collection(modulesCollection)}
}

func (r *moduleRepo) CreateModule(ctx context.Context, m *model.Module) error {
	now := time.Now().UTC()
	m.ID = newID()
	m.CreatedAt, m.UpdatedAt = now, now
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert module: %w", err)
	}
	return nil
}

func (r *moduleRepo) GetModuleByID(ctx context.Context, moduleID string) (*model.Module, error) {
	m, err := findOne[model.Module](ctx, r.col, bson.M{"_id": moduleID})
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return m, nil
}

func (r *moduleRepo) GetModulesByCourseID(ctx context.Context, courseID string) ([]model.Module, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	modules, err := findAll[model.Module](ctx, r.col, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules by course: %w", err)
	}
	return modules, nil
}

func (r *moduleRepo) UpdateModule(ctx context.Context, m *model.Module) error {
	m.UpdatedAt = time.Now().UTC()
	if err := replaceByID(ctx, r.col, m.ID, m); err != nil {
		return fmt.Errorf("failed to update module %s: %w", m.ID, err)
	}
	return nil
}

func (r *moduleRepo) DeleteModule(ctx context.Context, moduleID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": moduleID}); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	return nil
}

func (r *moduleRepo) DeleteModulesByCourseID(ctx context.Context, courseID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course modules: %w", err)
	}
	return nil
}
