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

// ProgressRepository stores course-level and module-level learner progress.
// Lookups return nil when no record exists.
type ProgressRepository interface {
	GetLearningProgress(ctx context.Context, userID, courseID string) (*model.LearningProgress, error)
	ListLearningProgressByUser(ctx context.Context, userID string) ([]model.LearningProgress, error)
	ListLearningProgressByCourse(ctx context.Context, courseID string) ([]model.LearningProgress, error)
	// CreateLearningProgressIfAbsent inserts p unless the user already has a
	// record for the course. It reports whether p was inserted.
	CreateLearningProgressIfAbsent(ctx context.Context, p *model.LearningProgress) (bool, error)
	SaveLearningProgress(ctx context.Context, p *model.LearningProgress) error
	DeleteLearningProgress(ctx context.Context, userID, courseID string) error
	DeleteLearningProgressByCourse(ctx context.Context, courseID string) error

	GetModuleProgress(ctx context.Context, userID, moduleID string) (*model.ModuleProgress, error)
	ListModuleProgress(ctx context.Context, userID, courseID string) ([]model.ModuleProgress, error)
	SaveModuleProgress(ctx context.Context, p *model.ModuleProgress) error
	DeleteModuleProgressByModule(ctx context.Context, moduleID string) error
	DeleteModuleProgressForUser(ctx context.Context, userID, courseID string) error
	DeleteModuleProgressByCourse(ctx context.Context, courseID string) error
}

type progressRepo struct {
	courses *mongo.Collection
	modules *mongo.Collection
}

func NewProgressRepo(db *mongo.Database) ProgressRepository {
	return &progressRepo{
		courses: db.Collection(learningProgressCollection),
		modules: db.Collection(moduleProgressCollection),
	}
}

func (r *progressRepo) GetLearningProgress(ctx context.Context, userID, courseID string) (*model.LearningProgress, error) {
	p, err := findOne[model.LearningProgress](ctx, r.courses, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to get learning progress: %w", err)
	}
	return p, nil
}

func (r *progressRepo) ListLearningProgressByUser(ctx context.Context, userID string) ([]model.LearningProgress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_accessed_at", Value: -1}})
	out, err := findAll[model.LearningProgress](ctx, r.courses, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning progress: %w", err)
	}
	return out, nil
}

func (r *progressRepo) ListLearningProgressByCourse(ctx context.Context, courseID string) ([]model.LearningProgress, error) {
	out, err := findAll[model.LearningProgress](ctx, r.courses, bson.M{"course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list course learners: %w", err)
	}
	return out, nil
}

func (r *progressRepo) CreateLearningProgressIfAbsent(ctx context.Context, p *model.LearningProgress) (bool, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}

	filter := bson.M{"user_id": p.UserID, "course_id": p.CourseID}
	res, err := r.courses.UpdateOne(ctx, filter, bson.M{"$setOnInsert": p}, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts can both miss the filter; the unique index
		// rejects the loser, which means the record exists.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create learning progress: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

// SaveLearningProgress inserts p when it has no id yet, otherwise replaces it.
func (r *progressRepo) SaveLearningProgress(ctx context.Context, p *model.LearningProgress) error {
	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}
	if p.ID == "" {
		p.ID = newID()
		p.CreatedAt = now
		if _, err := r.courses.InsertOne(ctx, p); err != nil {
			return fmt.Errorf("failed to insert learning progress: %w", err)
		}
		return nil
	}
	if err := replaceByID(ctx, r.courses, p.ID, p); err != nil {
		return fmt.Errorf("failed to save learning progress: %w", err)
	}
	return nil
}

func (r *progressRepo) DeleteLearningProgress(ctx context.Context, userID, courseID string) error {
	if _, err := r.courses.DeleteOne(ctx, bson.M{"user_id": userID, "course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete learning progress: %w", err)
	}
	return nil
}

func (r *progressRepo) DeleteLearningProgressByCourse(ctx context.Context, courseID string) error {
	if _, err := r.courses.DeleteMany(ctx, bson.M{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course learning progress: %w", err)
	}
	return nil
}

func (r *progressRepo) GetModuleProgress(ctx context.Context, userID, moduleID string) (*model.ModuleProgress, error) {
	p, err := findOne[model.ModuleProgress](ctx, r.modules, bson.M{"user_id": userID, "module_id": moduleID})
	if err != nil {
		return nil, fmt.Errorf("failed to get module progress: %w", err)
	}
	return p, nil
}

func (r *progressRepo) ListModuleProgress(ctx context.Context, userID, courseID string) ([]model.ModuleProgress, error) {
	out, err := findAll[model.ModuleProgress](ctx, r.modules, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list module progress: %w", err)
	}
	return out, nil
}

// SaveModuleProgress upserts on (user_id, module_id) when p has no id yet, so
// concurrent first writes for a module land on one record; otherwise it
// replaces the record.
func (r *progressRepo) SaveModuleProgress(ctx context.Context, p *model.ModuleProgress) error {
	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.ID == "" {
		return r.upsertModuleProgress(ctx, p, now)
	}
	if err := replaceByID(ctx, r.modules, p.ID, p); err != nil {
		return fmt.Errorf("failed to save module progress: %w", err)
	}
	return nil
}

func (r *progressRepo) upsertModuleProgress(ctx context.Context, p *model.ModuleProgress, now time.Time) error {
	set := bson.M{
		"course_id":             p.CourseID,
		"status":                p.Status,
		"completion_percentage": p.CompletionPercentage,
		"time_spent_minutes":    p.TimeSpentMinutes,
		"quiz_attempts":         p.QuizAttempts,
		"last_accessed_at":      p.LastAccessedAt,
		"updated_at":            now,
	}
	unset := bson.M{}
	if p.BestQuizScore != nil {
		set["best_quiz_score"] = *p.BestQuizScore
	} else {
		unset["best_quiz_score"] = ""
	}
	if p.CompletedAt != nil {
		set["completed_at"] = *p.CompletedAt
	} else {
		unset["completed_at"] = ""
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": newID(), "created_at": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{"user_id": p.UserID, "module_id": p.ModuleID}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored model.ModuleProgress
	err := r.modules.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an insert race; the record exists now, so this is an update.
		err = r.modules.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert module progress: %w", err)
	}
	p.ID, p.CreatedAt = stored.ID, stored.CreatedAt
	return nil
}

func (r *progressRepo) DeleteModuleProgressByModule(ctx context.Context, moduleID string) error {
	if _, err := r.modules.DeleteMany(ctx, bson.M{"module_id": moduleID}); err != nil {
		return fmt.Errorf("failed to delete module progress: %w", err)
	}
	return nil
}

func (r *progressRepo) DeleteModuleProgressForUser(ctx context.Context, userID, courseID string) error {
	if _, err := r.modules.DeleteMany(ctx, bson.M{"user_id": userID, "course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete module progress: %w", err)
	}
	return nil
}

func (r *progressRepo) DeleteModuleProgressByCourse(ctx context.Context, courseID string) error {
	if _, err := r.modules.DeleteMany(ctx, bson.M{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course module progress: %w", err)
	}
	return nil
}
