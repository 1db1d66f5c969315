package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"learntrack/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID returns nil when the course does not exist
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	col *mongo.Collection
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *mongo.Database) CourseRepository {
	return &courseRepo{col: db.Collection(coursesCollection)}
}

// CreateCourse inserts a new course, filling in its id and timestamps
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Syllabus == nil {
		c.Syllabus = []string{}
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	c, err := findOne[model.Course](ctx, r.col, bson.M{"_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// ListCourses returns courses matching f, newest first
func (r *courseRepo) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	filter := bson.M{}
	if f.InstructorID != "" {
		filter["instructor_id"] = f.InstructorID
	}
	if f.PublishedOnly {
		filter["published"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Offset))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	courses, err := findAll[model.Course](ctx, r.col, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse replaces the stored course and bumps updated_at
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	c.UpdatedAt = time.Now().UTC()
	if err := replaceByID(ctx, r.col, c.ID, c); err != nil {
		return fmt.Errorf("failed to update course %s: %w", c.ID, err)
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": courseID}); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}
