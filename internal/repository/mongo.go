package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	coursesCollection          = "courses"
	modulesCollection          = "modules"
	quizzesCollection          = "quizzes"
	attemptsCollection         = "quiz_attempts"
	learningProgressCollection = "learning_progress"
	moduleProgressCollection   = "module_progress"
	courseStatsCollection      = "course_stats"
	processedEventsCollection  = "processed_events"
	deadLetterCollection       = "dead_letter_messages"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// Connect returns the process-wide Mongo client, dialing and pinging it on
// first use. Later calls return the same client regardless of uri.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOnce.Do(func() {
		opts := options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(25).
			SetMaxConnIdleTime(5 * time.Minute)
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			clientErr = fmt.Errorf("failed to connect to mongo: %w", err)
			return
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(ctx)
			clientErr = fmt.Errorf("failed to ping mongo: %w", err)
			return
		}
		client = c
	})
	return client, clientErr
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// indexes make progress upserts and enrollment idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		coursesCollection: {
			{Keys: bson.D{{Key: "instructor_id", Value: 1}}},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		modulesCollection: {
			{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "order", Value: 1}}},
		},
		quizzesCollection: {
			{Keys: bson.D{{Key: "module_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "course_id", Value: 1}}},
		},
		attemptsCollection: {
			{Keys: bson.D{{Key: "quiz_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
			{Keys: bson.D{{Key: "quiz_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "attempt_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
			{Keys: bson.D{{Key: "course_id", Value: 1}}},
		},
		learningProgressCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "course_id", Value: 1}}},
		},
		moduleProgressCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "module_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}},
			{Keys: bson.D{{Key: "module_id", Value: 1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

var errNotMatched = errors.New("document not found")

// ErrDuplicate reports a write rejected by a unique index.
var ErrDuplicate = errors.New("duplicate key")

// replaceByID overwrites a whole document so cleared optional fields are
// dropped from storage too.
func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errNotMatched
	}
	return nil
}

// findOne decodes a single document, mapping "no documents" to (nil, nil).
func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var out T
	err := col.FindOne(ctx, filter).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// findAll decodes every document matched, returning an empty slice (never nil).
func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Repositories bundles the Mongo-backed repositories of one database.
type Repositories struct {
	Courses  CourseRepository
	Modules  ModuleRepository
	Quizzes  QuizRepository
	Attempts AttemptRepository
	Progress ProgressRepository
	Stats    StatsRepository
	DLQ      DLQRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Courses:  NewCourseRepo(db),
		Modules:  NewModuleRepo(db),
		Quizzes:  NewQuizRepo(db),
		Attempts: NewAttemptRepo(db),
		Progress: NewProgressRepo(db),
		Stats:    NewStatsRepo(db),
		DLQ:      NewDLQRepository(db),
	}
}
