package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"learntrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepositories connects to MONGO_TEST_URI and returns repositories on a
// throwaway database that is dropped when the test ends.
func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := Connect(ctx, uri)
	require.NoError(t, err)
	db := c.Database("learntrack_test_" + newID())
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	return NewRepositories(db)
}

func TestMongoCourseRoundTrip(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	c := &model.Course{InstructorID: "u1", Title: "Distributed Systems", Level: model.LevelAdvanced, Published: true, Tags: []string{"systems"}}
	require.NoError(t, repos.Courses.CreateCourse(ctx, c))
	require.NotEmpty(t, c.ID)

	c.Title = "Distributed Systems II"
	require.NoError(t, repos.Courses.UpdateCourse(ctx, c))

	got, err := repos.Courses.GetCourseByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Distributed Systems II", got.Title)

	list, err := repos.Courses.ListCourses(ctx, model.CourseFilter{Search: "systems ii", PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repos.Courses.DeleteCourse(ctx, c.ID))
	got, err = repos.Courses.GetCourseByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMongoEnrollmentIsIdempotent(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	created, err := repos.Progress.CreateLearningProgressIfAbsent(ctx, &model.LearningProgress{UserID: "u", CourseID: "c", Status: model.StatusNotStarted})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repos.Progress.CreateLearningProgressIfAbsent(ctx, &model.LearningProgress{UserID: "u", CourseID: "c", Status: model.StatusNotStarted})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMongoClearedFieldsAreRemoved(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	m := &model.Module{CourseID: "c", Title: "Checkpoint", Type: model.ModuleQuiz, QuizID: "q1"}
	require.NoError(t, repos.Modules.CreateModule(ctx, m))

	m.QuizID = ""
	require.NoError(t, repos.Modules.UpdateModule(ctx, m))

	got, err := repos.Modules.GetModuleByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.QuizID)
}

func TestMongoMarkProcessed(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	first, err := repos.Stats.MarkProcessed(ctx, "evt")
	require.NoError(t, err)
	second, err := repos.Stats.MarkProcessed(ctx, "evt")
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)
}

func TestMongoAttemptNumbersAreUnique(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Attempts.CreateAttempt(ctx, &model.QuizAttempt{QuizID: "q", UserID: "u", AttemptNumber: 1, SubmittedAt: time.Now()}))
	err := repos.Attempts.CreateAttempt(ctx, &model.QuizAttempt{QuizID: "q", UserID: "u", AttemptNumber: 1, SubmittedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMongoFirstModuleProgressWritesShareARecord(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	first := &model.ModuleProgress{UserID: "u", CourseID: "c", ModuleID: "m", Status: model.StatusInProgress, CompletionPercentage: 40}
	second := &model.ModuleProgress{UserID: "u", CourseID: "c", ModuleID: "m", Status: model.StatusCompleted, CompletionPercentage: 100}
	require.NoError(t, repos.Progress.SaveModuleProgress(ctx, first))
	require.NoError(t, repos.Progress.SaveModuleProgress(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repos.Progress.ListModuleProgress(ctx, "u", "c")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 100.0, all[0].CompletionPercentage)
}
