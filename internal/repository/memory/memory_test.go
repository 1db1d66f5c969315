package memory

import (
	"context"
	"testing"

	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoursesFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	for _, c := range []model.Course{
		{InstructorID: "u1", Title: "Intro to Go", Category: "programming", Published: true, Tags: []string{"go"}},
		{InstructorID: "u1", Title: "Advanced Go", Category: "programming", Level: model.LevelAdvanced},
		{InstructorID: "u2", Title: "Watercolor basics", Category: "art", Published: true},
	} {
		c := c
		require.NoError(t, repos.Courses.CreateCourse(ctx, &c))
	}

	published, err := repos.Courses.ListCourses(ctx, model.CourseFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "Watercolor basics", published[0].Title, "newest first")

	search, err := repos.Courses.ListCourses(ctx, model.CourseFilter{Search: "GO"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	tagged, err := repos.Courses.ListCourses(ctx, model.CourseFilter{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Intro to Go", tagged[0].Title)

	page, err := repos.Courses.ListCourses(ctx, model.CourseFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Advanced Go", page[0].Title)
}

func TestStoredCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	c := &model.Course{InstructorID: "u1", Title: "Go", Syllabus: []string{"a"}}
	require.NoError(t, repos.Courses.CreateCourse(ctx, c))
	c.Syllabus[0] = "mutated"

	got, err := repos.Courses.GetCourseByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Syllabus)
}

func TestCreateLearningProgressIfAbsent(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	created, err := repos.Progress.CreateLearningProgressIfAbsent(ctx, &model.LearningProgress{UserID: "u", CourseID: "c"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repos.Progress.CreateLearningProgressIfAbsent(ctx, &model.LearningProgress{UserID: "u", CourseID: "c"})
	require.NoError(t, err)
	assert.False(t, created)

	all, err := repos.Progress.ListLearningProgressByUser(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMissingDocumentsReturnNil(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	c, err := repos.Courses.GetCourseByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, c)

	p, err := repos.Progress.GetModuleProgress(ctx, "u", "m")
	require.NoError(t, err)
	assert.Nil(t, p)

	s, err := repos.Stats.GetStats(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestStatsAndProcessedEvents(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	require.NoError(t, repos.Stats.IncrementStats(ctx, "c", repository.StatsDelta{QuizAttempts: 1, QuizPercentages: 80}))
	require.NoError(t, repos.Stats.IncrementStats(ctx, "c", repository.StatsDelta{QuizAttempts: 1, QuizPasses: 1, QuizPercentages: 60}))

	s, err := repos.Stats.GetStats(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.QuizAttempts)
	assert.InDelta(t, 70, s.AverageQuizPercentage(), 0.001)

	first, err := repos.Stats.MarkProcessed(ctx, "evt-1")
	require.NoError(t, err)
	again, err := repos.Stats.MarkProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, again)
}

func TestAttemptNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	require.NoError(t, repos.Attempts.CreateAttempt(ctx, &model.QuizAttempt{QuizID: "q", UserID: "u", AttemptNumber: 1}))
	err := repos.Attempts.CreateAttempt(ctx, &model.QuizAttempt{QuizID: "q", UserID: "u", AttemptNumber: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repos.Attempts.CreateAttempt(ctx, &model.QuizAttempt{QuizID: "q", UserID: "other", AttemptNumber: 1}))
	n, err := repos.Attempts.CountAttempts(ctx, "q", "u")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFirstModuleProgressWritesShareARecord(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	first := &model.ModuleProgress{UserID: "u", CourseID: "c", ModuleID: "m", CompletionPercentage: 40}
	second := &model.ModuleProgress{UserID: "u", CourseID: "c", ModuleID: "m", CompletionPercentage: 100}
	require.NoError(t, repos.Progress.SaveModuleProgress(ctx, first))
	require.NoError(t, repos.Progress.SaveModuleProgress(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repos.Progress.ListModuleProgress(ctx, "u", "c")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 100.0, all[0].CompletionPercentage)
}
