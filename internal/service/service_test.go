package service

import (
	"context"
	"sync"
	"testing"

	"learntrack/internal/events"
	"learntrack/internal/grading"
	"learntrack/internal/model"
	"learntrack/internal/repository"
	"learntrack/internal/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	instructor = "instructor-1"
	learner    = "learner-1"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeObjects struct {
	mu      sync.Mutex
	puts    []string
	deleted []string
	copies  map[string]string
}

func (f *fakeObjects) PresignPut(_ context.Context, key, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	return "https://s3.test/put/" + key, nil
}

func (f *fakeObjects) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.test/get/" + key, nil
}

func (f *fakeObjects) Copy(_ context.Context, src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copies == nil {
		f.copies = map[string]string{}
	}
	f.copies[dst] = src
	return nil
}

func (f *fakeObjects) DeletePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, prefix)
	return nil
}

type fixture struct {
	repos    *repository.Repositories
	events   *recordedEvents
	objects  *fakeObjects
	courses  CourseService
	modules  ModuleService
	quizzes  QuizService
	progress ProgressService
	learning LearningService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:   memory.NewRepositories(),
		events:  &recordedEvents{},
		objects: &fakeObjects{},
	}
	svcs := NewServices(f.repos, f.objects, f.events, grading.NewGrader(), zerolog.Nop())
	f.progress = svcs.Progress
	f.courses = svcs.Courses
	f.modules = svcs.Modules
	f.quizzes = svcs.Quizzes
	f.learning = svcs.Learning
	return f
}

func (f *fixture) course(t *testing.T, published bool) *model.Course {
	t.Helper()
	ctx := context.Background()
	c, err := f.courses.CreateCourse(ctx, instructor, &model.Course{Title: "Go in Practice", Category: "programming"})
	require.NoError(t, err)
	if published {
		yes := true
		c, err = f.courses.UpdateCourse(ctx, instructor, c.ID, CoursePatch{Published: &yes})
		require.NoError(t, err)
	}
	return c
}

func (f *fixture) textModule(t *testing.T, courseID, title string, required bool) *model.Module {
	t.Helper()
	m, err := f.modules.CreateModule(context.Background(), instructor, courseID, &model.Module{
		Title:    title,
		Type:     model.ModuleText,
		Content:  model.ModuleContent{Body: "Read this."},
		Required: required,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) quizModule(t *testing.T, courseID string, maxAttempts int) (*model.Module, *model.Quiz) {
	t.Helper()
	ctx := context.Background()
	m, err := f.modules.CreateModule(ctx, instructor, courseID, &model.Module{
		Title:    "Checkpoint",
		Type:     model.ModuleQuiz,
		Required: true,
	})
	require.NoError(t, err)
	q, err := f.quizzes.CreateQuiz(ctx, instructor, m.ID, &model.Quiz{
		Title:        "Checkpoint quiz",
		PassingScore: 50,
		MaxAttempts:  maxAttempts,
		Questions: []model.Question{
			{ID: "q1", Prompt: "Is Go compiled?", Type: model.QuestionTrueFalse, Options: []string{"true", "false"}, CorrectAnswers: []string{"true"}, Points: 1},
			{ID: "q2", Prompt: "Keyword for goroutines", Type: model.QuestionShortAnswer, CorrectAnswers: []string{"go"}, Points: 1},
		},
	})
	require.NoError(t, err)
	return m, q
}
