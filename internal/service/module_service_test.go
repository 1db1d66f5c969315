package service

import (
	"context"
	"testing"

	"learntrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateModuleValidatesContent(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	ctx := context.Background()

	_, err := f.modules.CreateModule(ctx, instructor, c.ID, &model.Module{Title: "Empty", Type: model.ModuleText})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.modules.CreateModule(ctx, instructor, c.ID, &model.Module{Title: "Odd", Type: "podcast"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.modules.CreateModule(ctx, learner, c.ID, &model.Module{Title: "Sneaky", Type: model.ModuleText, Content: model.ModuleContent{Body: "x"}})
	assert.ErrorIs(t, err, ErrForbidden)

	m, err := f.modules.CreateModule(ctx, instructor, c.ID, &model.Module{
		Title:   "Lecture",
		Type:    model.ModuleVideo,
		Content: model.ModuleContent{URL: "https://cdn.example.com/l1.mp4", DurationMinutes: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Order)

	course, err := f.courses.GetCourse(ctx, instructor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, course.Syllabus)
}

func TestUpdateModuleTypeIsImmutable(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m := f.textModule(t, c.ID, "Reading", true)
	ctx := context.Background()

	video := model.ModuleVideo
	_, err := f.modules.UpdateModule(ctx, instructor, m.ID, ModulePatch{Type: &video})
	assert.ErrorIs(t, err, ErrInvalidInput)

	title := "Reading, part 1"
	updated, err := f.modules.UpdateModule(ctx, instructor, m.ID, ModulePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, model.ModuleText, updated.Type)
}

func TestMakingModuleOptionalResyncsLearners(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	a := f.textModule(t, c.ID, "A", true)
	b := f.textModule(t, c.ID, "B", true)
	ctx := context.Background()

	res, err := f.progress.CompleteModule(ctx, learner, a.ID)
	require.NoError(t, err)
	require.Equal(t, 50.0, res.Course.CompletionPercentage)

	no := false
	_, err = f.modules.UpdateModule(ctx, instructor, b.ID, ModulePatch{Required: &no})
	require.NoError(t, err)

	cp, err := f.progress.GetCourseProgress(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cp.Progress.CompletionPercentage)
	assert.Equal(t, model.StatusCompleted, cp.Progress.Status)
}

func TestDeleteModuleResyncsAndRenumbers(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	a := f.textModule(t, c.ID, "A", true)
	b := f.textModule(t, c.ID, "B", true)
	d := f.textModule(t, c.ID, "C", true)
	ctx := context.Background()

	_, err := f.progress.CompleteModule(ctx, learner, a.ID)
	require.NoError(t, err)
	_, err = f.progress.CompleteModule(ctx, learner, d.ID)
	require.NoError(t, err)

	require.NoError(t, f.modules.DeleteModule(ctx, instructor, b.ID))

	cp, err := f.progress.GetCourseProgress(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cp.Progress.CompletionPercentage)
	assert.Equal(t, []string{a.ID, d.ID}, cp.Progress.CompletedModules)

	modules, err := f.modules.ListModules(ctx, learner, c.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, 1, modules[1].Order)
	assert.Contains(t, f.objects.deleted, "modules/"+b.ID+"/")

	_, err = f.modules.GetModule(ctx, learner, b.ID)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestContentURLs(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m := f.textModule(t, c.ID, "Slides", true)
	ctx := context.Background()

	_, err := f.modules.GetContentURL(ctx, learner, m.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = f.modules.CreateContentUploadURL(ctx, instructor, m.ID, "../", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidInput)

	ticket, err := f.modules.CreateContentUploadURL(ctx, instructor, m.ID, "../../etc/deck.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "modules/"+m.ID+"/deck.pdf", ticket.StorageKey)
	assert.Contains(t, ticket.URL, ticket.StorageKey)

	url, err := f.modules.GetContentURL(ctx, learner, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/get/modules/"+m.ID+"/deck.pdf", url)

	_, err = f.modules.CreateContentUploadURL(ctx, learner, m.ID, "x.pdf", "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestQuizModulesRejectUploads(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, false)
	m, _ := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	_, err := f.modules.CreateContentUploadURL(ctx, instructor, m.ID, "answers.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.objects.puts)

	title := "Checkpoint"
	updated, err := f.modules.UpdateModule(ctx, instructor, m.ID, ModulePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Empty(t, updated.Content.StorageKey)
}

func TestContentURLsWithoutStorage(t *testing.T) {
	f := newFixture(t)
	modules := NewModuleService(f.repos, f.progress, nil, zerolog.Nop())
	c := f.course(t, true)
	m := f.textModule(t, c.ID, "Slides", true)

	_, err := modules.CreateContentUploadURL(context.Background(), instructor, m.ID, "a.pdf", "")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = modules.GetContentURL(context.Background(), learner, m.ID)
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
