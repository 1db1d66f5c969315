package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"learntrack/internal/events"
	"learntrack/internal/grading"
	"learntrack/internal/model"
	"learntrack/internal/repository"
	"learntrack/internal/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	course := &model.Course{ID: "c", Syllabus: []string{"m1", "m2", "m3"}}
	modules := []model.Module{
		{ID: "m1", Required: true},
		{ID: "m2", Required: true},
		{ID: "m3", Required: false},
	}

	tests := []struct {
		name       string
		mps        []model.ModuleProgress
		wantPct    float64
		wantStatus string
		wantDone   []string
		wantTime   int
	}{
		{
			name:       "no activity",
			wantStatus: model.StatusNotStarted,
			wantDone:   []string{},
		},
		{
			name: "optional module does not count",
			mps: []model.ModuleProgress{
				{ModuleID: "m3", Status: model.StatusCompleted, CompletionPercentage: 100, TimeSpentMinutes: 5},
			},
			wantStatus: model.StatusInProgress,
			wantDone:   []string{"m3"},
			wantTime:   5,
		},
		{
			name: "one of two required",
			mps: []model.ModuleProgress{
				{ModuleID: "m1", Status: model.StatusCompleted, CompletionPercentage: 100, TimeSpentMinutes: 10},
				{ModuleID: "m2", Status: model.StatusInProgress, CompletionPercentage: 40, TimeSpentMinutes: 3},
			},
			wantPct:    50,
			wantStatus: model.StatusInProgress,
			wantDone:   []string{"m1"},
			wantTime:   13,
		},
		{
			name: "all required done",
			mps: []model.ModuleProgress{
				{ModuleID: "m2", Status: model.StatusCompleted, CompletionPercentage: 100},
				{ModuleID: "m1", Status: model.StatusCompleted, CompletionPercentage: 100},
			},
			wantPct:    100,
			wantStatus: model.StatusCompleted,
			wantDone:   []string{"m1", "m2"},
		},
		{
			name: "progress on removed module is ignored",
			mps: []model.ModuleProgress{
				{ModuleID: "gone", Status: model.StatusCompleted, CompletionPercentage: 100, TimeSpentMinutes: 30},
			},
			wantStatus: model.StatusNotStarted,
			wantDone:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := &model.LearningProgress{Status: model.StatusNotStarted}
			done := reconcile(lp, course, modules, tt.mps, now)
			assert.Equal(t, tt.wantPct, lp.CompletionPercentage)
			assert.Equal(t, tt.wantStatus, lp.Status)
			assert.Equal(t, tt.wantDone, lp.CompletedModules)
			assert.Equal(t, tt.wantTime, lp.TimeSpentMinutes)
			assert.Equal(t, tt.wantStatus == model.StatusCompleted, done)
			if tt.wantStatus == model.StatusCompleted {
				require.NotNil(t, lp.CompletedAt)
				assert.Equal(t, now, *lp.CompletedAt)
			} else {
				assert.Nil(t, lp.CompletedAt)
			}
		})
	}
}

func TestReconcileRoundsToTwoDecimals(t *testing.T) {
	course := &model.Course{ID: "c", Syllabus: []string{"a", "b", "c"}}
	modules := []model.Module{{ID: "a", Required: true}, {ID: "b", Required: true}, {ID: "c", Required: true}}
	lp := &model.LearningProgress{}
	reconcile(lp, course, modules, []model.ModuleProgress{{ModuleID: "a", Status: model.StatusCompleted}}, time.Now())
	assert.Equal(t, 33.33, lp.CompletionPercentage)
}

func TestReconcileKeepsFirstCompletionTime(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	course := &model.Course{ID: "c", Syllabus: []string{"a"}}
	modules := []model.Module{{ID: "a", Required: true}}
	lp := &model.LearningProgress{Status: model.StatusCompleted, CompletedAt: &first}

	done := reconcile(lp, course, modules, []model.ModuleProgress{{ModuleID: "a", Status: model.StatusCompleted}}, first.Add(time.Hour))
	assert.False(t, done)
	assert.Equal(t, first, *lp.CompletedAt)
}

func TestApplyModuleUpdateNeverRegressesCompleted(t *testing.T) {
	now := time.Now()
	mp := &model.ModuleProgress{Status: model.StatusNotStarted}

	full, half := 100.0, 50.0
	assert.True(t, applyModuleUpdate(mp, &full, 4, false, now))
	assert.False(t, applyModuleUpdate(mp, &half, 1, false, now))
	assert.Equal(t, 100.0, mp.CompletionPercentage)
	assert.Equal(t, model.StatusCompleted, mp.Status)
	assert.Equal(t, 5, mp.TimeSpentMinutes)

	applyModuleUpdate(mp, &half, 0, true, now)
	assert.Equal(t, 50.0, mp.CompletionPercentage)
	assert.Equal(t, model.StatusInProgress, mp.Status)
	assert.Nil(t, mp.CompletedAt)
}

func TestEnrollIsIdempotent(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	ctx := context.Background()

	lp, created, err := f.progress.Enroll(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.StatusNotStarted, lp.Status)

	again, created, err := f.progress.Enroll(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, lp.ID, again.ID)
	assert.Equal(t, 1, f.events.count(events.EnrollmentCreated))
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, false)
	ctx := context.Background()

	_, _, err := f.progress.Enroll(ctx, learner, c.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, _, err = f.progress.Enroll(ctx, instructor, c.ID)
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestUpdateModuleProgressSyncsCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m1 := f.textModule(t, c.ID, "One", true)
	m2 := f.textModule(t, c.ID, "Two", true)
	ctx := context.Background()

	pct := 60.0
	res, err := f.progress.UpdateModuleProgress(ctx, learner, m1.ID, ModuleProgressUpdate{CompletionPercentage: &pct, TimeSpentMinutes: 7})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, res.Module.Status)
	assert.Equal(t, model.StatusInProgress, res.Course.Status)
	assert.Equal(t, 0.0, res.Course.CompletionPercentage)
	assert.Equal(t, m1.ID, res.Course.CurrentModuleID)
	assert.Equal(t, 7, res.Course.TimeSpentMinutes)
	assert.NotNil(t, res.Course.StartedAt)
	assert.Equal(t, 1, f.events.count(events.EnrollmentCreated), "auto-enrolled")

	res, err = f.progress.CompleteModule(ctx, learner, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Course.CompletionPercentage)
	assert.Equal(t, []string{m1.ID}, res.Course.CompletedModules)

	res, err = f.progress.CompleteModule(ctx, learner, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Course.CompletionPercentage)
	assert.Equal(t, model.StatusCompleted, res.Course.Status)
	assert.NotNil(t, res.Course.CompletedAt)
	assert.Equal(t, 2, f.events.count(events.ModuleCompleted))
	assert.Equal(t, 1, f.events.count(events.CourseCompleted))

	_, err = f.progress.CompleteModule(ctx, learner, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.events.count(events.CourseCompleted), "no second completion event")
}

func TestUpdateModuleProgressRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m := f.textModule(t, c.ID, "One", true)

	bad := 120.0
	_, err := f.progress.UpdateModuleProgress(context.Background(), learner, m.ID, ModuleProgressUpdate{CompletionPercentage: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.progress.UpdateModuleProgress(context.Background(), learner, m.ID, ModuleProgressUpdate{TimeSpentMinutes: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddingModuleReopensCompletedCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m1 := f.textModule(t, c.ID, "One", true)
	ctx := context.Background()

	res, err := f.progress.CompleteModule(ctx, learner, m1.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, res.Course.Status)

	f.textModule(t, c.ID, "Two", true)

	cp, err := f.progress.GetCourseProgress(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, cp.Progress.Status)
	assert.Equal(t, 50.0, cp.Progress.CompletionPercentage)
	assert.Nil(t, cp.Progress.CompletedAt)
}

func TestResetCourseProgress(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	m := f.textModule(t, c.ID, "One", true)
	ctx := context.Background()

	_, err := f.progress.CompleteModule(ctx, learner, m.ID)
	require.NoError(t, err)
	require.NoError(t, f.progress.ResetCourseProgress(ctx, learner, c.ID))

	_, err = f.progress.GetCourseProgress(ctx, learner, c.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
	mps, err := f.repos.Progress.ListModuleProgress(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.Empty(t, mps)
}

func TestSyncCourseProgressRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)

	_, err := f.progress.SyncCourseProgress(context.Background(), learner, c.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

// slowModuleReads lets concurrent callers all observe a missing record.
type slowModuleReads struct {
	repository.ProgressRepository
}

func (s slowModuleReads) GetModuleProgress(ctx context.Context, userID, moduleID string) (*model.ModuleProgress, error) {
	p, err := s.ProgressRepository.GetModuleProgress(ctx, userID, moduleID)
	time.Sleep(20 * time.Millisecond)
	return p, err
}

func TestConcurrentFirstTouchKeepsOneModuleRecord(t *testing.T) {
	repos := memory.NewRepositories()
	repos.Progress = slowModuleReads{repos.Progress}
	svcs := NewServices(repos, nil, events.Discard{}, grading.NewGrader(), zerolog.Nop())
	ctx := context.Background()

	yes := true
	c, err := svcs.Courses.CreateCourse(ctx, instructor, &model.Course{Title: "Concurrency"})
	require.NoError(t, err)
	m, err := svcs.Modules.CreateModule(ctx, instructor, c.ID, &model.Module{
		Title: "Channels", Type: model.ModuleText, Content: model.ModuleContent{Body: "Send and receive."}, Required: true,
	})
	require.NoError(t, err)
	_, err = svcs.Courses.UpdateCourse(ctx, instructor, c.ID, CoursePatch{Published: &yes})
	require.NoError(t, err)

	pct := 40.0
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svcs.Progress.UpdateModuleProgress(ctx, learner, m.ID, ModuleProgressUpdate{CompletionPercentage: &pct, TimeSpentMinutes: 5})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svcs.Progress.CompleteModule(ctx, learner, m.ID)
	}()
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	records, err := repos.Progress.ListModuleProgress(ctx, learner, c.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
