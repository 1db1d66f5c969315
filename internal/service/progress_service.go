package service

import (
	"context"
	"errors"
	"time"

	"learntrack/internal/events"
	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// resyncConcurrency bounds parallel learner recomputation after syllabus changes.
const resyncConcurrency = 8

// ModuleProgressUpdate is a learner-reported change to one module.
type ModuleProgressUpdate struct {
	CompletionPercentage *float64
	TimeSpentMinutes     int
	Reset                bool
}

// CourseProgress is a learner's course record with its per-module detail.
type CourseProgress struct {
	Progress *model.LearningProgress
	Modules  []model.ModuleProgress
}

// ProgressResult is returned by operations that touch one module.
type ProgressResult struct {
	Module *model.ModuleProgress
	Course *model.LearningProgress
}

// ProgressService tracks enrollment and completion.
type ProgressService interface {
	// Enroll creates the learner's progress record for a published course. It
	// reports whether a new record was created.
	Enroll(ctx context.Context, userID, courseID string) (*model.LearningProgress, bool, error)
	ListProgress(ctx context.Context, userID string) ([]model.LearningProgress, error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*CourseProgress, error)
	UpdateModuleProgress(ctx context.Context, userID, moduleID string, u ModuleProgressUpdate) (*ProgressResult, error)
	CompleteModule(ctx context.Context, userID, moduleID string) (*ProgressResult, error)
	// RecordQuizAttempt folds a graded attempt into the learner's module progress.
	RecordQuizAttempt(ctx context.Context, attempt *model.QuizAttempt) (*ProgressResult, error)
	SyncCourseProgress(ctx context.Context, userID, courseID string) (*model.LearningProgress, error)
	// ResyncCourse recomputes every learner of a course.
	ResyncCourse(ctx context.Context, courseID string) error
	ResetCourseProgress(ctx context.Context, userID, courseID string) error
}

type progressService struct {
	courses  repository.CourseRepository
	modules  repository.ModuleRepository
	progress repository.ProgressRepository
	events   events.Publisher
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProgressService(
	courses repository.CourseRepository,
	modules repository.ModuleRepository,
	progress repository.ProgressRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		courses:  courses,
		modules:  modules,
		progress: progress,
		events:   publisher,
		logger:   logger.With().Str("service", "progress").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) Enroll(ctx context.Context, userID, courseID string) (*model.LearningProgress, bool, error) {
	c, err := visibleCourse(ctx, s.courses, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if !c.Published {
		return nil, false, ErrNotPublished
	}
	return s.enroll(ctx, userID, c)
}

func (s *progressService) enroll(ctx context.Context, userID string, c *model.Course) (*model.LearningProgress, bool, error) {
	now := s.now()
	lp := &model.LearningProgress{
		UserID:           userID,
		CourseID:         c.ID,
		Status:           model.StatusNotStarted,
		CompletedModules: []string{},
		LastAccessedAt:   now,
	}
	created, err := s.progress.CreateLearningProgressIfAbsent(ctx, lp)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("course_id", c.ID).Msg("Failed to enroll")
		return nil, false, err
	}
	if created {
		s.events.Publish(ctx, events.New(events.EnrollmentCreated, userID, c.ID))
		return lp, true, nil
	}
	existing, err := s.progress.GetLearningProgress(ctx, userID, c.ID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("enrollment vanished after upsert")
	}
	return existing, false, nil
}

func (s *progressService) ListProgress(ctx context.Context, userID string) ([]model.LearningProgress, error) {
	return s.progress.ListLearningProgressByUser(ctx, userID)
}

func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID string) (*CourseProgress, error) {
	lp, err := s.progress.GetLearningProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, ErrProgressNotFound
	}
	mps, err := s.progress.ListModuleProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseProgress{Progress: lp, Modules: mps}, nil
}

func (s *progressService) UpdateModuleProgress(ctx context.Context, userID, moduleID string, u ModuleProgressUpdate) (*ProgressResult, error) {
	if u.CompletionPercentage != nil && (*u.CompletionPercentage < 0 || *u.CompletionPercentage > 100) {
		return nil, invalidf("completion_percentage must be between 0 and 100")
	}
	if u.TimeSpentMinutes < 0 {
		return nil, invalidf("time_spent_minutes must not be negative")
	}
	return s.touchModule(ctx, userID, moduleID, func(mp *model.ModuleProgress, now time.Time) bool {
		return applyModuleUpdate(mp, u.CompletionPercentage, u.TimeSpentMinutes, u.Reset, now)
	})
}

func (s *progressService) CompleteModule(ctx context.Context, userID, moduleID string) (*ProgressResult, error) {
	full := 100.0
	return s.UpdateModuleProgress(ctx, userID, moduleID, ModuleProgressUpdate{CompletionPercentage: &full})
}

func (s *progressService) RecordQuizAttempt(ctx context.Context, attempt *model.QuizAttempt) (*ProgressResult, error) {
	return s.touchModule(ctx, attempt.UserID, attempt.ModuleID, func(mp *model.ModuleProgress, now time.Time) bool {
		mp.QuizAttempts++
		if mp.BestQuizScore == nil || attempt.Percentage > *mp.BestQuizScore {
			best := attempt.Percentage
			mp.BestQuizScore = &best
		}
		var pct *float64
		if attempt.Passed {
			full := 100.0
			pct = &full
		}
		return applyModuleUpdate(mp, pct, 0, false, now)
	})
}

// touchModule loads (or starts) the learner's progress on a module, applies
// mutate, auto-enrolls and re-syncs the course.
func (s *progressService) touchModule(ctx context.Context, userID, moduleID string, mutate func(*model.ModuleProgress, time.Time) bool) (*ProgressResult, error) {
	m, err := loadModule(ctx, s.modules, moduleID)
	if err != nil {
		return nil, err
	}
	c, err := visibleCourse(ctx, s.courses, userID, m.CourseID)
	if err != nil {
		return nil, err
	}
	if !c.HasModule(m.ID) {
		return nil, ErrModuleNotFound
	}

	lp, _, err := s.enroll(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	now := s.now()
	mp, err := s.progress.GetModuleProgress(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		mp = &model.ModuleProgress{
			UserID:   userID,
			CourseID: c.ID,
			ModuleID: m.ID,
			Status:   model.StatusNotStarted,
		}
	}
	moduleDone := mutate(mp, now)
	if err := s.progress.SaveModuleProgress(ctx, mp); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("module_id", moduleID).Msg("Failed to save module progress")
		return nil, err
	}
	if moduleDone {
		e := events.New(events.ModuleCompleted, userID, c.ID)
		e.ModuleID = m.ID
		s.events.Publish(ctx, e)
	}

	lp.CurrentModuleID = m.ID
	lp.LastAccessedAt = now
	lp, err = s.sync(ctx, c, lp)
	if err != nil {
		return nil, err
	}
	return &ProgressResult{Module: mp, Course: lp}, nil
}

func (s *progressService) SyncCourseProgress(ctx context.Context, userID, courseID string) (*model.LearningProgress, error) {
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	lp, err := s.progress.GetLearningProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, ErrProgressNotFound
	}
	return s.sync(ctx, c, lp)
}

func (s *progressService) sync(ctx context.Context, c *model.Course, lp *model.LearningProgress) (*model.LearningProgress, error) {
	modules, err := s.modules.GetModulesByCourseID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	mps, err := s.progress.ListModuleProgress(ctx, lp.UserID, c.ID)
	if err != nil {
		return nil, err
	}
	courseDone := reconcile(lp, c, modules, mps, s.now())
	if err := s.progress.SaveLearningProgress(ctx, lp); err != nil {
		s.logger.Error().Err(err).Str("user_id", lp.UserID).Str("course_id", c.ID).Msg("Failed to save learning progress")
		return nil, err
	}
	if courseDone {
		e := events.New(events.CourseCompleted, lp.UserID, c.ID)
		e.Percentage = lp.CompletionPercentage
		s.events.Publish(ctx, e)
	}
	return lp, nil
}

func (s *progressService) ResyncCourse(ctx context.Context, courseID string) error {
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return err
	}
	learners, err := s.progress.ListLearningProgressByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)
	for i := range learners {
		lp := &learners[i]
		g.Go(func() error {
			_, err := s.sync(gctx, c, lp)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to resync course learners")
		return err
	}
	s.logger.Debug().Str("course_id", courseID).Int("learners", len(learners)).Msg("Resynced course progress")
	return nil
}

func (s *progressService) ResetCourseProgress(ctx context.Context, userID, courseID string) error {
	if err := s.progress.DeleteModuleProgressForUser(ctx, userID, courseID); err != nil {
		return err
	}
	return s.progress.DeleteLearningProgress(ctx, userID, courseID)
}
