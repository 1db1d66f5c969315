package service

import (
	"context"
	"errors"
	"sort"

	"learntrack/internal/grading"
	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RecentAttemptsLimit caps the attempts shown on the dashboard.
const RecentAttemptsLimit = 10

// EnrolledCourse pairs a course with the learner's progress in it.
type EnrolledCourse struct {
	Course   model.Course
	Progress model.LearningProgress
}

type DashboardTotals struct {
	Enrolled              int
	InProgress            int
	Completed             int
	AverageQuizPercentage float64
}

type Dashboard struct {
	Courses        []EnrolledCourse
	RecentAttempts []model.QuizAttempt
	Totals         DashboardTotals
}

// Enrollment is what a learner gets back when joining a course.
type Enrollment struct {
	Course   *model.Course
	Modules  []model.Module
	Progress *model.LearningProgress
	Created  bool
}

// LearningService is the learner-facing entry point combining the catalog,
// progress and quiz history.
type LearningService interface {
	Enroll(ctx context.Context, userID, courseID string) (*Enrollment, error)
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type learningService struct {
	courses  CourseService
	modules  ModuleService
	progress ProgressService
	attempts repository.AttemptRepository
	logger   zerolog.Logger
}

func NewLearningService(courses CourseService, modules ModuleService, progress ProgressService, attempts repository.AttemptRepository, logger zerolog.Logger) LearningService {
	return &learningService{
		courses:  courses,
		modules:  modules,
		progress: progress,
		attempts: attempts,
		logger:   logger.With().Str("service", "learning").Logger(),
	}
}

func (s *learningService) Enroll(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	lp, created, err := s.progress.Enroll(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	out := &Enrollment{Progress: lp, Created: created}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.courses.GetCourse(gctx, userID, courseID)
		out.Course = c
		return err
	})
	g.Go(func() error {
		ms, err := s.modules.ListModules(gctx, userID, courseID)
		out.Modules = ms
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *learningService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var (
		progress []model.LearningProgress
		attempts []model.QuizAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		progress, err = s.progress.ListProgress(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		attempts, err = s.attempts.ListRecentAttemptsByUser(gctx, userID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load dashboard")
		return nil, err
	}

	courses := make([]*model.Course, len(progress))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)
	for i := range progress {
		g.Go(func() error {
			c, err := s.courses.GetCourse(gctx, userID, progress[i].CourseID)
			if errors.Is(err, ErrCourseNotFound) {
				return nil
			}
			courses[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{Courses: []EnrolledCourse{}, RecentAttempts: attempts}
	for i, lp := range progress {
		if courses[i] == nil {
			continue
		}
		d.Courses = append(d.Courses, EnrolledCourse{Course: *courses[i], Progress: lp})
		d.Totals.Enrolled++
		switch lp.Status {
		case model.StatusCompleted:
			d.Totals.Completed++
		case model.StatusInProgress:
			d.Totals.InProgress++
		}
	}
	sort.SliceStable(d.Courses, func(i, j int) bool {
		return d.Courses[i].Progress.LastAccessedAt.After(d.Courses[j].Progress.LastAccessedAt)
	})

	if len(attempts) > 0 {
		total := 0.0
		for _, a := range attempts {
			total += a.Percentage
		}
		d.Totals.AverageQuizPercentage = grading.Round2(total / float64(len(attempts)))
	}
	if len(d.RecentAttempts) > RecentAttemptsLimit {
		d.RecentAttempts = d.RecentAttempts[:RecentAttemptsLimit]
	}
	return d, nil
}
