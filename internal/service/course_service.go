package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"learntrack/internal/events"
	"learntrack/internal/model"
	"learntrack/internal/repository"
	"learntrack/internal/storage"

	"github.com/rs/zerolog"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CoursePatch carries the fields of a partial course update. Nil fields are
// left unchanged.
type CoursePatch struct {
	Title          *string
	Description    *string
	Category       *string
	Level          *string
	Tags           *[]string
	EstimatedHours *float64
	Published      *bool
}

// CourseListQuery filters a catalog listing. Mine restricts the listing to the
// caller's own courses, drafts included.
type CourseListQuery struct {
	Category string
	Level    string
	Tag      string
	Search   string
	Mine     bool
	Limit    int
	Offset   int
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, userID string, c *model.Course) (*model.Course, error)
	ListCourses(ctx context.Context, userID string, q CourseListQuery) ([]model.Course, error)
	// GetCourse hides unpublished courses from everyone but their instructor
	GetCourse(ctx context.Context, userID, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, userID, courseID string, p CoursePatch) (*model.Course, error)
	// DeleteCourse removes the course and everything hanging off it
	DeleteCourse(ctx context.Context, userID, courseID string) error
	DuplicateCourse(ctx context.Context, userID, courseID string) (*model.Course, error)
	ReorderSyllabus(ctx context.Context, userID, courseID string, order []string) (*model.Course, error)
	GetCourseStats(ctx context.Context, userID, courseID string) (*model.CourseStats, error)
}

// courseService is the implementation of CourseService
type courseService struct {
	repos   *repository.Repositories
	objects storage.ObjectStore
	events  events.Publisher
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService. objects may be nil when no
// content bucket is configured.
func NewCourseService(repos *repository.Repositories, objects storage.ObjectStore, publisher events.Publisher, logger zerolog.Logger) CourseService {
	return &courseService{
		repos:   repos,
		objects: objects,
		events:  publisher,
		logger:  logger.With().Str("service", "course").Logger(),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, userID string, c *model.Course) (*model.Course, error) {
	c.InstructorID = userID
	c.Title = strings.TrimSpace(c.Title)
	c.Syllabus = []string{}
	c.Published = false
	if c.Level == "" {
		c.Level = model.LevelBeginner
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	if err := s.repos.Courses.CreateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create course")
		return nil, err
	}
	return c, nil
}

func (s *courseService) ListCourses(ctx context.Context, userID string, q CourseListQuery) ([]model.Course, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	f := model.CourseFilter{
		Category: q.Category,
		Level:    q.Level,
		Tag:      q.Tag,
		Search:   strings.TrimSpace(q.Search),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Mine {
		f.InstructorID = userID
	} else {
		f.PublishedOnly = true
	}
	return s.repos.Courses.ListCourses(ctx, f)
}

func (s *courseService) GetCourse(ctx context.Context, userID, courseID string) (*model.Course, error) {
	return visibleCourse(ctx, s.repos.Courses, userID, courseID)
}

func (s *courseService) UpdateCourse(ctx context.Context, userID, courseID string, p CoursePatch) (*model.Course, error) {
	c, err := ownedCourse(ctx, s.repos.Courses, userID, courseID)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		c.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.EstimatedHours != nil {
		c.EstimatedHours = *p.EstimatedHours
	}
	if p.Published != nil {
		c.Published = *p.Published
	}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	if err := s.repos.Courses.UpdateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to update course")
		return nil, err
	}
	return c, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, userID, courseID string) error {
	c, err := ownedCourse(ctx, s.repos.Courses, userID, courseID)
	if err != nil {
		return err
	}

	if s.objects != nil {
		modules, err := s.repos.Modules.GetModulesByCourseID(ctx, courseID)
		if err != nil {
			return err
		}
		for _, m := range modules {
			if err := s.objects.DeletePrefix(ctx, moduleContentPrefix(m.ID)); err != nil {
				// Orphaned objects do not block the delete.
				s.logger.Error().Err(err).Str("module_id", m.ID).Msg("Failed to delete module content")
			}
		}
	}

	steps := []func(context.Context, string) error{
		s.repos.Attempts.DeleteAttemptsByCourseID,
		s.repos.Quizzes.DeleteQuizzesByCourseID,
		s.repos.Progress.DeleteModuleProgressByCourse,
		s.repos.Progress.DeleteLearningProgressByCourse,
		s.repos.Modules.DeleteModulesByCourseID,
		s.repos.Stats.DeleteStats,
		s.repos.Courses.DeleteCourse,
	}
	for _, step := range steps {
		if err := step(ctx, courseID); err != nil {
			s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course")
			return err
		}
	}
	s.events.Publish(ctx, events.New(events.CourseDeleted, c.InstructorID, courseID))
	return nil
}

func (s *courseService) DuplicateCourse(ctx context.Context, userID, courseID string) (*model.Course, error) {
	src, err := ownedCourse(ctx, s.repos.Courses, userID, courseID)
	if err != nil {
		return nil, err
	}
	modules, err := s.repos.Modules.GetModulesByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	dup := src.Clone()
	dup.Title = src.Title + " (Copy)"
	dup.Published = false
	dup.Syllabus = []string{}
	if err := s.repos.Courses.CreateCourse(ctx, dup); err != nil {
		return nil, err
	}

	for _, id := range src.Syllabus {
		m, ok := byID[id]
		if !ok {
			continue
		}
		nm := m.Clone(dup.ID)
		nm.Order = len(dup.Syllabus)
		if err := s.repos.Modules.CreateModule(ctx, nm); err != nil {
			return nil, err
		}
		if err := s.copyModuleContent(ctx, nm); err != nil {
			return nil, err
		}
		if m.QuizID != "" {
			q, err := s.repos.Quizzes.GetQuizByID(ctx, m.QuizID)
			if err != nil {
				return nil, err
			}
			if q != nil {
				nq := q.Clone(dup.ID, nm.ID)
				if err := s.repos.Quizzes.CreateQuiz(ctx, nq); err != nil {
					return nil, err
				}
				nm.QuizID = nq.ID
			}
		}
		if err := s.repos.Modules.UpdateModule(ctx, nm); err != nil {
			return nil, err
		}
		dup.Syllabus = append(dup.Syllabus, nm.ID)
	}

	if err := s.repos.Courses.UpdateCourse(ctx, dup); err != nil {
		return nil, err
	}
	s.logger.Info().Str("source_id", courseID).Str("course_id", dup.ID).Int("modules", len(dup.Syllabus)).Msg("Duplicated course")
	return dup, nil
}

// copyModuleContent gives a cloned module its own copy of uploaded content so
// deleting either module leaves the other intact.
func (s *courseService) copyModuleContent(ctx context.Context, m *model.Module) error {
	if s.objects == nil || m.Content.StorageKey == "" {
		return nil
	}
	dst := moduleContentPrefix(m.ID) + path.Base(m.Content.StorageKey)
	if err := s.objects.Copy(ctx, m.Content.StorageKey, dst); err != nil {
		return fmt.Errorf("failed to copy module content: %w", err)
	}
	m.Content.StorageKey = dst
	return nil
}

func (s *courseService) ReorderSyllabus(ctx context.Context, userID, courseID string, order []string) (*model.Course, error) {
	c, err := ownedCourse(ctx, s.repos.Courses, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !isPermutation(c.Syllabus, order) {
		return nil, invalidf("order must list every module of the syllabus exactly once")
	}
	for i, id := range order {
		m, err := loadModule(ctx, s.repos.Modules, id)
		if err != nil {
			return nil, err
		}
		if m.Order == i {
			continue
		}
		m.Order = i
		if err := s.repos.Modules.UpdateModule(ctx, m); err != nil {
			return nil, err
		}
	}
	c.Syllabus = append([]string{}, order...)
	if err := s.repos.Courses.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func isPermutation(current, order []string) bool {
	if len(current) != len(order) {
		return false
	}
	counts := make(map[string]int, len(current))
	for _, id := range current {
		counts[id]++
	}
	for _, id := range order {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}

func (s *courseService) GetCourseStats(ctx context.Context, userID, courseID string) (*model.CourseStats, error) {
	if _, err := ownedCourse(ctx, s.repos.Courses, userID, courseID); err != nil {
		return nil, err
	}
	stats, err := s.repos.Stats.GetStats(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &model.CourseStats{CourseID: courseID}, nil
	}
	return stats, nil
}

func moduleContentPrefix(moduleID string) string {
	return fmt.Sprintf("modules/%s/", moduleID)
}
