package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"learntrack/internal/content"
	"learntrack/internal/model"
	"learntrack/internal/repository"
	"learntrack/internal/storage"

	"github.com/rs/zerolog"
)

// ModulePatch carries a partial module update. Type can be sent but must match
// the stored type.
type ModulePatch struct {
	Title       *string
	Description *string
	Type        *string
	Content     *model.ModuleContent
	Required    *bool
}

// UploadTicket is a presigned upload destination for module content.
type UploadTicket struct {
	URL        string
	StorageKey string
}

type ModuleService interface {
	CreateModule(ctx context.Context, userID, courseID string, m *model.Module) (*model.Module, error)
	// ListModules returns the course's modules in syllabus order
	ListModules(ctx context.Context, userID, courseID string) ([]model.Module, error)
	GetModule(ctx context.Context, userID, moduleID string) (*model.Module, error)
	UpdateModule(ctx context.Context, userID, moduleID string, p ModulePatch) (*model.Module, error)
	DeleteModule(ctx context.Context, userID, moduleID string) error
	CreateContentUploadURL(ctx context.Context, userID, moduleID, filename, contentType string) (*UploadTicket, error)
	GetContentURL(ctx context.Context, userID, moduleID string) (string, error)
}

type moduleService struct {
	repos    *repository.Repositories
	progress ProgressService
	objects  storage.ObjectStore
	logger   zerolog.Logger
}

func NewModuleService(repos *repository.Repositories, progress ProgressService, objects storage.ObjectStore, logger zerolog.Logger) ModuleService {
	return &moduleService{
		repos:    repos,
		progress: progress,
		objects:  objects,
		logger:   logger.With().Str("service", "module").Logger(),
	}
}

func validateContent(m *model.Module) error {
	c, err := content.New(m.Type, m.Content)
	if err != nil {
		if errors.Is(err, content.ErrUnknownType) {
			return invalidf("%v", err)
		}
		return err
	}
	if err := c.Validate(); err != nil {
		return invalidf("%v", err)
	}
	if m.Type == model.ModuleQuiz {
		m.Content = model.ModuleContent{}
	}
	return nil
}

func (s *moduleService) CreateModule(ctx context.Context, userID, courseID string, m *model.Module) (*model.Module, error) {
	c, err := ownedCourse(ctx, s.repos.Courses, userID, courseID)
	if err != nil {
		return nil, err
	}
	m.CourseID = c.ID
	m.Title = strings.TrimSpace(m.Title)
	m.QuizID = ""
	m.Order = len(c.Syllabus)
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	if err := validateContent(m); err != nil {
		return nil, err
	}

	if err := s.repos.Modules.CreateModule(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to create module")
		return nil, err
	}
	c.Syllabus = append(c.Syllabus, m.ID)
	if err := s.repos.Courses.UpdateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("module_id", m.ID).Msg("Failed to append module to syllabus")
		return nil, err
	}
	if err := s.progress.ResyncCourse(ctx, c.ID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *moduleService) ListModules(ctx context.Context, userID, courseID string) ([]model.Module, error) {
	c, err := visibleCourse(ctx, s.repos.Courses, userID, courseID)
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
	out := make([]model.Module, 0, len(c.Syllabus))
	for _, id := range c.Syllabus {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// visibleModule loads a module whose course the caller may see.
func (s *moduleService) visibleModule(ctx context.Context, userID, moduleID string) (*model.Module, *model.Course, error) {
	m, err := loadModule(ctx, s.repos.Modules, moduleID)
	if err != nil {
		return nil, nil, err
	}
	c, err := visibleCourse(ctx, s.repos.Courses, userID, m.CourseID)
	if errors.Is(err, ErrCourseNotFound) {
		return nil, nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return m, c, nil
}

// ownedModule loads a module whose course belongs to the caller.
func (s *moduleService) ownedModule(ctx context.Context, userID, moduleID string) (*model.Module, *model.Course, error) {
	m, c, err := s.visibleModule(ctx, userID, moduleID)
	if err != nil {
		return nil, nil, err
	}
	if c.InstructorID != userID {
		return nil, nil, ErrForbidden
	}
	return m, c, nil
}

func (s *moduleService) GetModule(ctx context.Context, userID, moduleID string) (*model.Module, error) {
	m, _, err := s.visibleModule(ctx, userID, moduleID)
	return m, err
}

func (s *moduleService) UpdateModule(ctx context.Context, userID, moduleID string, p ModulePatch) (*model.Module, error) {
	m, c, err := s.ownedModule(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if p.Type != nil && *p.Type != m.Type {
		return nil, invalidf("module type cannot be changed from %s", m.Type)
	}
	requiredChanged := p.Required != nil && *p.Required != m.Required
	if p.Title != nil {
		m.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Content != nil {
		storageKey := m.Content.StorageKey
		m.Content = *p.Content
		if m.Content.StorageKey != storageKey {
			// Keys are only ever assigned by CreateContentUploadURL.
			m.Content.StorageKey = storageKey
		}
	}
	if p.Required != nil {
		m.Required = *p.Required
	}
	if err := validateStruct(m); err != nil {
		return nil, err
	}
	if err := validateContent(m); err != nil {
		return nil, err
	}
	if err := s.repos.Modules.UpdateModule(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("module_id", moduleID).Msg("Failed to update module")
		return nil, err
	}
	if requiredChanged {
		if err := s.progress.ResyncCourse(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *moduleService) DeleteModule(ctx context.Context, userID, moduleID string) error {
	m, c, err := s.ownedModule(ctx, userID, moduleID)
	if err != nil {
		return err
	}

	if m.QuizID != "" {
		if err := s.repos.Attempts.DeleteAttemptsByQuizID(ctx, m.QuizID); err != nil {
			return err
		}
		if err := s.repos.Quizzes.DeleteQuiz(ctx, m.QuizID); err != nil {
			return err
		}
	}
	if err := s.repos.Progress.DeleteModuleProgressByModule(ctx, m.ID); err != nil {
		return err
	}
	if s.objects != nil {
		if err := s.objects.DeletePrefix(ctx, moduleContentPrefix(m.ID)); err != nil {
			s.logger.Error().Err(err).Str("module_id", m.ID).Msg("Failed to delete module content")
		}
	}
	if err := s.repos.Modules.DeleteModule(ctx, m.ID); err != nil {
		s.logger.Error().Err(err).Str("module_id", moduleID).Msg("Failed to delete module")
		return err
	}

	syllabus := make([]string, 0, len(c.Syllabus))
	for _, id := range c.Syllabus {
		if id != m.ID {
			syllabus = append(syllabus, id)
		}
	}
	c.Syllabus = syllabus
	if err := s.repos.Courses.UpdateCourse(ctx, c); err != nil {
		return err
	}
	for i, id := range c.Syllabus {
		other, err := s.repos.Modules.GetModuleByID(ctx, id)
		if err != nil {
			return err
		}
		if other == nil || other.Order == i {
			continue
		}
		other.Order = i
		if err := s.repos.Modules.UpdateModule(ctx, other); err != nil {
			return err
		}
	}
	return s.progress.ResyncCourse(ctx, c.ID)
}

func (s *moduleService) CreateContentUploadURL(ctx context.Context, userID, moduleID, filename, contentType string) (*UploadTicket, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}
	m, _, err := s.ownedModule(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}
	if m.Type == model.ModuleQuiz {
		return nil, invalidf("quiz modules do not take uploaded content")
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil, invalidf("filename is required")
	}

	key := moduleContentPrefix(m.ID) + name
	staged := *m
	staged.Content.StorageKey = key
	if err := validateContent(&staged); err != nil {
		return nil, err
	}
	url, err := s.objects.PresignPut(ctx, key, contentType)
	if err != nil {
		s.logger.Error().Err(err).Str("module_id", moduleID).Msg("Failed to presign content upload")
		return nil, err
	}
	m.Content.StorageKey = key
	if err := s.repos.Modules.UpdateModule(ctx, m); err != nil {
		return nil, err
	}
	return &UploadTicket{URL: url, StorageKey: key}, nil
}

func (s *moduleService) GetContentURL(ctx context.Context, userID, moduleID string) (string, error) {
	if s.objects == nil {
		return "", ErrStorageDisabled
	}
	m, _, err := s.visibleModule(ctx, userID, moduleID)
	if err != nil {
		return "", err
	}
	if m.Content.StorageKey == "" {
		return "", ErrContentNotFound
	}
	return s.objects.PresignGet(ctx, m.Content.StorageKey)
}
