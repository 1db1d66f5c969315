package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/go-playground/validator/v10"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrProgressNotFound = errors.New("not enrolled in course")
	ErrContentNotFound  = errors.New("module has no uploaded content")

	ErrForbidden       = errors.New("only the course instructor may do this")
	ErrNotPublished    = errors.New("course is not published")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrAttemptLimit    = errors.New("maximum number of attempts reached")
	ErrStorageDisabled = errors.New("content storage is not configured")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateStruct runs the validate tags of v and reports failures as
// ErrInvalidInput.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return invalidf("%s", strings.Join(problems, ", "))
}

// loadCourse returns the course or ErrCourseNotFound.
func loadCourse(ctx context.Context, repo repository.CourseRepository, courseID string) (*model.Course, error) {
	c, err := repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// visibleCourse hides unpublished courses from everyone but their instructor.
func visibleCourse(ctx context.Context, repo repository.CourseRepository, userID, courseID string) (*model.Course, error) {
	c, err := loadCourse(ctx, repo, courseID)
	if err != nil {
		return nil, err
	}
	if !c.Published && c.InstructorID != userID {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// ownedCourse returns the course when userID is its instructor.
func ownedCourse(ctx context.Context, repo repository.CourseRepository, userID, courseID string) (*model.Course, error) {
	c, err := loadCourse(ctx, repo, courseID)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != userID {
		if !c.Published {
			return nil, ErrCourseNotFound
		}
		return nil, ErrForbidden
	}
	return c, nil
}

func loadModule(ctx context.Context, repo repository.ModuleRepository, moduleID string) (*model.Module, error) {
	m, err := repo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}
	return m, nil
}

func loadQuiz(ctx context.Context, repo repository.QuizRepository, quizID string) (*model.Quiz, error) {
	q, err := repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}
	return q, nil
}
