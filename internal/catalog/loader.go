package catalog

import (
	"context"
	"fmt"

	"learntrack/internal/service"

	"github.com/rs/zerolog"
)

// Result counts what a load created.
type Result struct {
	Courses   int      `json:"courses"`
	Modules   int      `json:"modules"`
	Quizzes   int      `json:"quizzes"`
	CourseIDs []string `json:"course_ids"`
}

// Loader creates catalog entries through the service layer, so every rule
// that applies to API writes applies to seeded data too.
type Loader struct {
	svcs   *service.Services
	logger zerolog.Logger
}

func NewLoader(svcs *service.Services, logger zerolog.Logger) *Loader {
	return &Loader{svcs: svcs, logger: logger.With().Str("component", "catalog").Logger()}
}

// Load stops at the first failing entry. Courses created before the failure
// are kept and reported in the result.
func (l *Loader) Load(ctx context.Context, c *Catalog, defaultInstructor string) (*Result, error) {
	res := &Result{CourseIDs: []string{}}
	for i, ce := range c.Courses {
		instructor := ce.Instructor
		if instructor == "" {
			instructor = defaultInstructor
		}
		if instructor == "" {
			return res, fmt.Errorf("course %d (%s): no instructor", i+1, ce.Title)
		}
		if err := l.loadCourse(ctx, instructor, ce, res); err != nil {
			return res, fmt.Errorf("course %d (%s): %w", i+1, ce.Title, err)
		}
	}
	return res, nil
}

func (l *Loader) loadCourse(ctx context.Context, instructor string, ce CourseEntry, res *Result) error {
	course, err := l.svcs.Courses.CreateCourse(ctx, instructor, ce.Course())
	if err != nil {
		return err
	}
	res.Courses++
	res.CourseIDs = append(res.CourseIDs, course.ID)

	for j, me := range ce.Modules {
		m, err := l.svcs.Modules.CreateModule(ctx, instructor, course.ID, me.Module())
		if err != nil {
			return fmt.Errorf("module %d (%s): %w", j+1, me.Title, err)
		}
		res.Modules++
		if me.Quiz == nil {
			continue
		}
		if _, err := l.svcs.Quizzes.CreateQuiz(ctx, instructor, m.ID, me.Quiz.Quiz(m.Title)); err != nil {
			return fmt.Errorf("module %d (%s) quiz: %w", j+1, me.Title, err)
		}
		res.Quizzes++
	}

	if ce.Published {
		published := true
		if _, err := l.svcs.Courses.UpdateCourse(ctx, instructor, course.ID, service.CoursePatch{Published: &published}); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}
	l.logger.Info().
		Str("course_id", course.ID).
		Str("instructor_id", instructor).
		Int("modules", len(ce.Modules)).
		Bool("published", ce.Published).
		Msg("Loaded course")
	return nil
}
