package service

import (
	"learntrack/internal/events"
	"learntrack/internal/grading"
	"learntrack/internal/repository"
	"learntrack/internal/storage"

	"github.com/rs/zerolog"
)

// Services is the wired service layer shared by the HTTP API and the admin CLI.
type Services struct {
	Courses  CourseService
	Modules  ModuleService
	Quizzes  QuizService
	Progress ProgressService
	Learning LearningService
	DLQ      DLQService
}

// NewServices wires every service over repos. objects may be nil when
// content storage is not configured.
func NewServices(repos *repository.Repositories, objects storage.ObjectStore, publisher events.Publisher, grader *grading.Grader, logger zerolog.Logger) *Services {
	progress := WithProgressLogging(NewProgressService(repos.Courses, repos.Modules, repos.Progress, publisher, logger), logger)
	courses := NewCourseService(repos, objects, publisher, logger)
	modules := NewModuleService(repos, progress, objects, logger)
	return &Services{
		Courses:  courses,
		Modules:  modules,
		Quizzes:  NewQuizService(repos, progress, grader, publisher, logger),
		Progress: progress,
		Learning: NewLearningService(courses, modules, progress, repos.Attempts, logger),
		DLQ:      NewDLQService(repos.DLQ),
	}
}
