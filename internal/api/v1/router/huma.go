package router

import (
	"net/http"
	"os"
	"strings"

	"learntrack/internal/api/v1/handler"
	"learntrack/internal/config"
	"learntrack/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// HandlerSet groups the operation handlers registered on the API.
type HandlerSet struct {
	Courses  *handler.CourseHandler
	Modules  *handler.ModuleHandler
	Quizzes  *handler.QuizHandler
	Progress *handler.ProgressHandler
	DLQ      *handler.DLQHandler
}

func Handlers(svcs *service.Services, logger zerolog.Logger) HandlerSet {
	return HandlerSet{
		Courses:  handler.NewCourseHandler(svcs.Courses, logger),
		Modules:  handler.NewModuleHandler(svcs.Modules, logger),
		Quizzes:  handler.NewQuizHandler(svcs.Quizzes, logger),
		Progress: handler.NewProgressHandler(svcs.Progress, svcs.Learning, logger),
		DLQ:      handler.NewDLQHandler(svcs.DLQ, logger),
	}
}

func isPublicDocPath(p string) bool {
	return p == "/openapi.json" || p == "/openapi.yaml" || p == "/docs" || strings.HasPrefix(p, "/schemas")
}

// SetupHumaAPI creates a Huma API instance
func SetupHumaAPI(
	cfg *config.Config,
	authMiddleware func(http.Handler) http.Handler,
	pubsubAuthMiddleware func(http.Handler) http.Handler,
	logger zerolog.Logger,
) (*chi.Mux, huma.API) {
	chiRouter := chi.NewRouter()

	// Apply middleware based on path
	chiRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicDocPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.Path == "/dlq/record" {
				pubsubAuthMiddleware(next).ServeHTTP(w, r)
				return
			}
			authMiddleware(next).ServeHTTP(w, r)
		})
	})

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("LearnTrack API v1", version)
	humaConfig.Info.Description = "Courses, modules, quizzes and learner progress"
	humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL + "/v1"}}

	api := humachi.New(chiRouter, humaConfig)

	logger.Info().Str("version", version).Msg("Huma API initialized for /v1")
	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(api huma.API, h HandlerSet, logger zerolog.Logger) {
	// ========== COURSE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "createCourse",
		Method:        http.MethodPost,
		Path:          "/courses",
		Summary:       "Create a course",
		Description:   "Creates an unpublished course taught by the authenticated user",
		Tags:          []string{"courses"},
		DefaultStatus: http.StatusCreated,
	}, h.Courses.CreateCourse)

	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Description: "Lists published courses, or the caller's own courses with mine=true",
		Tags:        []string{"courses"},
	}, h.Courses.ListCourses)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}",
		Summary:     "Get a course",
		Tags:        []string{"courses"},
	}, h.Courses.GetCourse)

	huma.Register(api, huma.Operation{
		OperationID: "updateCourse",
		Method:      http.MethodPatch,
		Path:        "/courses/{courseId}",
		Summary:     "Update a course",
		Description: "Partially updates a course; only the instructor may do this",
		Tags:        []string{"courses"},
	}, h.Courses.UpdateCourse)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteCourse",
		Method:        http.MethodDelete,
		Path:          "/courses/{courseId}",
		Summary:       "Delete a course",
		Description:   "Deletes a course with its modules, quizzes, attempts, progress and stored content",
		Tags:          []string{"courses"},
		DefaultStatus: http.StatusNoContent,
	}, h.Courses.DeleteCourse)

	huma.Register(api, huma.Operation{
		OperationID:   "duplicateCourse",
		Method:        http.MethodPost,
		Path:          "/courses/{courseId}/duplicate",
		Summary:       "Duplicate a course",
		Description:   "Copies a course with its modules and quizzes into a new unpublished draft",
		Tags:          []string{"courses"},
		DefaultStatus: http.StatusCreated,
	}, h.Courses.DuplicateCourse)

	huma.Register(api, huma.Operation{
		OperationID: "reorderSyllabus",
		Method:      http.MethodPut,
		Path:        "/courses/{courseId}/syllabus",
		Summary:     "Reorder the syllabus",
		Tags:        []string{"courses"},
	}, h.Courses.ReorderSyllabus)

	huma.Register(api, huma.Operation{
		OperationID: "getCourseStats",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/stats",
		Summary:     "Get course statistics",
		Description: "Enrollment, completion and quiz counters for the instructor",
		Tags:        []string{"courses"},
	}, h.Courses.GetCourseStats)

	// ========== MODULE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "createModule",
		Method:        http.MethodPost,
		Path:          "/courses/{courseId}/modules",
		Summary:       "Create a module",
		Description:   "Appends a module to the course syllabus",
		Tags:          []string{"modules"},
		DefaultStatus: http.StatusCreated,
	}, h.Modules.CreateModule)

	huma.Register(api, huma.Operation{
		OperationID: "listModules",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/modules",
		Summary:     "List modules in syllabus order",
		Tags:        []string{"modules"},
	}, h.Modules.ListModules)

	huma.Register(api, huma.Operation{
		OperationID: "getModule",
		Method:      http.MethodGet,
		Path:        "/modules/{moduleId}",
		Summary:     "Get a module",
		Tags:        []string{"modules"},
	}, h.Modules.GetModule)

	huma.Register(api, huma.Operation{
		OperationID: "updateModule",
		Method:      http.MethodPatch,
		Path:        "/modules/{moduleId}",
		Summary:     "Update a module",
		Tags:        []string{"modules"},
	}, h.Modules.UpdateModule)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteModule",
		Method:        http.MethodDelete,
		Path:          "/modules/{moduleId}",
		Summary:       "Delete a module",
		Tags:          []string{"modules"},
		DefaultStatus: http.StatusNoContent,
	}, h.Modules.DeleteModule)

	huma.Register(api, huma.Operation{
		OperationID: "contentUploadURL",
		Method:      http.MethodPost,
		Path:        "/modules/{moduleId}/content/upload-url",
		Summary:     "Get a content upload URL",
		Description: "Generates a presigned URL for uploading the module's content file",
		Tags:        []string{"modules"},
	}, h.Modules.ContentUploadURL)

	huma.Register(api, huma.Operation{
		OperationID: "getContentURL",
		Method:      http.MethodGet,
		Path:        "/modules/{moduleId}/content/url",
		Summary:     "Get a content download URL",
		Tags:        []string{"modules"},
	}, h.Modules.GetContentURL)

	// ========== QUIZ OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "createQuiz",
		Method:        http.MethodPost,
		Path:          "/modules/{moduleId}/quiz",
		Summary:       "Create the quiz of a quiz module",
		Tags:          []string{"quizzes"},
		DefaultStatus: http.StatusCreated,
	}, h.Quizzes.CreateQuiz)

	huma.Register(api, huma.Operation{
		OperationID: "getQuiz",
		Method:      http.MethodGet,
		Path:        "/quizzes/{quizId}",
		Summary:     "Get a quiz",
		Description: "Correct answers are only included for the instructor",
		Tags:        []string{"quizzes"},
	}, h.Quizzes.GetQuiz)

	huma.Register(api, huma.Operation{
		OperationID: "updateQuiz",
		Method:      http.MethodPut,
		Path:        "/quizzes/{quizId}",
		Summary:     "Replace a quiz definition",
		Tags:        []string{"quizzes"},
	}, h.Quizzes.UpdateQuiz)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteQuiz",
		Method:        http.MethodDelete,
		Path:          "/quizzes/{quizId}",
		Summary:       "Delete a quiz",
		Tags:          []string{"quizzes"},
		DefaultStatus: http.StatusNoContent,
	}, h.Quizzes.DeleteQuiz)

	huma.Register(api, huma.Operation{
		OperationID:   "submitAttempt",
		Method:        http.MethodPost,
		Path:          "/quizzes/{quizId}/attempts",
		Summary:       "Submit a quiz attempt",
		Description:   "Grades the answers and updates the learner's progress",
		Tags:          []string{"quizzes"},
		DefaultStatus: http.StatusCreated,
	}, h.Quizzes.SubmitAttempt)

	huma.Register(api, huma.Operation{
		OperationID: "listAttempts",
		Method:      http.MethodGet,
		Path:        "/quizzes/{quizId}/attempts",
		Summary:     "List the caller's attempts",
		Tags:        []string{"quizzes"},
	}, h.Quizzes.ListAttempts)

	huma.Register(api, huma.Operation{
		OperationID: "getAttempt",
		Method:      http.MethodGet,
		Path:        "/attempts/{attemptId}",
		Summary:     "Get an attempt",
		Tags:        []string{"quizzes"},
	}, h.Quizzes.GetAttempt)

	// ========== PROGRESS OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "enroll",
		Method:      http.MethodPost,
		Path:        "/courses/{courseId}/enroll",
		Summary:     "Enroll in a course",
		Description: "Idempotently starts tracking progress in a published course",
		Tags:        []string{"progress"},
	}, h.Progress.Enroll)

	huma.Register(api, huma.Operation{
		OperationID: "listProgress",
		Method:      http.MethodGet,
		Path:        "/me/progress",
		Summary:     "List course progress",
		Tags:        []string{"progress"},
	}, h.Progress.ListProgress)

	huma.Register(api, huma.Operation{
		OperationID: "getCourseProgress",
		Method:      http.MethodGet,
		Path:        "/me/progress/{courseId}",
		Summary:     "Get progress in a course",
		Tags:        []string{"progress"},
	}, h.Progress.GetCourseProgress)

	huma.Register(api, huma.Operation{
		OperationID: "syncCourseProgress",
		Method:      http.MethodPost,
		Path:        "/me/progress/{courseId}/sync",
		Summary:     "Recompute progress in a course",
		Tags:        []string{"progress"},
	}, h.Progress.SyncCourseProgress)

	huma.Register(api, huma.Operation{
		OperationID:   "resetCourseProgress",
		Method:        http.MethodDelete,
		Path:          "/me/progress/{courseId}",
		Summary:       "Reset progress in a course",
		Tags:          []string{"progress"},
		DefaultStatus: http.StatusNoContent,
	}, h.Progress.ResetCourseProgress)

	huma.Register(api, huma.Operation{
		OperationID: "updateModuleProgress",
		Method:      http.MethodPut,
		Path:        "/modules/{moduleId}/progress",
		Summary:     "Record module progress",
		Tags:        []string{"progress"},
	}, h.Progress.UpdateModuleProgress)

	huma.Register(api, huma.Operation{
		OperationID: "completeModule",
		Method:      http.MethodPost,
		Path:        "/modules/{moduleId}/complete",
		Summary:     "Mark a module completed",
		Tags:        []string{"progress"},
	}, h.Progress.CompleteModule)

	huma.Register(api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/me/dashboard",
		Summary:     "Get the learner dashboard",
		Tags:        []string{"progress"},
	}, h.Progress.GetDashboard)

	// ========== DLQ OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "recordDLQ",
		Method:        http.MethodPost,
		Path:          "/dlq/record",
		Summary:       "Record DLQ message",
		Description:   "Records a dead-lettered progress event pushed by Pub/Sub",
		Tags:          []string{"dlq"},
		DefaultStatus: http.StatusNoContent,
	}, h.DLQ.RecordDLQ)

	logger.Info().Int("total_operations", len(api.OpenAPI().Paths)).Msg("Registered API paths")
}
