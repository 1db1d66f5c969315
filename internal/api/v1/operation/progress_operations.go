package operation

import "learntrack/internal/api/v1/dto"

// Progress Operations

type EnrollInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type EnrollOutput struct {
	Body dto.EnrollmentResponseDTO `json:"body"`
}

type ListProgressInput struct{}

type ListProgressOutput struct {
	Body []dto.LearningProgressDTO `json:"body"`
}

type GetCourseProgressInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseProgressOutput struct {
	Body dto.CourseProgressResponseDTO `json:"body"`
}

type ResetCourseProgressInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type ResetCourseProgressOutput struct {
	// 204 No Content
}

type SyncCourseProgressInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type SyncCourseProgressOutput struct {
	Body dto.LearningProgressDTO `json:"body"`
}

type UpdateModuleProgressInput struct {
	ModuleID string                      `path:"moduleId" doc:"Module ID"`
	Body     dto.ModuleProgressUpdateDTO `json:"body"`
}

type UpdateModuleProgressOutput struct {
	Body dto.ProgressUpdateResponseDTO `json:"body"`
}

type CompleteModuleInput struct {
	ModuleID string `path:"moduleId" doc:"Module ID"`
}

type CompleteModuleOutput struct {
	Body dto.ProgressUpdateResponseDTO `json:"body"`
}

type GetDashboardInput struct{}

type GetDashboardOutput struct {
	Body dto.DashboardResponseDTO `json:"body"`
}
