package operation

import "learntrack/internal/api/v1/dto"

type CreateModuleInput struct {
	CourseID string              `path:"courseId" doc:"Course ID"`
	Body     dto.ModuleCreateDTO `json:"body"`
}

type CreateModuleOutput struct {
	Body dto.ModuleResponseDTO `json:"body"`
}

type ListModulesInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type ListModulesOutput struct {
	Body []dto.ModuleResponseDTO `json:"body"`
}

type GetModuleInput struct {
	ModuleID string `path:"moduleId" doc:"Module ID"`
}

type GetModuleOutput struct {
	Body dto.ModuleResponseDTO `json:"body"`
}

type UpdateModuleInput struct {
	ModuleID string              `path:"moduleId" doc:"Module ID"`
	Body     dto.ModuleUpdateDTO `json:"body"`
}

type UpdateModuleOutput struct {
	Body dto.ModuleResponseDTO `json:"body"`
}

type DeleteModuleInput struct {
	ModuleID string `path:"moduleId" doc:"Module ID"`
}

type DeleteModuleOutput struct {
	// 204 No Content
}

type ContentUploadURLInput struct {
	ModuleID string               `path:"moduleId" doc:"Module ID"`
	Body     dto.ContentUploadDTO `json:"body"`
}

type ContentUploadURLOutput struct {
	Body dto.ContentUploadResponseDTO `json:"body"`
}

type GetContentURLInput struct {
	ModuleID string `path:"moduleId" doc:"Module ID"`
}

type GetContentURLOutput struct {
	Body dto.SignedURLResponseDTO `json:"body"`
}
