package handler

import (
	"context"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/api/v1/operation"
	"learntrack/internal/model"
	"learntrack/internal/service"

	"github.com/rs/zerolog"
)

type ModuleHandler struct {
	moduleService service.ModuleService
	logger        zerolog.Logger
}

func NewModuleHandler(moduleService service.ModuleService, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
		logger:        logger,
	}
}

func (h *ModuleHandler) CreateModule(ctx context.Context, input *operation.CreateModuleInput) (*operation.CreateModuleOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	m := &model.Module{
		Title:    b.Title,
		Type:     b.Type,
		Content:  fromContentDTO(b.Content),
		Required: true,
	}
	if b.Description != nil {
		m.Description = *b.Description
	}
	if b.Required != nil {
		m.Required = *b.Required
	}

	created, err := h.moduleService.CreateModule(ctx, userID, input.CourseID, m)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create module")
	}
	return &operation.CreateModuleOutput{Body: toModuleDTO(created)}, nil
}

func (h *ModuleHandler) ListModules(ctx context.Context, input *operation.ListModulesInput) (*operation.ListModulesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	modules, err := h.moduleService.ListModules(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list modules")
	}
	return &operation.ListModulesOutput{Body: toModuleDTOs(modules)}, nil
}

func (h *ModuleHandler) GetModule(ctx context.Context, input *operation.GetModuleInput) (*operation.GetModuleOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m, err := h.moduleService.GetModule(ctx, userID, input.ModuleID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get module")
	}
	return &operation.GetModuleOutput{Body: toModuleDTO(m)}, nil
}

func (h *ModuleHandler) UpdateModule(ctx context.Context, input *operation.UpdateModuleInput) (*operation.UpdateModuleOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	patch := service.ModulePatch{
		Title:       b.Title,
		Description: b.Description,
		Type:        b.Type,
		Required:    b.Required,
	}
	if b.Content != nil {
		c := fromContentDTO(b.Content)
		patch.Content = &c
	}

	m, err := h.moduleService.UpdateModule(ctx, userID, input.ModuleID, patch)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to update module")
	}
	return &operation.UpdateModuleOutput{Body: toModuleDTO(m)}, nil
}

func (h *ModuleHandler) DeleteModule(ctx context.Context, input *operation.DeleteModuleInput) (*operation.DeleteModuleOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.moduleService.DeleteModule(ctx, userID, input.ModuleID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to delete module")
	}
	return &operation.DeleteModuleOutput{}, nil
}

func (h *ModuleHandler) ContentUploadURL(ctx context.Context, input *operation.ContentUploadURLInput) (*operation.ContentUploadURLOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ticket, err := h.moduleService.CreateContentUploadURL(ctx, userID, input.ModuleID, input.Body.Filename, input.Body.ContentType)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create upload URL")
	}
	return &operation.ContentUploadURLOutput{Body: dto.ContentUploadResponseDTO{
		UploadURL:  ticket.URL,
		StorageKey: ticket.StorageKey,
	}}, nil
}

func (h *ModuleHandler) GetContentURL(ctx context.Context, input *operation.GetContentURLInput) (*operation.GetContentURLOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	url, err := h.moduleService.GetContentURL(ctx, userID, input.ModuleID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get content URL")
	}
	return &operation.GetContentURLOutput{Body: dto.SignedURLResponseDTO{URL: url}}, nil
}
