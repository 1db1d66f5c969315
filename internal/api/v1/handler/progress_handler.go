package handler

import (
	"context"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/api/v1/operation"
	"learntrack/internal/service"

	"github.com/rs/zerolog"
)

// ProgressHandler serves enrollment, progress tracking and the learner dashboard.
type ProgressHandler struct {
	progressService service.ProgressService
	learningService service.LearningService
	logger          zerolog.Logger
}

func NewProgressHandler(progressService service.ProgressService, learningService service.LearningService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		learningService: learningService,
		logger:          logger,
	}
}

func (h *ProgressHandler) Enroll(ctx context.Context, input *operation.EnrollInput) (*operation.EnrollOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	e, err := h.learningService.Enroll(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to enroll")
	}
	return &operation.EnrollOutput{Body: dto.EnrollmentResponseDTO{
		Course:   toCourseDTO(e.Course),
		Modules:  toModuleDTOs(e.Modules),
		Progress: toLearningDTO(e.Progress),
		Created:  e.Created,
	}}, nil
}

func (h *ProgressHandler) ListProgress(ctx context.Context, _ *operation.ListProgressInput) (*operation.ListProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	all, err := h.progressService.ListProgress(ctx, userID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list progress")
	}
	out := make([]dto.LearningProgressDTO, 0, len(all))
	for i := range all {
		out = append(out, toLearningDTO(&all[i]))
	}
	return &operation.ListProgressOutput{Body: out}, nil
}

func (h *ProgressHandler) GetCourseProgress(ctx context.Context, input *operation.GetCourseProgressInput) (*operation.GetCourseProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	cp, err := h.progressService.GetCourseProgress(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get course progress")
	}
	out := dto.CourseProgressResponseDTO{
		Progress: toLearningDTO(cp.Progress),
		Modules:  make([]dto.ModuleProgressDTO, 0, len(cp.Modules)),
	}
	for i := range cp.Modules {
		out.Modules = append(out.Modules, toModuleProgressDTO(&cp.Modules[i]))
	}
	return &operation.GetCourseProgressOutput{Body: out}, nil
}

func (h *ProgressHandler) SyncCourseProgress(ctx context.Context, input *operation.SyncCourseProgressInput) (*operation.SyncCourseProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	lp, err := h.progressService.SyncCourseProgress(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to sync course progress")
	}
	return &operation.SyncCourseProgressOutput{Body: toLearningDTO(lp)}, nil
}

func (h *ProgressHandler) ResetCourseProgress(ctx context.Context, input *operation.ResetCourseProgressInput) (*operation.ResetCourseProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.progressService.ResetCourseProgress(ctx, userID, input.CourseID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to reset course progress")
	}
	return &operation.ResetCourseProgressOutput{}, nil
}

func (h *ProgressHandler) UpdateModuleProgress(ctx context.Context, input *operation.UpdateModuleProgressInput) (*operation.UpdateModuleProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	res, err := h.progressService.UpdateModuleProgress(ctx, userID, input.ModuleID, service.ModuleProgressUpdate{
		CompletionPercentage: input.Body.CompletionPercentage,
		TimeSpentMinutes:     input.Body.TimeSpentMinutes,
		Reset:                input.Body.Reset,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to update module progress")
	}
	return &operation.UpdateModuleProgressOutput{Body: toProgressUpdateDTO(res)}, nil
}

func (h *ProgressHandler) CompleteModule(ctx context.Context, input *operation.CompleteModuleInput) (*operation.CompleteModuleOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	res, err := h.progressService.CompleteModule(ctx, userID, input.ModuleID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to complete module")
	}
	return &operation.CompleteModuleOutput{Body: toProgressUpdateDTO(res)}, nil
}

func toProgressUpdateDTO(res *service.ProgressResult) dto.ProgressUpdateResponseDTO {
	return dto.ProgressUpdateResponseDTO{
		Module: toModuleProgressDTO(res.Module),
		Course: toLearningDTO(res.Course),
	}
}

func (h *ProgressHandler) GetDashboard(ctx context.Context, _ *operation.GetDashboardInput) (*operation.GetDashboardOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	d, err := h.learningService.Dashboard(ctx, userID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to build dashboard")
	}
	out := dto.DashboardResponseDTO{
		Courses:        make([]dto.EnrolledCourseDTO, 0, len(d.Courses)),
		RecentAttempts: toAttemptDTOs(d.RecentAttempts),
		Totals: dto.DashboardTotalsDTO{
			Enrolled:              d.Totals.Enrolled,
			InProgress:            d.Totals.InProgress,
			Completed:             d.Totals.Completed,
			AverageQuizPercentage: d.Totals.AverageQuizPercentage,
		},
	}
	for i := range d.Courses {
		ec := &d.Courses[i]
		out.Courses = append(out.Courses, dto.EnrolledCourseDTO{
			Course:   toCourseDTO(&ec.Course),
			Progress: toLearningDTO(&ec.Progress),
		})
	}
	return &operation.GetDashboardOutput{Body: out}, nil
}
