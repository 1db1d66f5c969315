package handler

import (
	"context"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/api/v1/operation"
	"learntrack/internal/model"
	"learntrack/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService service.CourseService
	logger        zerolog.Logger
}

func NewCourseHandler(courseService service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger,
	}
}

func (h *CourseHandler) CreateCourse(ctx context.Context, input *operation.CreateCourseInput) (*operation.CreateCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	course := &model.Course{Title: b.Title, Tags: b.Tags}
	if b.Description != nil {
		course.Description = *b.Description
	}
	if b.Category != nil {
		course.Category = *b.Category
	}
	if b.Level != nil {
		course.Level = *b.Level
	}
	if b.EstimatedHours != nil {
		course.EstimatedHours = *b.EstimatedHours
	}

	created, err := h.courseService.CreateCourse(ctx, userID, course)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create course")
	}
	return &operation.CreateCourseOutput{Body: toCourseDTO(created)}, nil
}

func (h *CourseHandler) ListCourses(ctx context.Context, input *operation.ListCoursesInput) (*operation.ListCoursesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := h.courseService.ListCourses(ctx, userID, service.CourseListQuery{
		Category: input.Category,
		Level:    input.Level,
		Tag:      input.Tag,
		Search:   input.Search,
		Mine:     input.Mine,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list courses")
	}
	return &operation.ListCoursesOutput{Body: toCourseDTOs(courses)}, nil
}

func (h *CourseHandler) GetCourse(ctx context.Context, input *operation.GetCourseInput) (*operation.GetCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	course, err := h.courseService.GetCourse(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get course")
	}
	return &operation.GetCourseOutput{Body: toCourseDTO(course)}, nil
}

func (h *CourseHandler) UpdateCourse(ctx context.Context, input *operation.UpdateCourseInput) (*operation.UpdateCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	updated, err := h.courseService.UpdateCourse(ctx, userID, input.CourseID, service.CoursePatch{
		Title:          b.Title,
		Description:    b.Description,
		Category:       b.Category,
		Level:          b.Level,
		Tags:           b.Tags,
		EstimatedHours: b.EstimatedHours,
		Published:      b.Published,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to update course")
	}
	return &operation.UpdateCourseOutput{Body: toCourseDTO(updated)}, nil
}

func (h *CourseHandler) DeleteCourse(ctx context.Context, input *operation.DeleteCourseInput) (*operation.DeleteCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.courseService.DeleteCourse(ctx, userID, input.CourseID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to delete course")
	}
	return &operation.DeleteCourseOutput{}, nil
}

func (h *CourseHandler) DuplicateCourse(ctx context.Context, input *operation.DuplicateCourseInput) (*operation.DuplicateCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	copied, err := h.courseService.DuplicateCourse(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to duplicate course")
	}
	return &operation.DuplicateCourseOutput{Body: toCourseDTO(copied)}, nil
}

func (h *CourseHandler) ReorderSyllabus(ctx context.Context, input *operation.ReorderSyllabusInput) (*operation.ReorderSyllabusOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	course, err := h.courseService.ReorderSyllabus(ctx, userID, input.CourseID, input.Body.ModuleIDs)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to reorder syllabus")
	}
	return &operation.ReorderSyllabusOutput{Body: toCourseDTO(course)}, nil
}

func (h *CourseHandler) GetCourseStats(ctx context.Context, input *operation.GetCourseStatsInput) (*operation.GetCourseStatsOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s, err := h.courseService.GetCourseStats(ctx, userID, input.CourseID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get course stats")
	}
	return &operation.GetCourseStatsOutput{Body: dto.CourseStatsResponseDTO{
		CourseID:              input.CourseID,
		Enrollments:           s.Enrollments,
		Completions:           s.Completions,
		QuizAttempts:          s.QuizAttempts,
		QuizPasses:            s.QuizPasses,
		AverageQuizPercentage: s.AverageQuizPercentage(),
		UpdatedAt:             s.UpdatedAt,
	}}, nil
}
