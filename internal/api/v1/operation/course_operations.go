package operation

import "learntrack/internal/api/v1/dto"

// Course CRUD Operations

type CreateCourseInput struct {
	Body dto.CourseCreateDTO `json:"body"`
}

type CreateCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type ListCoursesInput struct {
	Category string `query:"category" doc:"Filter by category"`
	Level    string `query:"level" enum:"beginner,intermediate,advanced" doc:"Filter by level"`
	Tag      string `query:"tag" doc:"Filter by tag"`
	Search   string `query:"search" doc:"Case-insensitive title substring"`
	Mine     bool   `query:"mine" doc:"Only courses taught by the caller, drafts included"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum number of courses to return"`
	Offset   int    `query:"offset" default:"0" minimum:"0" doc:"Number of courses to skip"`
}

type ListCoursesOutput struct {
	Body []dto.CourseResponseDTO `json:"body"`
}

type GetCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type UpdateCourseInput struct {
	CourseID string              `path:"courseId" doc:"Course ID"`
	Body     dto.CourseUpdateDTO `json:"body"`
}

type UpdateCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type DeleteCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type DeleteCourseOutput struct {
	// 204 No Content
}

type DuplicateCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type DuplicateCourseOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type ReorderSyllabusInput struct {
	CourseID string               `path:"courseId" doc:"Course ID"`
	Body     dto.SyllabusOrderDTO `json:"body"`
}

type ReorderSyllabusOutput struct {
	Body dto.CourseResponseDTO `json:"body"`
}

type GetCourseStatsInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseStatsOutput struct {
	Body dto.CourseStatsResponseDTO `json:"body"`
}
