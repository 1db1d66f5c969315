package dto

import "time"

type CourseCreateDTO struct {
	Title          string   `json:"title" minLength:"1" maxLength:"200"`
	Description    *string  `json:"description,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Level          *string  `json:"level,omitempty" enum:"beginner,intermediate,advanced"`
	Tags           []string `json:"tags,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" minimum:"0"`
}

type CourseUpdateDTO struct {
	Title          *string   `json:"title,omitempty" maxLength:"200"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Level          *string   `json:"level,omitempty" enum:"beginner,intermediate,advanced"`
	Tags           *[]string `json:"tags,omitempty"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty" minimum:"0"`
	Published      *bool     `json:"published,omitempty"`
}

type CourseResponseDTO struct {
	ID             string    `json:"id"`
	InstructorID   string    `json:"instructor_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Level          string    `json:"level"`
	Tags           []string  `json:"tags"`
	Syllabus       []string  `json:"syllabus"`
	EstimatedHours float64   `json:"estimated_hours"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SyllabusOrderDTO struct {
	ModuleIDs []string `json:"module_ids" doc:"Every module id of the course in the new order"`
}

type CourseStatsResponseDTO struct {
	CourseID              string    `json:"course_id"`
	Enrollments           int64     `json:"enrollments"`
	Completions           int64     `json:"completions"`
	QuizAttempts          int64     `json:"quiz_attempts"`
	QuizPasses            int64     `json:"quiz_passes"`
	AverageQuizPercentage float64   `json:"average_quiz_percentage"`
	UpdatedAt             time.Time `json:"updated_at"`
}
