package dto

import "time"

type LearningProgressDTO struct {
	ID                   string     `json:"id"`
	CourseID             string     `json:"course_id"`
	Status               string     `json:"status"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CompletedModules     []string   `json:"completed_modules"`
	CurrentModuleID      string     `json:"current_module_id,omitempty"`
	TimeSpentMinutes     int        `json:"time_spent_minutes"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type ModuleProgressDTO struct {
	ModuleID             string     `json:"module_id"`
	CourseID             string     `json:"course_id"`
	Status               string     `json:"status"`
	CompletionPercentage float64    `json:"completion_percentage"`
	TimeSpentMinutes     int        `json:"time_spent_minutes"`
	BestQuizScore        *float64   `json:"best_quiz_score,omitempty"`
	QuizAttempts         int        `json:"quiz_attempts"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type CourseProgressResponseDTO struct {
	Progress LearningProgressDTO `json:"progress"`
	Modules  []ModuleProgressDTO `json:"modules"`
}

type ModuleProgressUpdateDTO struct {
	CompletionPercentage *float64 `json:"completion_percentage,omitempty" minimum:"0" maximum:"100"`
	TimeSpentMinutes     int      `json:"time_spent_minutes,omitempty" minimum:"0" doc:"Minutes to add"`
	Reset                bool     `json:"reset,omitempty" doc:"Allow lowering a completed module"`
}

type ProgressUpdateResponseDTO struct {
	Module ModuleProgressDTO   `json:"module"`
	Course LearningProgressDTO `json:"course"`
}

type EnrollmentResponseDTO struct {
	Course   CourseResponseDTO   `json:"course"`
	Modules  []ModuleResponseDTO `json:"modules"`
	Progress LearningProgressDTO `json:"progress"`
	Created  bool                `json:"created"`
}

type EnrolledCourseDTO struct {
	Course   CourseResponseDTO   `json:"course"`
	Progress LearningProgressDTO `json:"progress"`
}

type DashboardTotalsDTO struct {
	Enrolled              int     `json:"enrolled"`
	InProgress            int     `json:"in_progress"`
	Completed             int     `json:"completed"`
	AverageQuizPercentage float64 `json:"average_quiz_percentage"`
}

type DashboardResponseDTO struct {
	Courses        []EnrolledCourseDTO  `json:"courses"`
	RecentAttempts []AttemptResponseDTO `json:"recent_attempts"`
	Totals         DashboardTotalsDTO   `json:"totals"`
}
