package model

import "time"

// Progress statuses shared by course and module progress.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// LearningProgress aggregates one user's completion of one course.
type LearningProgress struct {
	ID                   string     `bson:"_id,omitempty" json:"id"`
	UserID               string     `bson:"user_id" json:"user_id"`
	CourseID             string     `bson:"course_id" json:"course_id"`
	Status               string     `bson:"status" json:"status"`
	CompletionPercentage float64    `bson:"completion_percentage" json:"completion_percentage"`
	CompletedModules     []string   `bson:"completed_modules" json:"completed_modules"`
	CurrentModuleID      string     `bson:"current_module_id,omitempty" json:"current_module_id,omitempty"`
	TimeSpentMinutes     int        `bson:"time_spent_minutes" json:"time_spent_minutes"`
	StartedAt            *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	LastAccessedAt       time.Time  `bson:"last_accessed_at" json:"last_accessed_at"`
	CompletedAt          *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt            time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `bson:"updated_at" json:"updated_at"`
}

// ModuleProgress tracks one user's completion of one module.
type ModuleProgress struct {
	ID                   string     `bson:"_id,omitempty" json:"id"`
	UserID               string     `bson:"user_id" json:"user_id"`
	CourseID             string     `bson:"course_id" json:"course_id"`
	ModuleID             string     `bson:"module_id" json:"module_id"`
	Status               string     `bson:"status" json:"status"`
	CompletionPercentage float64    `bson:"completion_percentage" json:"completion_percentage"`
	TimeSpentMinutes     int        `bson:"time_spent_minutes" json:"time_spent_minutes"`
	BestQuizScore        *float64   `bson:"best_quiz_score,omitempty" json:"best_quiz_score,omitempty"`
	QuizAttempts         int        `bson:"quiz_attempts" json:"quiz_attempts"`
	LastAccessedAt       time.Time  `bson:"last_accessed_at" json:"last_accessed_at"`
	CompletedAt          *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt            time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `bson:"updated_at" json:"updated_at"`
}

// IsCompleted reports whether the module counts towards course completion.
func (p *ModuleProgress) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// CourseStats holds aggregate counters maintained from progress events.
type CourseStats struct {
	CourseID            string    `bson:"_id" json:"course_id"`
	Enrollments         int64     `bson:"enrollments" json:"enrollments"`
	Completions         int64     `bson:"completions" json:"completions"`
	QuizAttempts        int64     `bson:"quiz_attempts" json:"quiz_attempts"`
	QuizPasses          int64     `bson:"quiz_passes" json:"quiz_passes"`
	TotalQuizPercentage float64   `bson:"total_quiz_percentage" json:"total_quiz_percentage"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// AverageQuizPercentage is the mean attempt percentage, 0 without attempts.
func (s *CourseStats) AverageQuizPercentage() float64 {
	if s.QuizAttempts == 0 {
		return 0
	}
	return s.TotalQuizPercentage / float64(s.QuizAttempts)
}
