package dto

import "time"

type QuestionDTO struct {
	ID             string   `json:"id,omitempty" doc:"Assigned when empty"`
	Prompt         string   `json:"prompt"`
	Type           string   `json:"type" enum:"single_choice,multiple_choice,true_false,short_answer"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty" doc:"Omitted for learners"`
	Points         float64  `json:"points,omitempty" doc:"Defaults to 1"`
	Explanation    string   `json:"explanation,omitempty"`
}

type QuizDefinitionDTO struct {
	Title            string        `json:"title" minLength:"1" maxLength:"200"`
	Questions        []QuestionDTO `json:"questions" minItems:"1"`
	PassingScore     *float64      `json:"passing_score,omitempty" minimum:"0" maximum:"100" doc:"Defaults to 70"`
	TimeLimitMinutes int           `json:"time_limit_minutes,omitempty" minimum:"0"`
	MaxAttempts      int           `json:"max_attempts,omitempty" minimum:"0" doc:"0 means unlimited"`
	Shuffle          bool          `json:"shuffle,omitempty"`
}

type QuizResponseDTO struct {
	ID               string        `json:"id"`
	CourseID         string        `json:"course_id"`
	ModuleID         string        `json:"module_id"`
	Title            string        `json:"title"`
	Questions        []QuestionDTO `json:"questions"`
	MaxScore         float64       `json:"max_score"`
	PassingScore     float64       `json:"passing_score"`
	TimeLimitMinutes int           `json:"time_limit_minutes"`
	MaxAttempts      int           `json:"max_attempts"`
	Shuffle          bool          `json:"shuffle"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type AnswerDTO struct {
	QuestionID string   `json:"question_id"`
	Response   []string `json:"response"`
}

type AttemptSubmitDTO struct {
	Answers   []AnswerDTO `json:"answers"`
	StartedAt *time.Time  `json:"started_at,omitempty" doc:"When set, the quiz time limit is enforced"`
}

type QuestionResultDTO struct {
	QuestionID    string  `json:"question_id"`
	Correct       bool    `json:"correct"`
	PointsAwarded float64 `json:"points_awarded"`
	MaxPoints     float64 `json:"max_points"`
}

type AttemptResponseDTO struct {
	ID            string              `json:"id"`
	QuizID        string              `json:"quiz_id"`
	CourseID      string              `json:"course_id"`
	ModuleID      string              `json:"module_id"`
	AttemptNumber int                 `json:"attempt_number"`
	Answers       []AnswerDTO         `json:"answers"`
	Results       []QuestionResultDTO `json:"results"`
	Score         float64             `json:"score"`
	MaxScore      float64             `json:"max_score"`
	Percentage    float64             `json:"percentage"`
	Passed        bool                `json:"passed"`
	StartedAt     *time.Time          `json:"started_at,omitempty"`
	SubmittedAt   time.Time           `json:"submitted_at"`
}

type GradedAttemptResponseDTO struct {
	Attempt        AttemptResponseDTO   `json:"attempt"`
	ModuleProgress *ModuleProgressDTO   `json:"module_progress,omitempty"`
	CourseProgress *LearningProgressDTO `json:"course_progress,omitempty"`
}
