package dto

import "time"

// ModuleContentDTO carries the type-specific module payload.
type ModuleContentDTO struct {
	URL             string `json:"url,omitempty"`
	Body            string `json:"body,omitempty"`
	StorageKey      string `json:"storage_key,omitempty" readOnly:"true"`
	DurationMinutes int    `json:"duration_minutes,omitempty" minimum:"0"`
	Instructions    string `json:"instructions,omitempty"`
	DueInDays       int    `json:"due_in_days,omitempty" minimum:"0"`
}

type ModuleCreateDTO struct {
	Title       string            `json:"title" minLength:"1" maxLength:"200"`
	Description *string           `json:"description,omitempty"`
	Type        string            `json:"type" enum:"video,text,quiz,assignment,interactive"`
	Content     *ModuleContentDTO `json:"content,omitempty"`
	Required    *bool             `json:"required,omitempty" doc:"Counts towards course completion (default true)"`
}

type ModuleUpdateDTO struct {
	Title       *string           `json:"title,omitempty" maxLength:"200"`
	Description *string           `json:"description,omitempty"`
	Type        *string           `json:"type,omitempty" doc:"Must match the current type"`
	Content     *ModuleContentDTO `json:"content,omitempty"`
	Required    *bool             `json:"required,omitempty"`
}

type ModuleResponseDTO struct {
	ID               string           `json:"id"`
	CourseID         string           `json:"course_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Type             string           `json:"type"`
	Content          ModuleContentDTO `json:"content"`
	QuizID           string           `json:"quiz_id,omitempty"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	Order            int              `json:"order"`
	Required         bool             `json:"required"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type ContentUploadDTO struct {
	Filename    string `json:"filename" minLength:"1"`
	ContentType string `json:"content_type,omitempty"`
}

type ContentUploadResponseDTO struct {
	UploadURL  string `json:"upload_url"`
	StorageKey string `json:"storage_key"`
}

// SignedURLResponseDTO represents a JSON response containing a signed download URL.
type SignedURLResponseDTO struct {
	URL string `json:"url"`
}
