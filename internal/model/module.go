package model

import "time"

// Module types
const (
	ModuleVideo       = "video"
	ModuleText        = "text"
	ModuleQuiz        = "quiz"
	ModuleAssignment  = "assignment"
	ModuleInteractive = "interactive"
)

// ModuleContent holds the type-specific payload of a module. Which fields are
// meaningful depends on Module.Type.
type ModuleContent struct {
	URL             string `bson:"url,omitempty" json:"url,omitempty"`
	Body            string `bson:"body,omitempty" json:"body,omitempty"`
	StorageKey      string `bson:"storage_key,omitempty" json:"storage_key,omitempty"`
	DurationMinutes int    `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Instructions    string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	DueInDays       int    `bson:"due_in_days,omitempty" json:"due_in_days,omitempty"`
}

type Module struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	CourseID    string        `bson:"course_id" json:"course_id" validate:"required"`
	Title       string        `bson:"title" json:"title" validate:"required,max=200"`
	Description string        `bson:"description" json:"description"`
	Type        string        `bson:"type" json:"type" validate:"oneof=video text quiz assignment interactive"`
	Content     ModuleContent `bson:"content" json:"content"`
	QuizID      string        `bson:"quiz_id,omitempty" json:"quiz_id,omitempty"`
	Order       int           `bson:"order" json:"order"`
	Required    bool          `bson:"required" json:"required"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// Clone copies the module for another course. The quiz link is dropped; the
// caller re-links the cloned quiz.
func (m *Module) Clone(courseID string) *Module {
	cp := *m
	cp.ID = ""
	cp.CourseID = courseID
	cp.QuizID = ""
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	return &cp
}
