package model

import "time"

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course is a catalog entry owning an ordered syllabus of modules.
type Course struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	InstructorID   string    `bson:"instructor_id" json:"instructor_id" validate:"required"`
	Title          string    `bson:"title" json:"title" validate:"required,max=200"`
	Description    string    `bson:"description" json:"description"`
	Category       string    `bson:"category" json:"category"`
	Level          string    `bson:"level" json:"level" validate:"oneof=beginner intermediate advanced"`
	Tags           []string  `bson:"tags" json:"tags"`
	Syllabus       []string  `bson:"syllabus" json:"syllabus"`
	EstimatedHours float64   `bson:"estimated_hours" json:"estimated_hours" validate:"gte=0"`
	Published      bool      `bson:"published" json:"published"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy with identity and timestamps cleared, ready to be
// stored as a new course.
func (c *Course) Clone() *Course {
	cp := *c
	cp.ID = ""
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	cp.Tags = append([]string(nil), c.Tags...)
	cp.Syllabus = append([]string(nil), c.Syllabus...)
	return &cp
}

// HasModule reports whether moduleID is part of the syllabus.
func (c *Course) HasModule(moduleID string) bool {
	for _, id := range c.Syllabus {
		if id == moduleID {
			return true
		}
	}
	return false
}

// CourseFilter narrows catalog listings.
type CourseFilter struct {
	InstructorID  string
	PublishedOnly bool
	Category      string
	Level         string
	Tag           string
	Search        string
	Limit         int
	Offset        int
}
