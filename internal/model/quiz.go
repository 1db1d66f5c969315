package model

import "time"

// Question types
const (
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

const DefaultPassingScore = 70

type Question struct {
	ID             string   `bson:"id" json:"id"`
	Prompt         string   `bson:"prompt" json:"prompt"`
	Type           string   `bson:"type" json:"type"`
	Options        []string `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswers []string `bson:"correct_answers" json:"correct_answers,omitempty"`
	Points         float64  `bson:"points" json:"points"`
	Explanation    string   `bson:"explanation,omitempty" json:"explanation,omitempty"`
}

type Quiz struct {
	ID               string     `bson:"_id,omitempty" json:"id"`
	CourseID         string     `bson:"course_id" json:"course_id"`
	ModuleID         string     `bson:"module_id" json:"module_id"`
	Title            string     `bson:"title" json:"title"`
	Questions        []Question `bson:"questions" json:"questions"`
	PassingScore     float64    `bson:"passing_score" json:"passing_score"`
	TimeLimitMinutes int        `bson:"time_limit_minutes" json:"time_limit_minutes"`
	MaxAttempts      int        `bson:"max_attempts" json:"max_attempts"`
	Shuffle          bool       `bson:"shuffle" json:"shuffle"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// MaxScore is the sum of all question points.
func (q *Quiz) MaxScore() float64 {
	total := 0.0
	for _, qs := range q.Questions {
		total += qs.Points
	}
	return total
}

// Question looks up a question by id.
func (q *Quiz) Question(id string) (Question, bool) {
	for _, qs := range q.Questions {
		if qs.ID == id {
			return qs, true
		}
	}
	return Question{}, false
}

// WithoutAnswers returns a copy safe to show to learners.
func (q *Quiz) WithoutAnswers() *Quiz {
	cp := *q
	cp.Questions = make([]Question, len(q.Questions))
	for i, qs := range q.Questions {
		qs.CorrectAnswers = nil
		qs.Explanation = ""
		cp.Questions[i] = qs
	}
	return &cp
}

// Clone deep-copies the quiz onto another course/module pair.
func (q *Quiz) Clone(courseID, moduleID string) *Quiz {
	cp := *q
	cp.ID = ""
	cp.CourseID = courseID
	cp.ModuleID = moduleID
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	cp.Questions = make([]Question, len(q.Questions))
	for i, qs := range q.Questions {
		qs.Options = append([]string(nil), qs.Options...)
		qs.CorrectAnswers = append([]string(nil), qs.CorrectAnswers...)
		cp.Questions[i] = qs
	}
	return &cp
}

// Answer is a learner's response to one question.
type Answer struct {
	QuestionID string   `bson:"question_id" json:"question_id"`
	Response   []string `bson:"response" json:"response"`
}

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	QuestionID    string  `bson:"question_id" json:"question_id"`
	Correct       bool    `bson:"correct" json:"correct"`
	PointsAwarded float64 `bson:"points_awarded" json:"points_awarded"`
	MaxPoints     float64 `bson:"max_points" json:"max_points"`
}

type QuizAttempt struct {
	ID            string           `bson:"_id,omitempty" json:"id"`
	QuizID        string           `bson:"quiz_id" json:"quiz_id"`
	CourseID      string           `bson:"course_id" json:"course_id"`
	ModuleID      string           `bson:"module_id" json:"module_id"`
	UserID        string           `bson:"user_id" json:"user_id"`
	AttemptNumber int              `bson:"attempt_number" json:"attempt_number"`
	Answers       []Answer         `bson:"answers" json:"answers"`
	Results       []QuestionResult `bson:"results" json:"results"`
	Score         float64          `bson:"score" json:"score"`
	MaxScore      float64          `bson:"max_score" json:"max_score"`
	Percentage    float64          `bson:"percentage" json:"percentage"`
	Passed        bool             `bson:"passed" json:"passed"`
	StartedAt     *time.Time       `bson:"started_at,omitempty" json:"started_at,omitempty"`
	SubmittedAt   time.Time        `bson:"submitted_at" json:"submitted_at"`
}
