// Package catalog reads course catalogs authored as YAML and adapts them to
// domain models.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"learntrack/internal/model"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Courses []CourseEntry `yaml:"courses"`
}

type CourseEntry struct {
	Instructor     string        `yaml:"instructor"`
	Title          string        `yaml:"title"`
	Description    string        `yaml:"description"`
	Category       string        `yaml:"category"`
	Level          string        `yaml:"level"`
	Tags           []string      `yaml:"tags"`
	EstimatedHours float64       `yaml:"estimated_hours"`
	Published      bool          `yaml:"published"`
	Modules        []ModuleEntry `yaml:"modules"`
}

type ModuleEntry struct {
	Title           string     `yaml:"title"`
	Description     string     `yaml:"description"`
	Type            string     `yaml:"type"`
	Required        *bool      `yaml:"required"`
	URL             string     `yaml:"url"`
	Body            string     `yaml:"body"`
	DurationMinutes int        `yaml:"duration_minutes"`
	Instructions    string     `yaml:"instructions"`
	DueInDays       int        `yaml:"due_in_days"`
	Quiz            *QuizEntry `yaml:"quiz"`
}

type QuizEntry struct {
	Title            string          `yaml:"title"`
	PassingScore     *float64        `yaml:"passing_score"`
	TimeLimitMinutes int             `yaml:"time_limit_minutes"`
	MaxAttempts      int             `yaml:"max_attempts"`
	Shuffle          bool            `yaml:"shuffle"`
	Questions        []QuestionEntry `yaml:"questions"`
}

type QuestionEntry struct {
	Prompt      string   `yaml:"prompt"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options"`
	Answers     []string `yaml:"answers"`
	Points      float64  `yaml:"points"`
	Explanation string   `yaml:"explanation"`
}

// Parse decodes a catalog, rejecting unknown keys so typos surface early.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(c.Courses) == 0 {
		return nil, errors.New("catalog has no courses")
	}
	for i, ce := range c.Courses {
		for j, me := range ce.Modules {
			if me.Quiz != nil && me.Type != "" && me.Type != model.ModuleQuiz {
				return nil, fmt.Errorf("course %d module %d: quiz given for a %s module", i+1, j+1, me.Type)
			}
		}
	}
	return &c, nil
}

func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Course maps the entry onto a new, unpublished course. Publishing happens
// after the modules exist.
func (e CourseEntry) Course() *model.Course {
	return &model.Course{
		Title:          e.Title,
		Description:    e.Description,
		Category:       e.Category,
		Level:          e.Level,
		Tags:           e.Tags,
		EstimatedHours: e.EstimatedHours,
	}
}

func (e ModuleEntry) Module() *model.Module {
	typ := e.Type
	if typ == "" && e.Quiz != nil {
		typ = model.ModuleQuiz
	}
	required := true
	if e.Required != nil {
		required = *e.Required
	}
	return &model.Module{
		Title:       e.Title,
		Description: e.Description,
		Type:        typ,
		Required:    required,
		Content: model.ModuleContent{
			URL:             e.URL,
			Body:            e.Body,
			DurationMinutes: e.DurationMinutes,
			Instructions:    e.Instructions,
			DueInDays:       e.DueInDays,
		},
	}
}

// Quiz maps the entry onto a quiz. An untitled quiz takes the module title.
func (e QuizEntry) Quiz(moduleTitle string) *model.Quiz {
	q := &model.Quiz{
		Title:            e.Title,
		PassingScore:     model.DefaultPassingScore,
		TimeLimitMinutes: e.TimeLimitMinutes,
		MaxAttempts:      e.MaxAttempts,
		Shuffle:          e.Shuffle,
		Questions:        make([]model.Question, 0, len(e.Questions)),
	}
	if q.Title == "" {
		q.Title = moduleTitle
	}
	if e.PassingScore != nil {
		q.PassingScore = *e.PassingScore
	}
	for _, qe := range e.Questions {
		q.Questions = append(q.Questions, model.Question{
			Prompt:         qe.Prompt,
			Type:           qe.Type,
			Options:        qe.Options,
			CorrectAnswers: qe.Answers,
			Points:         qe.Points,
			Explanation:    qe.Explanation,
		})
	}
	return q
}
