// Package content builds the typed view of a module's content payload.
package content

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"learntrack/internal/model"
)

// ErrUnknownType is returned by New for module types it cannot build.
var ErrUnknownType = errors.New("unknown module type")

const wordsPerMinute = 200

// Content is the behaviour shared by every module content kind.
type Content interface {
	Validate() error
	EstimatedMinutes() int
}

// EstimatedMinutes is the expected time a learner spends on a module of
// moduleType, or zero when the type is unknown.
func EstimatedMinutes(moduleType string, c model.ModuleContent) int {
	v, err := New(moduleType, c)
	if err != nil {
		return 0
	}
	return v.EstimatedMinutes()
}

// New returns the content implementation for moduleType.
func New(moduleType string, c model.ModuleContent) (Content, error) {
	switch moduleType {
	case model.ModuleVideo:
		return video{c}, nil
	case model.ModuleText:
		return text{c}, nil
	case model.ModuleQuiz:
		return quiz{c}, nil
	case model.ModuleAssignment:
		return assignment{c}, nil
	case model.ModuleInteractive:
		return interactive{c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, moduleType)
	}
}

type video struct{ c model.ModuleContent }

func (v video) Validate() error {
	// The source may be uploaded after creation, so url is optional.
	if v.c.URL != "" {
		if err := validURL(v.c.URL); err != nil {
			return err
		}
	}
	if v.c.DurationMinutes <= 0 {
		return errors.New("video content needs a positive duration")
	}
	return nil
}

func (v video) EstimatedMinutes() int { return v.c.DurationMinutes }

type text struct{ c model.ModuleContent }

func (t text) Validate() error {
	if strings.TrimSpace(t.c.Body) == "" {
		return errors.New("text content needs a body")
	}
	return nil
}

func (t text) EstimatedMinutes() int {
	if t.c.DurationMinutes > 0 {
		return t.c.DurationMinutes
	}
	words := len(strings.Fields(t.c.Body))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

type quiz struct{ c model.ModuleContent }

func (q quiz) Validate() error {
	if q.c.URL != "" || q.c.Body != "" || q.c.StorageKey != "" {
		return errors.New("quiz modules carry their questions in a quiz, not in content")
	}
	return nil
}

func (q quiz) EstimatedMinutes() int { return q.c.DurationMinutes }

type assignment struct{ c model.ModuleContent }

func (a assignment) Validate() error {
	if strings.TrimSpace(a.c.Instructions) == "" {
		return errors.New("assignment content needs instructions")
	}
	if a.c.DueInDays < 0 {
		return errors.New("assignment due_in_days must not be negative")
	}
	return nil
}

func (a assignment) EstimatedMinutes() int { return a.c.DurationMinutes }

type interactive struct{ c model.ModuleContent }

func (i interactive) Validate() error {
	if i.c.URL == "" {
		return errors.New("interactive content needs a url")
	}
	return validURL(i.c.URL)
}

func (i interactive) EstimatedMinutes() int { return i.c.DurationMinutes }

func validURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid content url %q", raw)
	}
	return nil
}
