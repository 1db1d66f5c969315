package grading

import (
	"fmt"
	"strings"
	"time"

	"learntrack/internal/model"
)

// ValidationError lists every problem found in a quiz or submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// ValidateQuiz checks that a quiz definition can be graded.
func ValidateQuiz(q *model.Quiz) error {
	verr := &ValidationError{}
	if strings.TrimSpace(q.Title) == "" {
		verr.add("title is required")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		verr.add("passing_score must be between 0 and 100")
	}
	if q.TimeLimitMinutes < 0 {
		verr.add("time_limit_minutes must not be negative")
	}
	if q.MaxAttempts < 0 {
		verr.add("max_attempts must not be negative")
	}
	if len(q.Questions) == 0 {
		verr.add("at least one question is required")
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for i, qs := range q.Questions {
		label := fmt.Sprintf("question %d", i+1)
		if qs.ID != "" {
			if _, dup := seen[qs.ID]; dup {
				verr.add("%s: duplicate id %q", label, qs.ID)
			}
			seen[qs.ID] = struct{}{}
		}
		if strings.TrimSpace(qs.Prompt) == "" {
			verr.add("%s: prompt is required", label)
		}
		if qs.Points <= 0 {
			verr.add("%s: points must be positive", label)
		}
		validateQuestionAnswers(verr, label, qs)
	}
	return verr.orNil()
}

func validateQuestionAnswers(verr *ValidationError, label string, qs model.Question) {
	switch qs.Type {
	case model.QuestionSingleChoice, model.QuestionMultipleChoice, model.QuestionTrueFalse:
		options := toSet(qs.Options)
		if len(options) != len(qs.Options) {
			verr.add("%s: options must be distinct", label)
		}
		if len(options) < 2 {
			verr.add("%s: at least two options are required", label)
		}
		if qs.Type == model.QuestionTrueFalse {
			_, hasTrue := options["true"]
			_, hasFalse := options["false"]
			if len(options) != 2 || !hasTrue || !hasFalse {
				verr.add("%s: true_false options must be true and false", label)
			}
		}
		if len(qs.CorrectAnswers) == 0 {
			verr.add("%s: a correct answer is required", label)
		}
		if qs.Type != model.QuestionMultipleChoice && len(qs.CorrectAnswers) > 1 {
			verr.add("%s: %s takes exactly one correct answer", label, qs.Type)
		}
		for _, a := range qs.CorrectAnswers {
			if _, ok := options[normalize(a)]; !ok {
				verr.add("%s: correct answer %q is not an option", label, a)
			}
		}
	case model.QuestionShortAnswer:
		accepted := 0
		for _, a := range qs.CorrectAnswers {
			if strings.TrimSpace(a) != "" {
				accepted++
			}
		}
		if accepted == 0 {
			verr.add("%s: at least one accepted answer is required", label)
		}
	default:
		verr.add("%s: unknown type %q", label, qs.Type)
	}
}

// ValidateSubmission checks answers against the quiz definition. startedAt is
// optional; when set the quiz time limit is enforced against now.
func ValidateSubmission(q *model.Quiz, answers []model.Answer, startedAt *time.Time, now time.Time) error {
	verr := &ValidationError{}
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		qs, ok := q.Question(a.QuestionID)
		if !ok {
			verr.add("unknown question %q", a.QuestionID)
			continue
		}
		if _, dup := seen[a.QuestionID]; dup {
			verr.add("question %q answered more than once", a.QuestionID)
			continue
		}
		seen[a.QuestionID] = struct{}{}
		if qs.Type != model.QuestionMultipleChoice && len(a.Response) > 1 {
			verr.add("question %q takes a single response", a.QuestionID)
		}
	}

	if startedAt != nil {
		if startedAt.After(now) {
			verr.add("started_at is in the future")
		} else if q.TimeLimitMinutes > 0 {
			// one minute of grace
			limit := time.Duration(q.TimeLimitMinutes+1) * time.Minute
			if now.Sub(*startedAt) > limit {
				verr.add("time limit of %d minutes exceeded", q.TimeLimitMinutes)
			}
		}
	}
	return verr.orNil()
}
