package grading

import (
	"math"
	"strings"

	"learntrack/internal/model"
)

// Strategy scores a single question response.
type Strategy interface {
	Grade(q model.Question, response []string) model.QuestionResult
}

// Outcome is the aggregate result of grading a quiz submission.
type Outcome struct {
	Results    []model.QuestionResult
	Score      float64
	MaxScore   float64
	Percentage float64
	Passed     bool
}

// Option configures a Grader.
type Option func(*options)

type options struct {
	partialCredit bool
}

// WithPartialCredit enables proportional credit on multiple choice questions
// answered without false positives.
func WithPartialCredit(enabled bool) Option {
	return func(o *options) { o.partialCredit = enabled }
}

// Grader routes each question to the strategy registered for its type.
type Grader struct {
	strategies map[string]Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader(opts ...Option) *Grader {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Grader{
		strategies: map[string]Strategy{
			model.QuestionSingleChoice:   exactChoiceStrategy{},
			model.QuestionTrueFalse:      exactChoiceStrategy{},
			model.QuestionMultipleChoice: multiChoiceStrategy{partial: o.partialCredit},
			model.QuestionShortAnswer:    shortAnswerStrategy{},
		},
	}
}

// Grade scores answers against quiz. Questions without an answer score zero;
// answers to unknown questions are ignored (ValidateSubmission rejects them
// first).
func (g *Grader) Grade(quiz *model.Quiz, answers []model.Answer) Outcome {
	byQuestion := make(map[string][]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Response
	}

	out := Outcome{Results: make([]model.QuestionResult, 0, len(quiz.Questions))}
	for _, q := range quiz.Questions {
		var res model.QuestionResult
		s, ok := g.strategies[q.Type]
		if !ok {
			res = model.QuestionResult{QuestionID: q.ID, MaxPoints: q.Points}
		} else {
			res = s.Grade(q, byQuestion[q.ID])
		}
		out.Results = append(out.Results, res)
		out.Score += res.PointsAwarded
		out.MaxScore += res.MaxPoints
	}

	out.Score = Round2(out.Score)
	if out.MaxScore > 0 {
		out.Percentage = Round2(100 * out.Score / out.MaxScore)
	}
	passing := quiz.PassingScore
	out.Passed = out.MaxScore > 0 && out.Percentage >= passing
	return out
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalize(v)] = struct{}{}
	}
	return set
}

// --- Strategies ---

type exactChoiceStrategy struct{}

func (exactChoiceStrategy) Grade(q model.Question, response []string) model.QuestionResult {
	res := model.QuestionResult{QuestionID: q.ID, MaxPoints: q.Points}
	if len(response) != 1 {
		return res
	}
	for _, k := range q.CorrectAnswers {
		if normalize(response[0]) == normalize(k) {
			res.Correct = true
			res.PointsAwarded = q.Points
			return res
		}
	}
	return res
}

type multiChoiceStrategy struct{ partial bool }

func (s multiChoiceStrategy) Grade(q model.Question, response []string) model.QuestionResult {
	res := model.QuestionResult{QuestionID: q.ID, MaxPoints: q.Points}
	correct := toSet(q.CorrectAnswers)
	resp := toSet(response)
	if len(resp) == 0 || len(correct) == 0 {
		return res
	}

	hits := 0
	for r := range resp {
		if _, ok := correct[r]; !ok {
			// any false positive forfeits the question
			return res
		}
		hits++
	}
	if hits == len(correct) {
		res.Correct = true
		res.PointsAwarded = q.Points
		return res
	}
	if s.partial {
		res.PointsAwarded = Round2(q.Points * float64(hits) / float64(len(correct)))
	}
	return res
}

type shortAnswerStrategy struct{}

func (shortAnswerStrategy) Grade(q model.Question, response []string) model.QuestionResult {
	res := model.QuestionResult{QuestionID: q.ID, MaxPoints: q.Points}
	if len(response) == 0 {
		return res
	}
	given := normalize(strings.Join(strings.Fields(response[0]), " "))
	for _, accepted := range q.CorrectAnswers {
		if given == normalize(strings.Join(strings.Fields(accepted), " ")) {
			res.Correct = true
			res.PointsAwarded = q.Points
			return res
		}
	}
	return res
}
