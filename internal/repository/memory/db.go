// Package memory holds in-process implementations of the repository
// interfaces, used by tests and by the admin CLI's dry-run mode.
package memory

import (
	"sync"
	"time"

	"learntrack/internal/model"
	"learntrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type row[T any] struct {
	seq int64
	val T
}

// DB is the shared backing store of the memory repositories.
type DB struct {
	mutex sync.RWMutex
	seq   int64

	courses   map[string]row[model.Course]
	modules   map[string]row[model.Module]
	quizzes   map[string]row[model.Quiz]
	attempts  map[string]row[model.QuizAttempt]
	learning  map[string]row[model.LearningProgress]
	moduleP   map[string]row[model.ModuleProgress]
	stats     map[string]model.CourseStats
	processed map[string]struct{}
	dlq       []model.DeadLetterMessage
}

func NewDB() *DB {
	return &DB{
		courses:   map[string]row[model.Course]{},
		modules:   map[string]row[model.Module]{},
		quizzes:   map[string]row[model.Quiz]{},
		attempts:  map[string]row[model.QuizAttempt]{},
		learning:  map[string]row[model.LearningProgress]{},
		moduleP:   map[string]row[model.ModuleProgress]{},
		stats:     map[string]model.CourseStats{},
		processed: map[string]struct{}{},
	}
}

// NewRepositories returns every repository backed by a fresh DB.
func NewRepositories() *repository.Repositories {
	return NewDB().Repositories()
}

func (db *DB) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Courses:  &courseRepo{db: db},
		Modules:  &moduleRepo{db: db},
		Quizzes:  &quizRepo{db: db},
		Attempts: &attemptRepo{db: db},
		Progress: &progressRepo{db: db},
		Stats:    &statsRepo{db: db},
		DLQ:      &dlqRepo{db: db},
	}
}

// DeadLetters returns the stored dead-letter messages.
func (db *DB) DeadLetters() []model.DeadLetterMessage {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return append([]model.DeadLetterMessage(nil), db.dlq...)
}

// next must be called with the write lock held.
func (db *DB) next() (string, int64) {
	db.seq++
	return primitive.NewObjectID().Hex(), db.seq
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func copyCourse(c model.Course) model.Course {
	c.Tags = cloneStrings(c.Tags)
	c.Syllabus = cloneStrings(c.Syllabus)
	return c
}

func copyQuiz(q model.Quiz) model.Quiz {
	qs := make([]model.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = cloneStrings(question.Options)
		question.CorrectAnswers = cloneStrings(question.CorrectAnswers)
		qs[i] = question
	}
	q.Questions = qs
	return q
}

func copyAttempt(a model.QuizAttempt) model.QuizAttempt {
	answers := make([]model.Answer, len(a.Answers))
	for i, ans := range a.Answers {
		ans.Response = cloneStrings(ans.Response)
		answers[i] = ans
	}
	a.Answers = answers
	a.Results = append([]model.QuestionResult(nil), a.Results...)
	return a
}

func copyLearning(p model.LearningProgress) model.LearningProgress {
	p.CompletedModules = cloneStrings(p.CompletedModules)
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}
	p.StartedAt = copyTime(p.StartedAt)
	p.CompletedAt = copyTime(p.CompletedAt)
	return p
}

func copyModuleProgress(p model.ModuleProgress) model.ModuleProgress {
	if p.BestQuizScore != nil {
		v := *p.BestQuizScore
		p.BestQuizScore = &v
	}
	p.CompletedAt = copyTime(p.CompletedAt)
	return p
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
