package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"learntrack/internal/model"
	"learntrack/internal/repository"
)

type courseRepo struct{ db *DB }

func (r *courseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	id, seq := r.db.next()
	now := time.Now().UTC()
	c.ID = id
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Syllabus == nil {
		c.Syllabus = []string{}
	}
	r.db.courses[id] = row[model.Course]{seq: seq, val: copyCourse(*c)}
	return nil
}

func (r *courseRepo) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rw, ok := r.db.courses[courseID]
	if !ok {
		return nil, nil
	}
	c := copyCourse(rw.val)
	return &c, nil
}

func (r *courseRepo) ListCourses(_ context.Context, f model.CourseFilter) ([]model.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rows := make([]row[model.Course], 0, len(r.db.courses))
	for _, rw := range r.db.courses {
		if matchesCourse(rw.val, f) {
			rows = append(rows, rw)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := []model.Course{}
	for i := f.Offset; i < len(rows); i++ {
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		out = append(out, copyCourse(rows[i].val))
	}
	return out, nil
}

func matchesCourse(c model.Course, f model.CourseFilter) bool {
	if f.InstructorID != "" && c.InstructorID != f.InstructorID {
		return false
	}
	if f.PublishedOnly && !c.Published {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range c.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (r *courseRepo) UpdateCourse(_ context.Context, c *model.Course) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.courses[c.ID]
	if !ok {
		return fmt.Errorf("course %s not found", c.ID)
	}
	c.UpdatedAt = time.Now().UTC()
	rw.val = copyCourse(*c)
	r.db.courses[c.ID] = rw
	return nil
}

func (r *courseRepo) DeleteCourse(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	delete(r.db.courses, courseID)
	return nil
}

type moduleRepo struct{ db *DB }

func (r *moduleRepo) CreateModule(_ context.Context, m *model.Module) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	id, seq := r.db.next()
	now := time.Now().UTC()
	m.ID = id
	m.CreatedAt, m.UpdatedAt = now, now
	r.db.modules[id] = row[model.Module]{seq: seq, val: *m}
	return nil
}

func (r *moduleRepo) GetModuleByID(_ context.Context, moduleID string) (*model.Module, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rw, ok := r.db.modules[moduleID]
	if !ok {
		return nil, nil
	}
	m := rw.val
	return &m, nil
}

func (r *moduleRepo) GetModulesByCourseID(_ context.Context, courseID string) ([]model.Module, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rows := []row[model.Module]{}
	for _, rw := range r.db.modules {
		if rw.val.CourseID == courseID {
			rows = append(rows, rw)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].val.Order != rows[j].val.Order {
			return rows[i].val.Order < rows[j].val.Order
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]model.Module, len(rows))
	for i, rw := range rows {
		out[i] = rw.val
	}
	return out, nil
}

func (r *moduleRepo) UpdateModule(_ context.Context, m *model.Module) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.modules[m.ID]
	if !ok {
		return fmt.Errorf("module %s not found", m.ID)
	}
	m.UpdatedAt = time.Now().UTC()
	rw.val = *m
	r.db.modules[m.ID] = rw
	return nil
}

func (r *moduleRepo) DeleteModule(_ context.Context, moduleID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	delete(r.db.modules, moduleID)
	return nil
}

func (r *moduleRepo) DeleteModulesByCourseID(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.modules {
		if rw.val.CourseID == courseID {
			delete(r.db.modules, id)
		}
	}
	return nil
}

type quizRepo struct{ db *DB }

func (r *quizRepo) CreateQuiz(_ context.Context, q *model.Quiz) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, rw := range r.db.quizzes {
		if rw.val.ModuleID == q.ModuleID {
			return fmt.Errorf("module %s already has a quiz", q.ModuleID)
		}
	}
	id, seq := r.db.next()
	now := time.Now().UTC()
	q.ID = id
	q.CreatedAt, q.UpdatedAt = now, now
	r.db.quizzes[id] = row[model.Quiz]{seq: seq, val: copyQuiz(*q)}
	return nil
}

func (r *quizRepo) GetQuizByID(_ context.Context, quizID string) (*model.Quiz, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rw, ok := r.db.quizzes[quizID]
	if !ok {
		return nil, nil
	}
	q := copyQuiz(rw.val)
	return &q, nil
}

func (r *quizRepo) GetQuizByModuleID(_ context.Context, moduleID string) (*model.Quiz, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, rw := range r.db.quizzes {
		if rw.val.ModuleID == moduleID {
			q := copyQuiz(rw.val)
			return &q, nil
		}
	}
	return nil, nil
}

func (r *quizRepo) UpdateQuiz(_ context.Context, q *model.Quiz) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.quizzes[q.ID]
	if !ok {
		return fmt.Errorf("quiz %s not found", q.ID)
	}
	q.UpdatedAt = time.Now().UTC()
	rw.val = copyQuiz(*q)
	r.db.quizzes[q.ID] = rw
	return nil
}

func (r *quizRepo) DeleteQuiz(_ context.Context, quizID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	delete(r.db.quizzes, quizID)
	return nil
}

func (r *quizRepo) DeleteQuizzesByCourseID(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.quizzes {
		if rw.val.CourseID == courseID {
			delete(r.db.quizzes, id)
		}
	}
	return nil
}

type attemptRepo struct{ db *DB }

func (r *attemptRepo) CreateAttempt(_ context.Context, a *model.QuizAttempt) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, rw := range r.db.attempts {
		if rw.val.QuizID == a.QuizID && rw.val.UserID == a.UserID && rw.val.AttemptNumber == a.AttemptNumber {
			return fmt.Errorf("attempt %d at quiz %s: %w", a.AttemptNumber, a.QuizID, repository.ErrDuplicate)
		}
	}
	id, seq := r.db.next()
	a.ID = id
	r.db.attempts[id] = row[model.QuizAttempt]{seq: seq, val: copyAttempt(*a)}
	return nil
}

func (r *attemptRepo) GetAttemptByID(_ context.Context, attemptID string) (*model.QuizAttempt, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rw, ok := r.db.attempts[attemptID]
	if !ok {
		return nil, nil
	}
	a := copyAttempt(rw.val)
	return &a, nil
}

// newest returns matching attempts, most recent submission first.
func (r *attemptRepo) newest(match func(model.QuizAttempt) bool) []model.QuizAttempt {
	rows := []row[model.QuizAttempt]{}
	for _, rw := range r.db.attempts {
		if match(rw.val) {
			rows = append(rows, rw)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.val.SubmittedAt.Equal(b.val.SubmittedAt) {
			return a.val.SubmittedAt.After(b.val.SubmittedAt)
		}
		return a.seq > b.seq
	})
	out := make([]model.QuizAttempt, len(rows))
	for i, rw := range rows {
		out[i] = copyAttempt(rw.val)
	}
	return out
}

func (r *attemptRepo) ListAttempts(_ context.Context, quizID, userID string) ([]model.QuizAttempt, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.newest(func(a model.QuizAttempt) bool {
		return a.QuizID == quizID && a.UserID == userID
	}), nil
}

func (r *attemptRepo) CountAttempts(_ context.Context, quizID, userID string) (int, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	n := 0
	for _, rw := range r.db.attempts {
		if rw.val.QuizID == quizID && rw.val.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *attemptRepo) ListRecentAttemptsByUser(_ context.Context, userID string, limit int) ([]model.QuizAttempt, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	out := r.newest(func(a model.QuizAttempt) bool { return a.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *attemptRepo) DeleteAttemptsByQuizID(_ context.Context, quizID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.attempts {
		if rw.val.QuizID == quizID {
			delete(r.db.attempts, id)
		}
	}
	return nil
}

func (r *attemptRepo) DeleteAttemptsByCourseID(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.attempts {
		if rw.val.CourseID == courseID {
			delete(r.db.attempts, id)
		}
	}
	return nil
}
