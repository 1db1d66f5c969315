package memory

import (
	"context"
	"sort"
	"time"

	"learntrack/internal/model"
	"learntrack/internal/repository"
)

type progressRepo struct{ db *DB }

func (r *progressRepo) findLearning(userID, courseID string) (string, bool) {
	for id, rw := range r.db.learning {
		if rw.val.UserID == userID && rw.val.CourseID == courseID {
			return id, true
		}
	}
	return "", false
}

func (r *progressRepo) GetLearningProgress(_ context.Context, userID, courseID string) (*model.LearningProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	id, ok := r.findLearning(userID, courseID)
	if !ok {
		return nil, nil
	}
	p := copyLearning(r.db.learning[id].val)
	return &p, nil
}

func (r *progressRepo) listLearning(match func(model.LearningProgress) bool) []model.LearningProgress {
	out := []model.LearningProgress{}
	for _, rw := range r.db.learning {
		if match(rw.val) {
			out = append(out, copyLearning(rw.val))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAccessedAt.After(out[j].LastAccessedAt) })
	return out
}

func (r *progressRepo) ListLearningProgressByUser(_ context.Context, userID string) ([]model.LearningProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.listLearning(func(p model.LearningProgress) bool { return p.UserID == userID }), nil
}

func (r *progressRepo) ListLearningProgressByCourse(_ context.Context, courseID string) ([]model.LearningProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.listLearning(func(p model.LearningProgress) bool { return p.CourseID == courseID }), nil
}

func (r *progressRepo) CreateLearningProgressIfAbsent(_ context.Context, p *model.LearningProgress) (bool, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.findLearning(p.UserID, p.CourseID); ok {
		return false, nil
	}
	id, seq := r.db.next()
	now := time.Now().UTC()
	p.ID = id
	p.CreatedAt, p.UpdatedAt = now, now
	r.db.learning[id] = row[model.LearningProgress]{seq: seq, val: copyLearning(*p)}
	return true, nil
}

func (r *progressRepo) SaveLearningProgress(_ context.Context, p *model.LearningProgress) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := time.Now().UTC()
	p.UpdatedAt = now
	rw, ok := r.db.learning[p.ID]
	if p.ID == "" || !ok {
		id, seq := r.db.next()
		p.ID = id
		p.CreatedAt = now
		rw = row[model.LearningProgress]{seq: seq}
	}
	rw.val = copyLearning(*p)
	r.db.learning[p.ID] = rw
	return nil
}

func (r *progressRepo) DeleteLearningProgress(_ context.Context, userID, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	if id, ok := r.findLearning(userID, courseID); ok {
		delete(r.db.learning, id)
	}
	return nil
}

func (r *progressRepo) DeleteLearningProgressByCourse(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.learning {
		if rw.val.CourseID == courseID {
			delete(r.db.learning, id)
		}
	}
	return nil
}

func (r *progressRepo) GetModuleProgress(_ context.Context, userID, moduleID string) (*model.ModuleProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, rw := range r.db.moduleP {
		if rw.val.UserID == userID && rw.val.ModuleID == moduleID {
			p := copyModuleProgress(rw.val)
			return &p, nil
		}
	}
	return nil, nil
}

func (r *progressRepo) ListModuleProgress(_ context.Context, userID, courseID string) ([]model.ModuleProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rows := []row[model.ModuleProgress]{}
	for _, rw := range r.db.moduleP {
		if rw.val.UserID == userID && rw.val.CourseID == courseID {
			rows = append(rows, rw)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]model.ModuleProgress, len(rows))
	for i, rw := range rows {
		out[i] = copyModuleProgress(rw.val)
	}
	return out, nil
}

func (r *progressRepo) SaveModuleProgress(_ context.Context, p *model.ModuleProgress) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.ID == "" {
		for id, existing := range r.db.moduleP {
			if existing.val.UserID == p.UserID && existing.val.ModuleID == p.ModuleID {
				p.ID, p.CreatedAt = id, existing.val.CreatedAt
				break
			}
		}
	}
	rw, ok := r.db.moduleP[p.ID]
	if p.ID == "" || !ok {
		id, seq := r.db.next()
		p.ID = id
		p.CreatedAt = now
		rw = row[model.ModuleProgress]{seq: seq}
	}
	rw.val = copyModuleProgress(*p)
	r.db.moduleP[p.ID] = rw
	return nil
}

func (r *progressRepo) deleteModuleProgress(match func(model.ModuleProgress) bool) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	for id, rw := range r.db.moduleP {
		if match(rw.val) {
			delete(r.db.moduleP, id)
		}
	}
}

func (r *progressRepo) DeleteModuleProgressByModule(_ context.Context, moduleID string) error {
	r.deleteModuleProgress(func(p model.ModuleProgress) bool { return p.ModuleID == moduleID })
	return nil
}

func (r *progressRepo) DeleteModuleProgressForUser(_ context.Context, userID, courseID string) error {
	r.deleteModuleProgress(func(p model.ModuleProgress) bool {
		return p.UserID == userID && p.CourseID == courseID
	})
	return nil
}

func (r *progressRepo) DeleteModuleProgressByCourse(_ context.Context, courseID string) error {
	r.deleteModuleProgress(func(p model.ModuleProgress) bool { return p.CourseID == courseID })
	return nil
}

type statsRepo struct{ db *DB }

func (r *statsRepo) IncrementStats(_ context.Context, courseID string, d repository.StatsDelta) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	s := r.db.stats[courseID]
	s.CourseID = courseID
	s.Enrollments += d.Enrollments
	s.Completions += d.Completions
	s.QuizAttempts += d.QuizAttempts
	s.QuizPasses += d.QuizPasses
	s.TotalQuizPercentage += d.QuizPercentages
	s.UpdatedAt = time.Now().UTC()
	r.db.stats[courseID] = s
	return nil
}

func (r *statsRepo) GetStats(_ context.Context, courseID string) (*model.CourseStats, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	s, ok := r.db.stats[courseID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *statsRepo) DeleteStats(_ context.Context, courseID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	delete(r.db.stats, courseID)
	return nil
}

func (r *statsRepo) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.processed[eventID]; ok {
		return false, nil
	}
	r.db.processed[eventID] = struct{}{}
	return true, nil
}

func (r *statsRepo) ForgetProcessed(_ context.Context, eventID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	delete(r.db.processed, eventID)
	return nil
}

type dlqRepo struct{ db *DB }

func (r *dlqRepo) Create(_ context.Context, message *model.DeadLetterMessage) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	id, _ := r.db.next()
	now := time.Now().UTC()
	message.ID = id
	message.CreatedAt, message.UpdatedAt = now, now
	r.db.dlq = append(r.db.dlq, *message)
	return nil
}
