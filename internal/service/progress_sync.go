package service

import (
	"time"

	"learntrack/internal/grading"
	"learntrack/internal/model"
)

// reconcile recomputes the course-level fields of lp from the learner's module
// progress. modules are the course's modules, mps the learner's module
// progress for the course. It reports whether lp moved into completed.
func reconcile(lp *model.LearningProgress, course *model.Course, modules []model.Module, mps []model.ModuleProgress, now time.Time) bool {
	required := make(map[string]bool, len(modules))
	for _, m := range modules {
		required[m.ID] = m.Required
	}
	byModule := make(map[string]model.ModuleProgress, len(mps))
	for _, mp := range mps {
		byModule[mp.ModuleID] = mp
	}

	completed := []string{}
	requiredTotal, requiredDone := 0, 0
	timeSpent := 0
	active := false
	for _, id := range course.Syllabus {
		isRequired, known := required[id]
		if known && isRequired {
			requiredTotal++
		}
		mp, ok := byModule[id]
		if !ok {
			continue
		}
		timeSpent += mp.TimeSpentMinutes
		if mp.Status != model.StatusNotStarted || mp.CompletionPercentage > 0 || mp.TimeSpentMinutes > 0 || mp.QuizAttempts > 0 {
			active = true
		}
		if mp.IsCompleted() {
			completed = append(completed, id)
			if known && isRequired {
				requiredDone++
			}
		}
	}

	pct := 0.0
	if requiredTotal > 0 {
		pct = grading.Round2(100 * float64(requiredDone) / float64(requiredTotal))
	}

	wasCompleted := lp.Status == model.StatusCompleted
	lp.CompletedModules = completed
	lp.CompletionPercentage = pct
	lp.TimeSpentMinutes = timeSpent

	switch {
	case pct >= 100:
		lp.Status = model.StatusCompleted
		if lp.CompletedAt == nil {
			t := now
			lp.CompletedAt = &t
		}
	case pct == 0 && !active:
		lp.Status = model.StatusNotStarted
		lp.CompletedAt = nil
	default:
		lp.Status = model.StatusInProgress
		lp.CompletedAt = nil
	}
	if lp.Status != model.StatusNotStarted && lp.StartedAt == nil {
		t := now
		lp.StartedAt = &t
	}
	if lp.CurrentModuleID != "" && !course.HasModule(lp.CurrentModuleID) {
		lp.CurrentModuleID = ""
	}
	return !wasCompleted && lp.Status == model.StatusCompleted
}

// applyModuleUpdate sets a module's completion and adds time spent, following
// the rule that completed modules never regress unless reset is requested. It
// reports whether the module moved into completed.
func applyModuleUpdate(mp *model.ModuleProgress, pct *float64, addMinutes int, reset bool, now time.Time) bool {
	wasCompleted := mp.IsCompleted()
	if pct != nil {
		if reset || !wasCompleted || *pct >= mp.CompletionPercentage {
			mp.CompletionPercentage = grading.Round2(*pct)
		}
	}
	mp.TimeSpentMinutes += addMinutes
	mp.LastAccessedAt = now

	switch {
	case mp.CompletionPercentage >= 100:
		mp.Status = model.StatusCompleted
		if mp.CompletedAt == nil {
			t := now
			mp.CompletedAt = &t
		}
	case mp.CompletionPercentage > 0 || mp.TimeSpentMinutes > 0 || mp.QuizAttempts > 0:
		mp.Status = model.StatusInProgress
		mp.CompletedAt = nil
	default:
		mp.Status = model.StatusNotStarted
		mp.CompletedAt = nil
	}
	return !wasCompleted && mp.IsCompleted()
}
