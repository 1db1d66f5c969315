package service

import (
	"context"
	"time"

	"learntrack/internal/model"

	"github.com/rs/zerolog"
)

// WithProgressLogging decorates a ProgressService with one log line per call,
// carrying its duration and outcome.
func WithProgressLogging(next ProgressService, logger zerolog.Logger) ProgressService {
	return &loggingProgressService{
		next:   next,
		logger: logger.With().Str("service", "progress").Logger(),
	}
}

type loggingProgressService struct {
	next   ProgressService
	logger zerolog.Logger
}

func (l *loggingProgressService) log(op string, start time.Time, err error, fields map[string]any) {
	ev := l.logger.Debug()
	if err != nil {
		ev = l.logger.Warn().Err(err)
	}
	ev.Str("op", op).Fields(fields).Dur("took", time.Since(start)).Msg("progress call")
}

func (l *loggingProgressService) Enroll(ctx context.Context, userID, courseID string) (lp *model.LearningProgress, created bool, err error) {
	defer func(start time.Time) {
		l.log("enroll", start, err, map[string]any{"user_id": userID, "course_id": courseID, "created": created})
	}(time.Now())
	return l.next.Enroll(ctx, userID, courseID)
}

func (l *loggingProgressService) ListProgress(ctx context.Context, userID string) (out []model.LearningProgress, err error) {
	defer func(start time.Time) {
		l.log("list_progress", start, err, map[string]any{"user_id": userID})
	}(time.Now())
	return l.next.ListProgress(ctx, userID)
}

func (l *loggingProgressService) GetCourseProgress(ctx context.Context, userID, courseID string) (out *CourseProgress, err error) {
	defer func(start time.Time) {
		l.log("get_course_progress", start, err, map[string]any{"user_id": userID, "course_id": courseID})
	}(time.Now())
	return l.next.GetCourseProgress(ctx, userID, courseID)
}

func (l *loggingProgressService) UpdateModuleProgress(ctx context.Context, userID, moduleID string, u ModuleProgressUpdate) (out *ProgressResult, err error) {
	defer func(start time.Time) {
		l.log("update_module_progress", start, err, map[string]any{"user_id": userID, "module_id": moduleID, "reset": u.Reset})
	}(time.Now())
	return l.next.UpdateModuleProgress(ctx, userID, moduleID, u)
}

func (l *loggingProgressService) CompleteModule(ctx context.Context, userID, moduleID string) (out *ProgressResult, err error) {
	defer func(start time.Time) {
		l.log("complete_module", start, err, map[string]any{"user_id": userID, "module_id": moduleID})
	}(time.Now())
	return l.next.CompleteModule(ctx, userID, moduleID)
}

func (l *loggingProgressService) RecordQuizAttempt(ctx context.Context, attempt *model.QuizAttempt) (out *ProgressResult, err error) {
	defer func(start time.Time) {
		l.log("record_quiz_attempt", start, err, map[string]any{"user_id": attempt.UserID, "quiz_id": attempt.QuizID, "passed": attempt.Passed})
	}(time.Now())
	return l.next.RecordQuizAttempt(ctx, attempt)
}

func (l *loggingProgressService) SyncCourseProgress(ctx context.Context, userID, courseID string) (out *model.LearningProgress, err error) {
	defer func(start time.Time) {
		l.log("sync_course_progress", start, err, map[string]any{"user_id": userID, "course_id": courseID})
	}(time.Now())
	return l.next.SyncCourseProgress(ctx, userID, courseID)
}

func (l *loggingProgressService) ResyncCourse(ctx context.Context, courseID string) (err error) {
	defer func(start time.Time) {
		l.log("resync_course", start, err, map[string]any{"course_id": courseID})
	}(time.Now())
	return l.next.ResyncCourse(ctx, courseID)
}

func (l *loggingProgressService) ResetCourseProgress(ctx context.Context, userID, courseID string) (err error) {
	defer func(start time.Time) {
		l.log("reset_course_progress", start, err, map[string]any{"user_id": userID, "course_id": courseID})
	}(time.Now())
	return l.next.ResetCourseProgress(ctx, userID, courseID)
}
