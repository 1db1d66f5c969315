package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"learntrack/internal/events"
	"learntrack/internal/grading"
	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Submission is a learner's answers to a quiz. StartedAt is optional and
// enables time limit enforcement.
type Submission struct {
	Answers   []model.Answer
	StartedAt *time.Time
}

// GradedAttempt is the stored attempt plus the progress it produced.
type GradedAttempt struct {
	Attempt  *model.QuizAttempt
	Progress *ProgressResult
}

type QuizService interface {
	CreateQuiz(ctx context.Context, userID, moduleID string, q *model.Quiz) (*model.Quiz, error)
	// GetQuiz strips answers unless the caller owns the course
	GetQuiz(ctx context.Context, userID, quizID string) (*model.Quiz, error)
	UpdateQuiz(ctx context.Context, userID, quizID string, q *model.Quiz) (*model.Quiz, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
	SubmitAttempt(ctx context.Context, userID, quizID string, sub Submission) (*GradedAttempt, error)
	ListAttempts(ctx context.Context, userID, quizID string) ([]model.QuizAttempt, error)
	GetAttempt(ctx context.Context, userID, attemptID string) (*model.QuizAttempt, error)
}

type quizService struct {
	repos    *repository.Repositories
	progress ProgressService
	grader   *grading.Grader
	events   events.Publisher
	logger   zerolog.Logger
	now      func() time.Time
}

func NewQuizService(repos *repository.Repositories, progress ProgressService, grader *grading.Grader, publisher events.Publisher, logger zerolog.Logger) QuizService {
	return &quizService{
		repos:    repos,
		progress: progress,
		grader:   grader,
		events:   publisher,
		logger:   logger.With().Str("service", "quiz").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// prepareQuiz fills defaults and question ids, then validates the definition.
func prepareQuiz(q *model.Quiz) error {
	q.Title = strings.TrimSpace(q.Title)
	for i := range q.Questions {
		qs := &q.Questions[i]
		if qs.ID == "" {
			qs.ID = uuid.NewString()
		}
		if qs.Points == 0 {
			qs.Points = 1
		}
	}
	if err := grading.ValidateQuiz(q); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func (s *quizService) CreateQuiz(ctx context.Context, userID, moduleID string, q *model.Quiz) (*model.Quiz, error) {
	m, err := loadModule(ctx, s.repos.Modules, moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCourse(ctx, s.repos.Courses, userID, m.CourseID); err != nil {
		return nil, err
	}
	if m.Type != model.ModuleQuiz {
		return nil, invalidf("module %s is a %s module, not a quiz module", m.ID, m.Type)
	}
	if m.QuizID != "" {
		return nil, errors.Join(ErrConflict, errors.New("module already has a quiz"))
	}

	q.CourseID = m.CourseID
	q.ModuleID = m.ID
	if err := prepareQuiz(q); err != nil {
		return nil, err
	}
	if err := s.repos.Quizzes.CreateQuiz(ctx, q); err != nil {
		s.logger.Error().Err(err).Str("module_id", moduleID).Msg("Failed to create quiz")
		return nil, err
	}
	m.QuizID = q.ID
	if err := s.repos.Modules.UpdateModule(ctx, m); err != nil {
		return nil, err
	}
	return q, nil
}

// quizForCaller loads a quiz and its course, hiding quizzes of courses the
// caller cannot see.
func (s *quizService) quizForCaller(ctx context.Context, userID, quizID string) (*model.Quiz, *model.Course, error) {
	q, err := loadQuiz(ctx, s.repos.Quizzes, quizID)
	if err != nil {
		return nil, nil, err
	}
	c, err := visibleCourse(ctx, s.repos.Courses, userID, q.CourseID)
	if errors.Is(err, ErrCourseNotFound) {
		return nil, nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return q, c, nil
}

func (s *quizService) GetQuiz(ctx context.Context, userID, quizID string) (*model.Quiz, error) {
	q, c, err := s.quizForCaller(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if c.InstructorID == userID {
		return q, nil
	}
	return q.WithoutAnswers(), nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, userID, quizID string, in *model.Quiz) (*model.Quiz, error) {
	q, c, err := s.quizForCaller(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != userID {
		return nil, ErrForbidden
	}
	q.Title = in.Title
	q.Questions = in.Questions
	q.PassingScore = in.PassingScore
	q.TimeLimitMinutes = in.TimeLimitMinutes
	q.MaxAttempts = in.MaxAttempts
	q.Shuffle = in.Shuffle
	if err := prepareQuiz(q); err != nil {
		return nil, err
	}
	if err := s.repos.Quizzes.UpdateQuiz(ctx, q); err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID).Msg("Failed to update quiz")
		return nil, err
	}
	return q, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	q, c, err := s.quizForCaller(ctx, userID, quizID)
	if err != nil {
		return err
	}
	if c.InstructorID != userID {
		return ErrForbidden
	}
	if err := s.repos.Attempts.DeleteAttemptsByQuizID(ctx, q.ID); err != nil {
		return err
	}
	if err := s.repos.Quizzes.DeleteQuiz(ctx, q.ID); err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID).Msg("Failed to delete quiz")
		return err
	}
	m, err := s.repos.Modules.GetModuleByID(ctx, q.ModuleID)
	if err != nil {
		return err
	}
	if m != nil && m.QuizID == q.ID {
		m.QuizID = ""
		if err := s.repos.Modules.UpdateModule(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID string, sub Submission) (*GradedAttempt, error) {
	q, _, err := s.quizForCaller(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	prior, err := s.repos.Attempts.CountAttempts(ctx, q.ID, userID)
	if err != nil {
		return nil, err
	}
	if q.MaxAttempts > 0 && prior >= q.MaxAttempts {
		return nil, ErrAttemptLimit
	}
	now := s.now()
	if err := grading.ValidateSubmission(q, sub.Answers, sub.StartedAt, now); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	outcome := s.grader.Grade(q, sub.Answers)
	attempt := &model.QuizAttempt{
		QuizID:        q.ID,
		CourseID:      q.CourseID,
		ModuleID:      q.ModuleID,
		UserID:        userID,
		AttemptNumber: prior + 1,
		Answers:       sub.Answers,
		Results:       outcome.Results,
		Score:         outcome.Score,
		MaxScore:      outcome.MaxScore,
		Percentage:    outcome.Percentage,
		Passed:        outcome.Passed,
		StartedAt:     sub.StartedAt,
		SubmittedAt:   now,
	}
	if attempt.Answers == nil {
		attempt.Answers = []model.Answer{}
	}
	if err := s.repos.Attempts.CreateAttempt(ctx, attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent submission took this attempt number.
			if q.MaxAttempts > 0 && attempt.AttemptNumber >= q.MaxAttempts {
				return nil, ErrAttemptLimit
			}
			return nil, errors.Join(ErrConflict, errors.New("another attempt was submitted at the same time"))
		}
		s.logger.Error().Err(err).Str("quiz_id", quizID).Str("user_id", userID).Msg("Failed to store quiz attempt")
		return nil, err
	}

	e := events.New(events.AttemptGraded, userID, q.CourseID)
	e.ModuleID = q.ModuleID
	e.QuizID = q.ID
	e.Percentage = attempt.Percentage
	e.Passed = attempt.Passed
	s.events.Publish(ctx, e)

	progress, err := s.progress.RecordQuizAttempt(ctx, attempt)
	if err != nil {
		return nil, err
	}
	return &GradedAttempt{Attempt: attempt, Progress: progress}, nil
}

func (s *quizService) ListAttempts(ctx context.Context, userID, quizID string) ([]model.QuizAttempt, error) {
	if _, _, err := s.quizForCaller(ctx, userID, quizID); err != nil {
		return nil, err
	}
	return s.repos.Attempts.ListAttempts(ctx, quizID, userID)
}

func (s *quizService) GetAttempt(ctx context.Context, userID, attemptID string) (*model.QuizAttempt, error) {
	a, err := s.repos.Attempts.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}
