package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"learntrack/internal/events"
	"learntrack/internal/model"
	"learntrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(tf, short string) []model.Answer {
	return []model.Answer{
		{QuestionID: "q1", Response: []string{tf}},
		{QuestionID: "q2", Response: []string{short}},
	}
}

func TestCreateQuizRules(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	text := f.textModule(t, c.ID, "Reading", true)
	qm, _ := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	valid := &model.Quiz{
		Title:     "Extra",
		Questions: []model.Question{{Prompt: "2+2", Type: model.QuestionSingleChoice, Options: []string{"3", "4"}, CorrectAnswers: []string{"4"}}},
	}

	_, err := f.quizzes.CreateQuiz(ctx, instructor, text.ID, valid)
	assert.ErrorIs(t, err, ErrInvalidInput, "not a quiz module")

	_, err = f.quizzes.CreateQuiz(ctx, instructor, qm.ID, valid)
	assert.ErrorIs(t, err, ErrConflict, "module already has a quiz")

	other, err := f.modules.CreateModule(ctx, instructor, c.ID, &model.Module{Title: "Final", Type: model.ModuleQuiz, Required: true})
	require.NoError(t, err)

	_, err = f.quizzes.CreateQuiz(ctx, learner, other.ID, valid)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.quizzes.CreateQuiz(ctx, instructor, other.ID, &model.Quiz{Title: "Empty"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	q, err := f.quizzes.CreateQuiz(ctx, instructor, other.ID, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Questions[0].ID, "question id assigned")
	assert.Equal(t, 1.0, q.Questions[0].Points, "points default")

	linked, err := f.modules.GetModule(ctx, instructor, other.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, linked.QuizID)
}

func TestGetQuizStripsAnswersForLearners(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	own, err := f.quizzes.GetQuiz(ctx, instructor, q.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, own.Questions[0].CorrectAnswers)

	learnerView, err := f.quizzes.GetQuiz(ctx, learner, q.ID)
	require.NoError(t, err)
	for _, qs := range learnerView.Questions {
		assert.Empty(t, qs.CorrectAnswers)
		assert.Empty(t, qs.Explanation)
	}
}

func TestSubmitAttemptPassCompletesModule(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	qm, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	graded, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("false", "go")})
	require.NoError(t, err)
	assert.Equal(t, 50.0, graded.Attempt.Percentage)
	assert.True(t, graded.Attempt.Passed, "passing score is inclusive")
	assert.Equal(t, 1, graded.Attempt.AttemptNumber)

	assert.Equal(t, model.StatusCompleted, graded.Progress.Module.Status)
	assert.Equal(t, 1, graded.Progress.Module.QuizAttempts)
	require.NotNil(t, graded.Progress.Module.BestQuizScore)
	assert.Equal(t, 50.0, *graded.Progress.Module.BestQuizScore)
	assert.Equal(t, 100.0, graded.Progress.Course.CompletionPercentage)
	assert.Equal(t, []string{qm.ID}, graded.Progress.Course.CompletedModules)

	assert.Equal(t, 1, f.events.count(events.AttemptGraded))
	assert.Equal(t, 1, f.events.count(events.CourseCompleted))
}

func TestSubmitAttemptTracksBestScore(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	_, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	require.NoError(t, err)
	graded, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("false", "rust")})
	require.NoError(t, err)

	assert.False(t, graded.Attempt.Passed)
	assert.Equal(t, 2, graded.Attempt.AttemptNumber)
	assert.Equal(t, 100.0, *graded.Progress.Module.BestQuizScore)
	assert.Equal(t, model.StatusCompleted, graded.Progress.Module.Status, "failing later does not undo completion")

	list, err := f.quizzes.ListAttempts(ctx, learner, q.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].AttemptNumber, "newest first")
}

func TestSubmitAttemptLimits(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 1)
	ctx := context.Background()

	_, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: []model.Answer{{QuestionID: "nope"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	require.NoError(t, err)

	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	assert.ErrorIs(t, err, ErrAttemptLimit)
}

// slowCounts widens the window between counting attempts and storing one.
type slowCounts struct {
	repository.AttemptRepository
}

func (s slowCounts) CountAttempts(ctx context.Context, quizID, userID string) (int, error) {
	n, err := s.AttemptRepository.CountAttempts(ctx, quizID, userID)
	time.Sleep(20 * time.Millisecond)
	return n, err
}

func TestSubmitAttemptLimitUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 1)
	f.repos.Attempts = slowCounts{f.repos.Attempts}
	ctx := context.Background()

	const submits = 5
	errs := make([]error, submits)
	var wg sync.WaitGroup
	for i := range submits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAttemptLimit)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.quizzes.ListAttempts(ctx, learner, q.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].AttemptNumber)
}

func TestSubmitAttemptTimeLimit(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	q.TimeLimitMinutes = 10
	_, err := f.quizzes.UpdateQuiz(ctx, instructor, q.ID, q)
	require.NoError(t, err)

	started := time.Now().Add(-30 * time.Minute)
	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go"), StartedAt: &started})
	assert.ErrorIs(t, err, ErrInvalidInput)

	started = time.Now().Add(-5 * time.Minute)
	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go"), StartedAt: &started})
	assert.NoError(t, err)
}

func TestSubmitAttemptOnDraftCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, false)
	_, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	_, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = f.quizzes.SubmitAttempt(ctx, instructor, q.ID, Submission{Answers: answers("true", "go")})
	assert.NoError(t, err, "instructor can preview")
}

func TestGetAttemptOwnOnly(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	_, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	graded, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	require.NoError(t, err)

	got, err := f.quizzes.GetAttempt(ctx, learner, graded.Attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, graded.Attempt.ID, got.ID)

	_, err = f.quizzes.GetAttempt(ctx, "someone-else", graded.Attempt.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestDeleteQuizClearsModuleLink(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	qm, q := f.quizModule(t, c.ID, 0)
	ctx := context.Background()

	_, err := f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{})
	require.NoError(t, err)
	require.NoError(t, f.quizzes.DeleteQuiz(ctx, instructor, q.ID))

	m, err := f.modules.GetModule(ctx, instructor, qm.ID)
	require.NoError(t, err)
	assert.Empty(t, m.QuizID)
	n, err := f.repos.Attempts.CountAttempts(ctx, q.ID, learner)
	require.NoError(t, err)
	assert.Zero(t, n)
}
