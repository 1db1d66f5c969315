package service

import (
	"context"
	"encoding/base64"
	"testing"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/model"
	"learntrack/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollFacade(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, true)
	f.textModule(t, c.ID, "A", true)
	f.textModule(t, c.ID, "B", false)

	e, err := f.learning.Enroll(context.Background(), learner, c.ID)
	require.NoError(t, err)
	assert.True(t, e.Created)
	assert.Equal(t, c.ID, e.Course.ID)
	assert.Len(t, e.Modules, 2)
	assert.Equal(t, model.StatusNotStarted, e.Progress.Status)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := f.course(t, true)
	dm := f.textModule(t, done.ID, "Only", true)
	_, err := f.progress.CompleteModule(ctx, learner, dm.ID)
	require.NoError(t, err)

	going := f.course(t, true)
	_, q := f.quizModule(t, going.ID, 0)
	f.textModule(t, going.ID, "After quiz", true)
	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("true", "go")})
	require.NoError(t, err)
	_, err = f.quizzes.SubmitAttempt(ctx, learner, q.ID, Submission{Answers: answers("false", "go")})
	require.NoError(t, err)

	idle := f.course(t, true)
	_, _, err = f.progress.Enroll(ctx, learner, idle.ID)
	require.NoError(t, err)

	d, err := f.learning.Dashboard(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Totals.Enrolled)
	assert.Equal(t, 1, d.Totals.Completed)
	assert.Equal(t, 1, d.Totals.InProgress)
	assert.Equal(t, 75.0, d.Totals.AverageQuizPercentage)
	assert.Len(t, d.RecentAttempts, 2)
	assert.Len(t, d.Courses, 3)
}

func TestDashboardSkipsDeletedCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t, true)
	_, _, err := f.progress.Enroll(ctx, learner, c.ID)
	require.NoError(t, err)

	// A course row removed behind the service's back.
	require.NoError(t, f.repos.Courses.DeleteCourse(ctx, c.ID))

	d, err := f.learning.Dashboard(ctx, learner)
	require.NoError(t, err)
	assert.Empty(t, d.Courses)
	assert.Zero(t, d.Totals.Enrolled)
}

func TestDLQProcessAndSave(t *testing.T) {
	db := memory.NewDB()
	svc := NewDLQService(db.Repositories().DLQ)

	req := &dto.PubSubPushRequest{Subscription: "projects/p/subscriptions/progress-dlq"}
	req.Message.MessageID = "m-1"
	req.Message.Data = base64.StdEncoding.EncodeToString([]byte(`{"id":"ev-1","type":"course.completed","user_id":"u-1","course_id":"c-1"}`))
	req.Message.Attributes = map[string]string{"origin": "api"}
	first, err := svc.ProcessAndSave(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "ev-1", first.EventID)
	assert.Equal(t, "course.completed", first.EventType)

	req2 := &dto.PubSubPushRequest{Subscription: "s"}
	req2.Message.Data = "not base64!"
	second, err := svc.ProcessAndSave(context.Background(), req2)
	require.NoError(t, err)
	assert.Empty(t, second.EventID)

	stored := db.DeadLetters()
	require.Len(t, stored, 2)
	assert.Equal(t, "u-1", stored[0].UserID)
	assert.Equal(t, "c-1", stored[0].CourseID)
	require.NotNil(t, stored[0].Attributes)
	assert.JSONEq(t, `{"origin":"api"}`, *stored[0].Attributes)
	assert.Equal(t, "unprocessed", stored[0].Status)
	assert.Equal(t, "not base64!", stored[1].Payload)
	assert.Nil(t, stored[1].Attributes)
}
