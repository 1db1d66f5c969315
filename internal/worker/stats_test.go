package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"learntrack/internal/events"
	"learntrack/internal/repository"
	"learntrack/internal/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func payload(t *testing.T, e events.Event) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestHandleAggregatesEvents(t *testing.T) {
	repos := memory.NewRepositories()
	w := NewStatsWorker(repos.Stats, zerolog.Nop())
	ctx := context.Background()

	enrolled := events.New(events.EnrollmentCreated, "u1", "c1")
	passed := events.New(events.AttemptGraded, "u1", "c1")
	passed.Percentage, passed.Passed = 90, true
	failed := events.New(events.AttemptGraded, "u2", "c1")
	failed.Percentage = 40
	completed := events.New(events.CourseCompleted, "u1", "c1")
	moduleDone := events.New(events.ModuleCompleted, "u1", "c1")

	for _, e := range []events.Event{enrolled, passed, failed, completed, moduleDone, enrolled} {
		require.NoError(t, w.Handle(ctx, payload(t, e)))
	}

	s, err := repos.Stats.GetStats(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, int64(1), s.Enrollments, "duplicate delivery ignored")
	assert.Equal(t, int64(1), s.Completions)
	assert.Equal(t, int64(2), s.QuizAttempts)
	assert.Equal(t, int64(1), s.QuizPasses)
	assert.InDelta(t, 65, s.AverageQuizPercentage(), 0.001)
}

func TestHandleCourseDeleted(t *testing.T) {
	repos := memory.NewRepositories()
	w := NewStatsWorker(repos.Stats, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, w.Handle(ctx, payload(t, events.New(events.EnrollmentCreated, "u1", "c1"))))
	require.NoError(t, w.Handle(ctx, payload(t, events.New(events.CourseDeleted, "owner", "c1"))))

	s, err := repos.Stats.GetStats(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestHandleDropsMalformedPayloads(t *testing.T) {
	w := NewStatsWorker(memory.NewRepositories().Stats, zerolog.Nop())
	assert.NoError(t, w.Handle(context.Background(), []byte("{not json")))
	assert.NoError(t, w.Handle(context.Background(), []byte(`{"type":"enrollment.created"}`)))
}

type failingStats struct {
	repository.StatsRepository
}

func (failingStats) IncrementStats(context.Context, string, repository.StatsDelta) error {
	return errors.New("write conflict")
}

func TestHandleFailureAllowsRedelivery(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	e := events.New(events.EnrollmentCreated, "u1", "c1")

	broken := NewStatsWorker(failingStats{repos.Stats}, zerolog.Nop())
	assert.Error(t, broken.Handle(ctx, payload(t, e)))

	w := NewStatsWorker(repos.Stats, zerolog.Nop())
	require.NoError(t, w.Handle(ctx, payload(t, e)))
	s, err := repos.Stats.GetStats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Enrollments)
}

// chanReceiver feeds queued payloads to the handler until ctx ends.
type chanReceiver struct {
	msgs chan []byte
}

func (r *chanReceiver) Receive(ctx context.Context, handle func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-r.msgs:
			_ = handle(ctx, m)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	repos := memory.NewRepositories()
	w := NewStatsWorker(repos.Stats, zerolog.Nop())
	r := &chanReceiver{msgs: make(chan []byte, 1)}
	r.msgs <- payload(t, events.New(events.CourseCompleted, "u1", "c9"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, zerolog.Nop(), r, w) }()

	require.Eventually(t, func() bool {
		s, _ := repos.Stats.GetStats(context.Background(), "c9")
		return s != nil && s.Completions == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
