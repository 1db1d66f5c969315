package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types
const (
	EnrollmentCreated = "enrollment.created"
	ModuleCompleted   = "module.completed"
	CourseCompleted   = "course.completed"
	AttemptGraded     = "quiz.attempt_graded"
	CourseDeleted     = "course.deleted"
)

// Event is a progress notification. It is also the Pub/Sub wire format.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	CourseID   string    `json:"course_id"`
	ModuleID   string    `json:"module_id,omitempty"`
	QuizID     string    `json:"quiz_id,omitempty"`
	Percentage float64   `json:"percentage,omitempty"`
	Passed     bool      `json:"passed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, userID, courseID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		CourseID:   courseID,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler reacts to an event.
type Handler func(ctx context.Context, e Event) error

// Publisher is the producer side of the bus.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus delivers events synchronously to subscribers in registration order.
// A failing handler is logged and does not stop delivery to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wildcard []Handler
	logger   zerolog.Logger
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers h for one event type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = append(b.wildcard, h)
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[e.Type])+len(b.wildcard))
	hs = append(hs, b.handlers[e.Type]...)
	hs = append(hs, b.wildcard...)
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			b.logger.Error().Err(err).
				Str("event_id", e.ID).
				Str("event_type", e.Type).
				Msg("Event handler failed")
		}
	}
}

// LogHandler writes every event to the logger.
func LogHandler(logger zerolog.Logger) Handler {
	return func(_ context.Context, e Event) error {
		logger.Info().
			Str("event_id", e.ID).
			Str("event_type", e.Type).
			Str("user_id", e.UserID).
			Str("course_id", e.CourseID).
			Msg("Progress event")
		return nil
	}
}

// Discard is a Publisher that drops events.
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}
