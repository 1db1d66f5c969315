package handler

import (
	"context"

	"learntrack/internal/api/v1/operation"
	"learntrack/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

type DLQHandler struct {
	service service.DLQService
	logger  zerolog.Logger
}

func NewDLQHandler(s service.DLQService, l zerolog.Logger) *DLQHandler {
	return &DLQHandler{service: s, logger: l}
}

// RecordDLQ parks a dead-lettered progress event. Pub/Sub gets a 204 even
// when the store fails so it stops redelivering.
func (h *DLQHandler) RecordDLQ(ctx context.Context, input *operation.RecordDLQInput) (*operation.RecordDLQOutput, error) {
	msg := input.Body.Message
	if msg.MessageID == "" {
		return nil, huma.Error400BadRequest("dead-letter push has no message id")
	}

	stored, err := h.service.ProcessAndSave(ctx, &input.Body)
	if err != nil {
		h.logger.Error().Err(err).
			Str("messageId", msg.MessageID).
			Str("subscription", input.Body.Subscription).
			Msg("Dropped dead-letter progress event")
		return &operation.RecordDLQOutput{}, nil
	}

	entry := h.logger.Warn().
		Str("dlqId", stored.ID).
		Str("messageId", stored.MessageID)
	if stored.EventID != "" {
		entry = entry.
			Str("eventId", stored.EventID).
			Str("eventType", stored.EventType).
			Str("courseId", stored.CourseID)
	}
	entry.Msg("Progress event dead-lettered")
	return &operation.RecordDLQOutput{}, nil
}
