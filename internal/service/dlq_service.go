package service

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/events"
	"learntrack/internal/model"
	"learntrack/internal/repository"
)

type DLQService interface {
	ProcessAndSave(ctx context.Context, req *dto.PubSubPushRequest) (*model.DeadLetterMessage, error)
}

type dlqService struct {
	repo repository.DLQRepository
}

func NewDLQService(repo repository.DLQRepository) DLQService {
	return &dlqService{repo: repo}
}

// ProcessAndSave stores a dead-lettered progress event for later inspection.
// The stored record names the event when the payload decodes as one.
func (s *dlqService) ProcessAndSave(ctx context.Context, req *dto.PubSubPushRequest) (*model.DeadLetterMessage, error) {
	payload, err := base64.StdEncoding.DecodeString(req.Message.Data)
	if err != nil {
		// keep undecodable data verbatim
		payload = []byte(req.Message.Data)
	}

	msg := &model.DeadLetterMessage{
		SubscriptionName: req.Subscription,
		MessageID:        req.Message.MessageID,
		Payload:          string(payload),
		Status:           "unprocessed",
	}
	var ev events.Event
	if json.Unmarshal(payload, &ev) == nil {
		msg.EventID, msg.EventType = ev.ID, ev.Type
		msg.UserID, msg.CourseID = ev.UserID, ev.CourseID
	}
	if len(req.Message.Attributes) > 0 {
		if b, err := json.Marshal(req.Message.Attributes); err == nil {
			str := string(b)
			msg.Attributes = &str
		}
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
