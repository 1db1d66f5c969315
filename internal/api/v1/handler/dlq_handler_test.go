package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/api/v1/operation"
	"learntrack/internal/model"
	"learntrack/internal/repository/memory"
	"learntrack/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDLQ struct{}

func (failingDLQ) ProcessAndSave(context.Context, *dto.PubSubPushRequest) (*model.DeadLetterMessage, error) {
	return nil, errors.New("mongo unavailable")
}

func push(id, data string) *operation.RecordDLQInput {
	in := &operation.RecordDLQInput{}
	in.Body.Subscription = "projects/p/subscriptions/progress-events-dlq-sub"
	in.Body.Message.MessageID = id
	in.Body.Message.Data = base64.StdEncoding.EncodeToString([]byte(data))
	return in
}

func TestRecordDLQLogsTheEvent(t *testing.T) {
	var logs bytes.Buffer
	db := memory.NewDB()
	h := NewDLQHandler(service.NewDLQService(db.Repositories().DLQ), zerolog.New(&logs))

	_, err := h.RecordDLQ(context.Background(), push("m-7", `{"id":"ev-7","type":"module.completed","course_id":"c-3"}`))
	require.NoError(t, err)

	require.Len(t, db.DeadLetters(), 1)
	assert.Contains(t, logs.String(), `"eventId":"ev-7"`)
	assert.Contains(t, logs.String(), `"eventType":"module.completed"`)
	assert.Contains(t, logs.String(), `"courseId":"c-3"`)
}

func TestRecordDLQAcknowledgesStoreFailures(t *testing.T) {
	var logs bytes.Buffer
	h := NewDLQHandler(failingDLQ{}, zerolog.New(&logs))

	out, err := h.RecordDLQ(context.Background(), push("m-8", `{}`))
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Contains(t, logs.String(), "mongo unavailable")
}

func TestRecordDLQRejectsMissingMessageID(t *testing.T) {
	h := NewDLQHandler(failingDLQ{}, zerolog.Nop())

	_, err := h.RecordDLQ(context.Background(), push("", `{}`))
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.GetStatus())
}
