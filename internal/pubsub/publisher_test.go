package pubsub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"learntrack/internal/config"
	"learntrack/internal/events"

	ps "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic   string
	payload []byte
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	r.topic = topic
	r.payload = payload
	return "1", nil
}

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	if _, err := NewPublisher(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

func TestForwarderPublishesEventJSON(t *testing.T) {
	rec := &recordingPublisher{}
	e := events.New(events.CourseCompleted, "u1", "c1")

	require.NoError(t, Forwarder(rec, "progress-events")(context.Background(), e))

	assert.Equal(t, "progress-events", rec.topic)
	var got events.Event
	require.NoError(t, json.Unmarshal(rec.payload, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, events.CourseCompleted, got.Type)
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: emulator}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}
	defer pub.Close()

	topicName := "test-progress-" + time.Now().Format("150405.000")
	topic, err := pub.client.CreateTopic(ctx, topicName)
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	subName := topicName + "-sub"
	if _, err := pub.client.CreateSubscription(ctx, subName, ps.SubscriptionConfig{Topic: topic}); err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	msgID, err := pub.Publish(ctx, topicName, []byte("hello-emulator"))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	receiver := &SubscriptionReceiver{sub: pub.client.Subscription(subName)}
	go func() {
		_ = receiver.Receive(recvCtx, func(_ context.Context, data []byte) error {
			select {
			case c <- data:
			default:
			}
			cancel()
			return nil
		})
	}()

	select {
	case data := <-c:
		if string(data) != "hello-emulator" {
			t.Fatalf("expected message data 'hello-emulator', got '%s'", string(data))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
