package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// Receiver delivers message payloads until ctx is cancelled. A handler error
// asks for redelivery.
type Receiver interface {
	Receive(ctx context.Context, handle func(ctx context.Context, data []byte) error) error
}

// SubscriptionReceiver reads from one Pub/Sub subscription.
type SubscriptionReceiver struct {
	sub    *pubsub.Subscription
	logger zerolog.Logger
}

func NewSubscriptionReceiver(client *pubsub.Client, subscription string, logger zerolog.Logger) *SubscriptionReceiver {
	return &SubscriptionReceiver{
		sub:    client.Subscription(subscription),
		logger: logger.With().Str("subscription", subscription).Logger(),
	}
}

func (r *SubscriptionReceiver) Receive(ctx context.Context, handle func(ctx context.Context, data []byte) error) error {
	return r.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := handle(ctx, m.Data); err != nil {
			r.logger.Error().Err(err).Str("msg_id", m.ID).Msg("Failed to handle message, nacking")
			m.Nack()
			return
		}
		m.Ack()
	})
}
