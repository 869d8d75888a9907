package realtime

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

const (
	attrInstanceID = "instance_id"
	attrSenderID   = "sender_id"
)

// PubSubBridge mirrors hub events through a Pub/Sub topic so that clients
// connected to different server instances still receive each other's
// mutations. Messages from our own instance are skipped on receive.
type PubSubBridge struct {
	client     *pubsub.Client
	topic      *pubsub.Topic
	subName    string
	instanceID string
	logger     zerolog.Logger
}

// NewPubSubBridge creates a bridge on the given topic and subscription.
// instanceID must be unique per server process.
func NewPubSubBridge(ctx context.Context, projectID, topicName, subName, instanceID string, logger zerolog.Logger) (*PubSubBridge, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubBridge{
		client:     client,
		topic:      client.Topic(topicName),
		subName:    subName,
		instanceID: instanceID,
		logger:     logger.With().Str("component", "fanout_bridge").Logger(),
	}, nil
}

// Publish mirrors one event to the topic.
func (b *PubSubBridge) Publish(ctx context.Context, e Event, senderID string) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	result := b.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			attrInstanceID: b.instanceID,
			attrSenderID:   senderID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish fanout event: %w", err)
	}
	return nil
}

// Receive pumps remote events into the hub until ctx is cancelled. Run it
// on its own goroutine.
func (b *PubSubBridge) Receive(ctx context.Context, hub *Hub) error {
	sub := b.client.Subscription(b.subName)
	err := sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		defer m.Ack()
		if m.Attributes[attrInstanceID] == b.instanceID {
			return
		}
		e, err := DecodeEvent(m.Data)
		if err != nil {
			b.logger.Warn().Err(err).Msg("dropping malformed bridged event")
			return
		}
		hub.HandleRemote(e, m.Attributes[attrSenderID])
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("fanout bridge receive failed: %w", err)
	}
	return nil
}

// Close releases the Pub/Sub client.
func (b *PubSubBridge) Close() error {
	b.topic.Stop()
	return b.client.Close()
}
