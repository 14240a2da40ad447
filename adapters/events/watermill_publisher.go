package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/ports"
)

// IssuedTopic is the topic token issuance events are published to
const IssuedTopic = "authtoken.issued"

// IssuedEvent represents a token issuance. It never carries the token value.
type IssuedEvent struct {
	Owner    string    `json:"owner"`
	IssuedAt time.Time `json:"issued_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     IssuedTopic,
	}
}

// PublishIssued publishes an issuance event
func (p *WatermillPublisher) PublishIssued(ctx context.Context, token core.Token) error {
	event := IssuedEvent{
		Owner:    token.Owner,
		IssuedAt: token.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
