package ports

import (
	"context"

	"github.com/layer-3/authtoken/core"
)

// EventPublisher notifies other services about token issuance
type EventPublisher interface {
	PublishIssued(ctx context.Context, token core.Token) error
}
