package ports

import (
	"context"

	"github.com/layer-3/authtoken/core"
)

// Store keeps issued tokens keyed by their value
type Store interface {
	Add(ctx context.Context, token core.Token) error
	// FindByValue reports found=false with a nil error when no token is stored under value
	FindByValue(ctx context.Context, value string) (token core.Token, found bool, err error)
}
