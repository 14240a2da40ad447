// Package authtoken is a client for the token service.
package authtoken

import (
	"context"
	"time"
)

// Token is an issued token as reported by the service
type Token struct {
	Owner                string    `json:"owner"`
	Value                string    `json:"value"`
	CreatedAt            time.Time `json:"createdAt"`
	Valid                bool      `json:"valid"`
	BasicAuthHeaderValue string    `json:"basicAuthHeaderValue"`
}

// Client represents the public interface for interacting with the token service
type Client interface {
	// Issue requests a new token for owner
	Issue(ctx context.Context, owner string) (Token, error)

	// Lookup fetches the token stored under value; found is false when there is none
	Lookup(ctx context.Context, value string) (token Token, found bool, err error)
}
