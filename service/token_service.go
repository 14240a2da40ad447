package service

import (
	"context"
	"fmt"

	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/ports"
	"github.com/sirupsen/logrus"
)

// TokenService handles token issuance and validation
type TokenService struct {
	tokenizer ports.Tokenizer
	store     ports.Store
	eventPub  ports.EventPublisher
	clock     core.Clock
	log       logrus.FieldLogger
}

// Option configures a TokenService
type Option func(*TokenService)

// WithClock replaces the wall clock used for issuance and validity checks
func WithClock(clock core.Clock) Option {
	return func(s *TokenService) {
		s.clock = clock
	}
}

// WithEventPublisher publishes an event for every issued token
func WithEventPublisher(eventPub ports.EventPublisher) Option {
	return func(s *TokenService) {
		s.eventPub = eventPub
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *TokenService) {
		s.log = log
	}
}

// NewTokenService creates a new token service
func NewTokenService(tokenizer ports.Tokenizer, store ports.Store, opts ...Option) *TokenService {
	s := &TokenService{
		tokenizer: tokenizer,
		store:     store,
		clock:     core.SystemClock{},
		log:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Issue creates a token for owner and stores it. Owner is not validated.
func (s *TokenService) Issue(ctx context.Context, owner string) (core.Token, error) {
	value, err := s.tokenizer.NewValue()
	if err != nil {
		return core.Token{}, fmt.Errorf("failed to create token value: %w", err)
	}

	token := core.Token{
		Owner:     owner,
		Value:     value,
		CreatedAt: s.clock.Now(),
	}

	if err := s.store.Add(ctx, token); err != nil {
		return core.Token{}, fmt.Errorf("failed to store token: %w", err)
	}

	// The token is already stored, a lost event must not fail issuance
	if s.eventPub != nil {
		if err := s.eventPub.PublishIssued(ctx, token); err != nil {
			s.log.WithError(err).WithField("owner", owner).Warn("failed to publish issued event")
		}
	}

	return token, nil
}

// Lookup returns the token stored under value. found is false when there is none.
func (s *TokenService) Lookup(ctx context.Context, value string) (core.Token, bool, error) {
	token, found, err := s.store.FindByValue(ctx, value)
	if err != nil {
		return core.Token{}, false, fmt.Errorf("failed to look up token: %w", err)
	}

	return token, found, nil
}

// IsValid reports whether token is younger than the validity window right now
func (s *TokenService) IsValid(token core.Token) bool {
	return token.ValidAt(s.clock.Now())
}

// BasicAuthHeaderValue returns the token formatted as a Basic Authorization header value
func (s *TokenService) BasicAuthHeaderValue(token core.Token) string {
	return token.BasicAuthHeaderValue()
}

// Authenticate looks up value and checks that the token is still valid
func (s *TokenService) Authenticate(ctx context.Context, value string) (core.Token, error) {
	token, found, err := s.Lookup(ctx, value)
	if err != nil {
		return core.Token{}, err
	}

	if !found {
		return core.Token{}, core.ErrInvalidToken
	}

	if !s.IsValid(token) {
		return token, core.ErrTokenExpired
	}

	return token, nil
}
