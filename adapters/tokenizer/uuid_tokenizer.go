package tokenizer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/layer-3/authtoken/ports"
)

// UUIDTokenizer implements the Tokenizer interface with random (version 4) UUIDs
type UUIDTokenizer struct{}

// NewUUIDTokenizer creates a new UUID tokenizer
func NewUUIDTokenizer() ports.Tokenizer {
	return UUIDTokenizer{}
}

// NewValue returns a fresh UUID read from crypto/rand
func (UUIDTokenizer) NewValue() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}

	return id.String(), nil
}
