package authtoken

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is returned when the service answers with an unexpected status code
var ErrUnexpectedStatus = errors.New("unexpected status")

func unexpectedStatus(code int) error {
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
}
