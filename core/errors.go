package core

import "errors"

var (
	ErrTokenExpired         = errors.New("token has expired")
	ErrInvalidToken         = errors.New("invalid token")
	ErrStoreOperationFailed = errors.New("store operation failed")
)
