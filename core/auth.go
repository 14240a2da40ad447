package core

import (
	"encoding/base64"
	"time"
)

// ValidityWindow is how long an issued token stays valid.
const ValidityWindow = 10 * time.Minute

// Token represents an issued credential
type Token struct {
	Owner     string    `json:"owner"`     // Identifier of the requester, may be empty
	Value     string    `json:"value"`     // Random opaque value, also the lookup key
	CreatedAt time.Time `json:"createdAt"` // When the token was issued
}

// ValidAt reports whether the token is still valid at now.
// Elapsed time is truncated to whole minutes before comparing,
// so a token aged 9m59s is valid and one aged 10m00s is not.
func (t Token) ValidAt(now time.Time) bool {
	elapsed := now.Sub(t.CreatedAt).Truncate(time.Minute)
	return elapsed < ValidityWindow
}

// BasicAuthHeaderValue returns an Authorization header value carrying owner:value
func (t Token) BasicAuthHeaderValue() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(t.Owner+":"+t.Value))
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by the wall clock
type SystemClock struct{}

// Now returns the current wall clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}
