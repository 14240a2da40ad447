package authtoken

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryMax  = 3
	defaultRetryWait = 100 * time.Millisecond
)

// HTTPClient talks to the token service over HTTP. Lookups failing with
// connection errors or 5xx responses are retried; issuance is sent once.
type HTTPClient struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewHTTPClient creates a client for the service at baseURL, e.g. http://localhost:9090
func NewHTTPClient(baseURL string) *HTTPClient {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = defaultRetryWait
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Issue requests a new token for owner
func (c *HTTPClient) Issue(ctx context.Context, owner string) (Token, error) {
	body, err := json.Marshal(map[string]string{"owner": owner})
	if err != nil {
		return Token{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokens", bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// A retried issuance could mint a second token
	resp, err := c.client.HTTPClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("failed to issue token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Token{}, unexpectedStatus(resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, fmt.Errorf("failed to decode token: %w", err)
	}

	return token, nil
}

// Lookup fetches the token stored under value
func (c *HTTPClient) Lookup(ctx context.Context, value string) (Token, bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tokens/"+url.PathEscape(value), nil)
	if err != nil {
		return Token{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Token{}, false, fmt.Errorf("failed to look up token: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Token{}, false, nil
	default:
		return Token{}, false, unexpectedStatus(resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, false, fmt.Errorf("failed to decode token: %w", err)
	}

	return token, true, nil
}
