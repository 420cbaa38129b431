package providers

import (
	"context"
	"fmt"
	"net/url"
)

// APIRequest describes one call against the BookVenue REST API
type APIRequest struct {
	Method string
	Path   string
	// Route is the path template used for telemetry; Path is used when empty
	Route string
	Query url.Values
	Body  any
}

// APIResponse is the undecoded result of a successful (2xx) call
type APIResponse struct {
	StatusCode int
	Status     string
	Body       []byte
}

// APIClient issues authenticated REST calls
type APIClient interface {
	Do(ctx context.Context, req APIRequest) (*APIResponse, error)
}

// APIError is returned by APIClient for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

// Credentials supplies the bearer token for outgoing requests and is told
// when the server rejects it
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context, reason string) error
}

// Reasons passed to Credentials.Clear
const (
	ClearReasonLogout       = "logout"
	ClearReasonUnauthorized = "unauthorized"
	ClearReasonBootstrap    = "bootstrap_failed"
)
