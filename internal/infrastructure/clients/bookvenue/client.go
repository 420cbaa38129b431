package bookvenue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://admin.bookvenue.app/api"

// HTTPClient implements providers.APIClient against the BookVenue REST API.
// A 401 response clears the stored credentials before the error is returned.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	credentials providers.Credentials
	metrics     *observability.Metrics
}

// NewClient creates an API client. credentials may be nil for anonymous use.
func NewClient(cfg *config.APIConfig, credentials providers.Credentials, metrics *observability.Metrics) *HTTPClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		credentials: credentials,
		metrics:     metrics,
	}
}

// WithHTTPClient replaces the underlying http.Client
func (c *HTTPClient) WithHTTPClient(httpClient *http.Client) *HTTPClient {
	c.httpClient = httpClient
	return c
}

// Do sends req and returns the raw 2xx response. Non-2xx statuses yield *providers.APIError.
func (c *HTTPClient) Do(ctx context.Context, req providers.APIRequest) (*providers.APIResponse, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, span := observability.StartSpan(ctx, "bookvenue.api "+req.Method+" "+route)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var apiErr *providers.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}

	observability.SetSpanAttributes(span,
		attribute.String("http.method", req.Method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	observability.RecordError(span, err)
	observability.RecordAPIMetric(ctx, c.metrics, req.Method, route, status, time.Since(start))

	if apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized && c.credentials != nil {
		if clearErr := c.credentials.Clear(ctx, providers.ClearReasonUnauthorized); clearErr != nil {
			observability.LoggerFromContext(ctx).Error().Err(clearErr).Msg("Failed to clear credentials after 401")
		}
	}

	return resp, err
}

func (c *HTTPClient) do(ctx context.Context, req providers.APIRequest) (*providers.APIResponse, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().Str("method", req.Method).Str("path", req.Path).Msg("API request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug().Int("status", resp.StatusCode).Str("path", req.Path).Msg("API request rejected")
		return nil, &providers.APIError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(respBody),
			Body:       respBody,
		}
	}

	return &providers.APIResponse{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp.Status),
		Body:       respBody,
	}, nil
}

// serverMessage extracts the "message" field of a JSON error body
func serverMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Message.(string); ok {
		return s
	}
	return ""
}

// statusText strips the numeric code from "200 OK"
func statusText(status string) string {
	if i := strings.IndexByte(status, ' '); i >= 0 {
		return status[i+1:]
	}
	return status
}
