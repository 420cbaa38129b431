package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	apperrors "github.com/bookvenue/client/pkg/errors"
)

// failureMessage prefers the server's "message" over the operation's fallback
func failureMessage(err error, fallback string) string {
	var apiErr *providers.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// call issues req and maps any failure to a TRANSPORT error carrying the right message
func call(ctx context.Context, api providers.APIClient, req providers.APIRequest, fallback string) (*providers.APIResponse, error) {
	resp, err := api.Do(ctx, req)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg(fallback)
		return nil, apperrors.NewTransportError(failureMessage(err, fallback), err)
	}
	return resp, nil
}

func post(path string, body any) providers.APIRequest {
	return providers.APIRequest{Method: http.MethodPost, Path: path, Body: body}
}

func get(path string) providers.APIRequest {
	return providers.APIRequest{Method: http.MethodGet, Path: path}
}

// rawBody returns the response body, with "null" standing in for an empty one
func rawBody(resp *providers.APIResponse) json.RawMessage {
	if len(resp.Body) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(resp.Body)
}

// decodeBody decodes a response body into generic JSON values; undecodable bodies yield nil
func decodeBody(resp *providers.APIResponse) any {
	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil
	}
	return payload
}
