package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bookvenue/client/internal/adapters/storage"
	"github.com/bookvenue/client/internal/application/services"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Do(ctx context.Context, req providers.APIRequest) (*providers.APIResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.APIResponse), args.Error(1)
}

type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKeyValueStore) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockKeyValueStore) Close() error {
	return nil
}

// Helpers

func ok(body string) *providers.APIResponse {
	return &providers.APIResponse{StatusCode: http.StatusOK, Status: "OK", Body: []byte(body)}
}

func apiError(status int, message string) *providers.APIError {
	body, _ := json.Marshal(map[string]string{"message": message})
	return &providers.APIError{StatusCode: status, Message: message, Body: body}
}

func request(method, path string) any {
	return mock.MatchedBy(func(r providers.APIRequest) bool {
		return r.Method == method && r.Path == path
	})
}

func newCredentials(t *testing.T) (*services.CredentialStore, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return services.NewCredentialStore(store, nil), store
}

func seedToken(t *testing.T, store providers.KeyValueStore, token string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), services.TokenKey, []byte(token)))
}
