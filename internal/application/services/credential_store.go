package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
)

// Persisted keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

// CredentialStore is the single owner of the persisted token and user.
// Subscribers are told about every save and clear, wherever it came from.
type CredentialStore struct {
	store   providers.KeyValueStore
	metrics *observability.Metrics

	mu          sync.RWMutex
	subscribers map[int]func(entities.Session)
	nextID      int
}

// NewCredentialStore creates a credential store over a key-value store
func NewCredentialStore(store providers.KeyValueStore, metrics *observability.Metrics) *CredentialStore {
	return &CredentialStore{
		store:       store,
		metrics:     metrics,
		subscribers: make(map[int]func(entities.Session)),
	}
}

// Token returns the persisted token, or "" when none is stored
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, TokenKey)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(value), nil
}

// Session returns the persisted token and raw user
func (s *CredentialStore) Session(ctx context.Context) (entities.Session, error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return entities.Session{}, err
	}

	session := entities.Session{Token: token}
	user, err := s.store.Get(ctx, UserKey)
	switch {
	case errors.Is(err, providers.ErrKeyNotFound):
	case err != nil:
		return entities.Session{}, fmt.Errorf("failed to read user: %w", err)
	default:
		session.User = json.RawMessage(user)
	}
	return session, nil
}

// SaveSession persists token and the raw user JSON. A missing user removes any
// user left over from an earlier session so the pair always belongs together.
func (s *CredentialStore) SaveSession(ctx context.Context, token string, user json.RawMessage) error {
	if token == "" {
		return nil
	}
	if err := s.store.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if len(user) > 0 && string(user) != "null" {
		if err := s.store.Set(ctx, UserKey, user); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
	} else {
		user = nil
		if err := s.store.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("failed to drop stale user: %w", err)
		}
	}

	s.notify(entities.Session{Token: token, User: user})
	return nil
}

// Clear removes the token and user together
func (s *CredentialStore) Clear(ctx context.Context, reason string) error {
	if err := s.store.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().Str("reason", reason).Msg("Credentials cleared")
	observability.RecordSessionClear(ctx, s.metrics, reason)
	s.notify(entities.Session{})
	return nil
}

// Subscribe registers fn for credential changes and returns its unsubscribe func
func (s *CredentialStore) Subscribe(fn func(entities.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *CredentialStore) notify(session entities.Session) {
	s.mu.RLock()
	fns := make([]func(entities.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(session)
	}
}
