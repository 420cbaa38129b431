package services

import (
	"context"
	"sync"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	apperrors "github.com/bookvenue/client/pkg/errors"
)

// SessionService holds the signed-in user for the lifetime of the app and
// publishes every change to its subscribers. It starts in the loading state
// until Init completes.
type SessionService struct {
	auth        *AuthService
	credentials *CredentialStore

	mu          sync.RWMutex
	state       entities.SessionState
	subscribers map[int]func(entities.SessionState)
	nextID      int

	stopWatching func()
}

// NewSessionService creates a session service that follows credential changes
func NewSessionService(auth *AuthService, credentials *CredentialStore) *SessionService {
	s := &SessionService{
		auth:        auth,
		credentials: credentials,
		state:       entities.SessionState{Loading: true},
		subscribers: make(map[int]func(entities.SessionState)),
	}
	s.stopWatching = credentials.Subscribe(func(session entities.Session) {
		if !session.LoggedIn() {
			s.setUser(nil)
		}
	})
	return s
}

// Close stops following credential changes
func (s *SessionService) Close() {
	if s.stopWatching != nil {
		s.stopWatching()
	}
}

// Init restores the session from storage. Any failure clears the stored credentials.
// Loading is false once Init returns, whatever the outcome.
func (s *SessionService) Init(ctx context.Context) {
	defer s.setLoading(false)

	logger := observability.LoggerFromContext(ctx)

	token, err := s.credentials.Token(ctx)
	if err == nil && token == "" {
		logger.Debug().Msg("No stored session")
		return
	}

	var user *entities.User
	if err == nil {
		user, err = s.auth.GetProfile(ctx)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to restore session")
		if clearErr := s.credentials.Clear(ctx, providers.ClearReasonBootstrap); clearErr != nil {
			logger.Error().Err(clearErr).Msg("Failed to clear stored credentials")
		}
		return
	}

	s.setUser(user)
	logger.Debug().Str("user_id", user.ID).Msg("Session restored")
}

// Login loads the profile after a successful OTP verification
func (s *SessionService) Login(ctx context.Context) error {
	return s.loadProfile(ctx, "Login")
}

// Register loads the profile after a successful registration
func (s *SessionService) Register(ctx context.Context) error {
	return s.loadProfile(ctx, "Registration")
}

func (s *SessionService) loadProfile(ctx context.Context, action string) error {
	user, err := s.auth.GetProfile(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg(action + " failed")
		return err
	}
	s.setUser(user)
	return nil
}

// Logout clears the session. The user is dropped even when clearing storage fails.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	s.setUser(nil)
	if err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Debug().Msg("User logged out")
	return nil
}

// UpdateProfile merges patch into the current user, submits it and stores the server's copy
func (s *SessionService) UpdateProfile(ctx context.Context, patch entities.UserPatch) (*entities.User, error) {
	current := s.State().User
	if current == nil {
		return nil, apperrors.NewNotAuthenticatedError("User not logged in")
	}

	updated, err := s.auth.UpdateProfile(ctx, patch.Apply(*current))
	if err != nil {
		return nil, err
	}
	s.setUser(updated)
	return updated, nil
}

// Refresh reloads the profile. Failures are logged and leave the state unchanged.
func (s *SessionService) Refresh(ctx context.Context) {
	user, err := s.auth.GetProfile(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to refresh user")
		return
	}
	s.setUser(user)
}

// IsLoggedIn reports whether a token is stored
func (s *SessionService) IsLoggedIn(ctx context.Context) (bool, error) {
	token, err := s.credentials.Token(ctx)
	return token != "", err
}

// State returns a snapshot of the current state
func (s *SessionService) State() entities.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Subscribe registers fn for state changes and returns its unsubscribe func
func (s *SessionService) Subscribe(fn func(entities.SessionState)) func() {
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

func (s *SessionService) setUser(user *entities.User) {
	s.update(func(state *entities.SessionState) {
		if user == nil {
			state.User = nil
			return
		}
		u := *user
		state.User = &u
	})
}

func (s *SessionService) setLoading(loading bool) {
	s.update(func(state *entities.SessionState) {
		state.Loading = loading
	})
}

func (s *SessionService) update(fn func(*entities.SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := copyState(s.state)
	fns := make([]func(entities.SessionState), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		fns = append(fns, sub)
	}
	s.mu.Unlock()

	for _, sub := range fns {
		sub(snapshot)
	}
}

func copyState(state entities.SessionState) entities.SessionState {
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}
