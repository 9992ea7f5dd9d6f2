// Package session holds the process-wide authentication state: zero or one
// signed-in user. It is the single source of truth consulted by the access
// gate and by every component that scopes requests to a user.
//
// State lives only in memory; a restart returns to signed out.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmynk/medialog/internal/models"
)

// Session is an authenticated user plus the bearer token the API issued.
type Session struct {
	User  models.User
	Token string
}

// Store holds at most one Session.
type Store struct {
	mu      sync.RWMutex
	current *Session
	logger  *slog.Logger
}

// New creates a signed-out store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Login replaces the current state with a session for user.
// Credentials are not checked here; the caller has already confirmed them
// with the API.
func (s *Store) Login(user models.User, token string) {
	s.mu.Lock()
	s.current = &Session{User: user, Token: token}
	s.mu.Unlock()

	s.logger.Info("Session started", "user_id", user.ID, "username", user.Username)
}

// Logout clears the current session. Logging out while signed out is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("Session ended", "user_id", prev.User.ID)
	}
}

// Current returns a copy of the session, or false when signed out.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// User returns the signed-in user, or false when signed out.
func (s *Store) User() (models.User, bool) {
	sess, ok := s.Current()
	return sess.User, ok
}

// Authenticated reports whether a session exists.
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token implements apiclient.TokenSource. Empty when signed out.
func (s *Store) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const storeKey contextKey = "session_store"

// NewContext returns a context carrying store.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// FromContext extracts the store from the context.
// Returns nil if none was attached.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeKey).(*Store)
	return store
}
