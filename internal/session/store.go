// Package session holds the terminal's single staff session.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/erazemk/transferhub/internal/auth"
	"github.com/erazemk/transferhub/internal/store"
)

// ErrEmptyToken is returned by Login when given an empty token.
var ErrEmptyToken = errors.New("empty session token")

// Listener is notified with the new token after every session change. An
// empty token means the session ended.
type Listener func(token string)

// Store is the process-wide session. The token is kept in memory and sealed
// into the state database so it survives a restart.
type Store struct {
	db      *sql.DB
	sealKey string

	mu        sync.RWMutex
	token     string
	listeners []Listener
}

// Open loads the persisted session, if any.
func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	sealKey, err := store.GetSealKey(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading seal key: %w", err)
	}

	s := &Store{db: db, sealKey: sealKey}

	sealed, ok, err := store.GetSetting(ctx, db, store.KeySessionToken)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if !ok {
		return s, nil
	}

	token, err := auth.Unseal(sealKey, sealed)
	if err != nil {
		slog.Warn("discarding unreadable persisted session", "error", err)
		if err := store.DeleteSetting(ctx, db, store.KeySessionToken); err != nil {
			return nil, fmt.Errorf("discarding session: %w", err)
		}
		return s, nil
	}

	s.token = string(token)
	slog.Info("session restored", "user", s.username())
	return s, nil
}

// Login starts a session with token. The token is persisted before it takes
// effect; on a persistence error the previous state is kept.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	sealed, err := auth.Seal(s.sealKey, []byte(token))
	if err != nil {
		return fmt.Errorf("sealing session: %w", err)
	}
	if err := store.SetSetting(ctx, s.db, store.KeySessionToken, sealed); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	slog.Info("session started", "user", s.Username())
	s.notify(token)
	return nil
}

// Logout ends the session. The in-memory session is always cleared; an error
// means the persisted copy could not be removed.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	user := s.username()
	s.token = ""
	s.mu.Unlock()

	s.notify("")
	slog.Info("session ended", "user", user)

	if err := store.DeleteSetting(ctx, s.db, store.KeySessionToken); err != nil {
		return fmt.Errorf("removing persisted session: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Username returns the display name carried by the token, or "" when the
// token is opaque or absent.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username()
}

func (s *Store) username() string {
	if s.token == "" {
		return ""
	}
	claims, err := auth.PeekClaims(s.token)
	if err != nil {
		return ""
	}
	return claims.DisplayName()
}

// OnChange registers fn and immediately calls it with the current token, so a
// listener registered after Open starts in sync with the restored session.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	token := s.token
	s.mu.Unlock()

	fn(token)
}

func (s *Store) notify(token string) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(token)
	}
}
