package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tripbook/internal/domain/models"
)

// Session holds the bearer token. When Path is set it is persisted as JSON so
// the CLI stays logged in between runs.
type Session struct {
	Path string

	mu    sync.RWMutex
	token string
	user  models.User
}

type sessionFile struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// LoadSession reads a saved session. A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	s := &Session{Path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.token, s.user = f.Token, f.User
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set stores the login result and persists it.
func (s *Session) Set(token string, u models.User) error {
	s.mu.Lock()
	s.token, s.user = token, u
	s.mu.Unlock()
	return s.save()
}

// Logout drops the token and removes the saved file.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token, s.user = "", models.User{}
	s.mu.Unlock()
	if s.Path == "" {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Session) save() error {
	if s.Path == "" {
		return nil
	}
	s.mu.RLock()
	raw, err := json.Marshal(sessionFile{Token: s.token, User: s.user})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.Path, raw, 0o600)
}
