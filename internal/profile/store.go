// Package profile persists per-user terminal credentials and auto-login
// preferences. The login flow controller is the sole writer; action
// primitives never touch profiles directly.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Profile holds one user's cached terminal credentials
type Profile struct {
	// User is the terminal login name
	User string `json:"user"`

	// Pass is the cached password; empty when not cached or cleared after
	// an incorrect/expired password was detected
	Pass string `json:"pass,omitempty"`

	// TokenData carries the last decoded session-token claims
	TokenData map[string]any `json:"tokenData,omitempty"`

	// AutoLogin enables quick-login with the cached password
	AutoLogin bool `json:"autoLoginEnabled"`

	// AutoLoginPreference remembers the operator's opt-in choice
	AutoLoginPreference bool `json:"autoLoginPreference"`
}

// Store is a file-backed map of user id to profile. Reads and writes are
// read-modify-write without cross-process coordination: concurrent writers
// race and the last write wins.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store persisting to the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// load reads the profile map; a missing file is an empty map
func (s *Store) load() (map[string]Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}

	profiles := map[string]Profile{}
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profile store: %w", err)
	}
	return profiles, nil
}

// save writes the profile map back to disk
func (s *Store) save(profiles map[string]Profile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create profile store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	return nil
}

// Get returns the profile for a user id, if one exists
func (s *Store) Get(id string) (Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return Profile{}, false, err
	}
	p, ok := profiles[id]
	return p, ok, nil
}

// Put creates or replaces the profile for a user id
func (s *Store) Put(id string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	profiles[id] = p
	return s.save(profiles)
}

// Update applies fn to the stored profile (zero value when absent) and
// persists the result.
func (s *Store) Update(id string, fn func(p *Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	p := profiles[id]
	fn(&p)
	profiles[id] = p
	return s.save(profiles)
}

// ClearPassword drops the cached password and disables auto-login, used
// after an incorrect or expired password was detected.
func (s *Store) ClearPassword(id string) error {
	return s.Update(id, func(p *Profile) {
		p.Pass = ""
		p.AutoLogin = false
	})
}

// Forget removes the profile entirely
func (s *Store) Forget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := profiles[id]; !ok {
		return nil
	}
	delete(profiles, id)
	return s.save(profiles)
}
