package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"daybrief/internal/logging"
)

// ExpiryBuffer is subtracted from the token expiry when checking
// validity, so a token that would expire mid-flight is treated as
// already expired.
const ExpiryBuffer = 5 * time.Minute

// ErrStorage indicates the durable credential slot could not be read.
// Not-found is not a storage error.
var ErrStorage = errors.New("token storage failure")

// Credentials is the OAuth credential set for the single supported user.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiryDate is the access token expiry in epoch milliseconds.
	// Zero means the token carries no expiry and is treated as always valid.
	ExpiryDate int64  `json:"expiry_date,omitempty"`
	Scope      string `json:"scope,omitempty"`
	TokenType  string `json:"token_type,omitempty"`
}

// Expiry returns the expiry as a time.Time, or the zero time when the
// credential set carries no expiry.
func (c *Credentials) Expiry() time.Time {
	if c.ExpiryDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiryDate)
}

// Store holds the single credential set, cached in memory and backed
// by one JSON file slot. Safe for concurrent use; a logout racing an
// in-flight fetch is last-writer-wins on the cache.
type Store struct {
	mu     sync.Mutex
	path   string
	creds  *Credentials
	loaded bool
	logger *slog.Logger
}

// NewStore creates a Store backed by the JSON file at path.
// If logger is nil, slog.Default() is used.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logging.WithService(logger, "token_store"),
	}
}

// Load returns the stored credential set, reading the durable slot at
// most once per process lifetime. A missing slot returns (nil, nil);
// any other read or parse failure is reported as ErrStorage.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*Credentials, error) {
	if s.loaded {
		return s.creds, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Slot doesn't exist yet
			s.creds = nil
			s.loaded = true
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorage, s.path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStorage, s.path, err)
	}

	s.creds = &creds
	s.loaded = true
	return s.creds, nil
}

// Save replaces the credential set. The in-memory cache is updated
// first so subsequent reads see the new value even if the durable
// write fails; a write failure is logged, not returned.
func (s *Store) Save(creds *Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	s.loaded = true

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode credentials", logging.Err(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		s.logger.Error("failed to create token directory", logging.Err(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		// In-memory state remains authoritative for this process
		s.logger.Error("failed to write token file", logging.Err(err))
	}
}

// Clear resets the in-memory cache and deletes the durable slot.
// Absence of the slot is not an error; clearing twice is fine.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// HasValidTokens reports whether a usable credential set is present.
// A credential set with an expiry is valid strictly before
// expiry - ExpiryBuffer; one without an expiry is always valid.
func (s *Store) HasValidTokens() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	if creds == nil || creds.AccessToken == "" {
		return false, nil
	}

	if creds.ExpiryDate != 0 {
		return time.Now().Before(creds.Expiry().Add(-ExpiryBuffer)), nil
	}

	return true, nil
}
