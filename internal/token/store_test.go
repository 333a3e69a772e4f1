package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "tokens.json"), nil)
}

func TestLoadMissingSlot(t *testing.T) {
	store := newTestStore(t)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds, "missing slot should load as nil without error")
}

func TestLoadCorruptSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path, nil)
	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSaveThenLoad(t *testing.T) {
	store := newTestStore(t)

	saved := &Credentials{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiryDate:   time.Now().Add(time.Hour).UnixMilli(),
		Scope:        "https://www.googleapis.com/auth/calendar.readonly",
		TokenType:    "Bearer",
	}
	store.Save(saved)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveSurvivesDurableWriteFailure(t *testing.T) {
	// Point the store at a path whose parent cannot be created
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store := NewStore(filepath.Join(blocker, "sub", "tokens.json"), nil)

	saved := &Credentials{AccessToken: "access-token"}
	store.Save(saved)

	// In-memory state remains authoritative even though the write failed
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	valid, err := store.HasValidTokens()
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSavePersistsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewStore(path, nil)

	store.Save(&Credentials{AccessToken: "access-token", TokenType: "Bearer"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk Credentials
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "access-token", onDisk.AccessToken)

	// A fresh store reading the same slot sees the saved value
	fresh := NewStore(path, nil)
	loaded, err := fresh.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-token", loaded.AccessToken)
}

func TestClearThenLoad(t *testing.T) {
	store := newTestStore(t)
	store.Save(&Credentials{AccessToken: "access-token"})

	require.NoError(t, store.Clear())

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	store.Save(&Credentials{AccessToken: "access-token"})

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewStore(path, nil)
	store.Save(&Credentials{AccessToken: "access-token"})

	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "token file should be removed")
}

func TestHasValidTokens(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		creds *Credentials
		want  bool
	}{
		{
			name:  "no credentials",
			creds: nil,
			want:  false,
		},
		{
			name:  "no access token",
			creds: &Credentials{RefreshToken: "refresh-token"},
			want:  false,
		},
		{
			name:  "no expiry is always valid",
			creds: &Credentials{AccessToken: "access-token"},
			want:  true,
		},
		{
			name: "expiry well in the future",
			creds: &Credentials{
				AccessToken: "access-token",
				ExpiryDate:  now.Add(time.Hour).UnixMilli(),
			},
			want: true,
		},
		{
			name: "expiry just past the safety buffer",
			creds: &Credentials{
				AccessToken: "access-token",
				ExpiryDate:  now.Add(ExpiryBuffer + time.Minute).UnixMilli(),
			},
			want: true,
		},
		{
			name: "expiry inside the safety buffer",
			creds: &Credentials{
				AccessToken: "access-token",
				ExpiryDate:  now.Add(4 * time.Minute).UnixMilli(),
			},
			want: false,
		},
		{
			name: "already expired",
			creds: &Credentials{
				AccessToken: "access-token",
				ExpiryDate:  now.Add(-time.Hour).UnixMilli(),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.creds != nil {
				store.Save(tt.creds)
			}

			valid, err := store.HasValidTokens()
			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestHasValidTokensStorageFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path, nil)
	_, err := store.HasValidTokens()
	assert.ErrorIs(t, err, ErrStorage)
}

func TestCredentialsExpiry(t *testing.T) {
	creds := &Credentials{}
	assert.True(t, creds.Expiry().IsZero())

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	creds.ExpiryDate = at.UnixMilli()
	assert.True(t, creds.Expiry().Equal(at))
}
