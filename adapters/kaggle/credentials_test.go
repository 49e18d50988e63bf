package kaggle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoeda/domain/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kaggle", "kaggle.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	cred := Credential{Username: "alice", Key: "k-123"}
	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cred, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "credential file must be owner-only")

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm(), "credential directory must be owner-only")
}

func TestFileStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaggle.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(Credential{Username: "alice", Key: "old"}))

	// Loosened permissions must be restored on the next save
	require.NoError(t, os.Chmod(path, 0644))
	require.NoError(t, store.Save(Credential{Username: "bob", Key: "new"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)
	assert.Equal(t, "new", loaded.Key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "kaggle.json"))
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, core.ErrNoCredential)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaggle.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNoCredential, "a corrupt file is not the same as no credential")
}

func TestFileStoreRejectsIncompleteCredential(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "kaggle.json"))
	require.NoError(t, err)

	assert.Error(t, store.Save(Credential{Username: "alice"}))
	assert.Error(t, store.Save(Credential{Key: "k"}))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, core.ErrNoCredential)

	require.NoError(t, store.Save(Credential{Username: "alice", Key: "k"}))
	require.NoError(t, store.Save(Credential{Username: "bob", Key: "k2"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)
}

func TestParseCredential(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"username":"alice","key":"k-123"}`, false},
		{"missing key", `{"username":"alice"}`, true},
		{"missing username", `{"key":"k"}`, true},
		{"not json", `username=alice`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := ParseCredential([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", cred.Username)
		})
	}
}

func TestFallbackStoreUsesFallbackWhenEmpty(t *testing.T) {
	store := NewFallbackStore(NewMemoryStore(), Credential{Username: "env-user", Key: "env-key"})

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-user", cred.Username)
}

func TestFallbackStorePrefersStoredCredential(t *testing.T) {
	primary := NewMemoryStore()
	require.NoError(t, primary.Save(Credential{Username: "casey", Key: "k3y"}))
	store := NewFallbackStore(primary, Credential{Username: "env-user", Key: "env-key"})

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "casey", cred.Username)
}

func TestFallbackStoreSaveShadowsFallback(t *testing.T) {
	primary := NewMemoryStore()
	store := NewFallbackStore(primary, Credential{Username: "env-user", Key: "env-key"})

	require.NoError(t, store.Save(Credential{Username: "casey", Key: "k3y"}))

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "casey", cred.Username)

	direct, err := primary.Load()
	require.NoError(t, err)
	assert.Equal(t, "casey", direct.Username)
}

func TestFallbackStoreWithoutFallbackCredential(t *testing.T) {
	store := NewFallbackStore(NewMemoryStore(), Credential{})

	_, err := store.Load()
	assert.ErrorIs(t, err, core.ErrNoCredential)
}

func TestFallbackStorePropagatesCorruptPrimary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaggle.json")
	primary, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewFallbackStore(primary, Credential{Username: "env-user", Key: "env-key"})

	_, err = store.Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNoCredential)
}
