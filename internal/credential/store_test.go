package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriChat/internal/config"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore(ctx, filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(dir, "nested", "credentials.json")),
		"sqlite": sqliteStore,
	}

	if url := os.Getenv("RORICHAT_TEST_REDIS_URL"); url != "" {
		redisStore, err := NewRedisStore(ctx, url)
		require.NoError(t, err)
		stores["redis"] = redisStore
	}

	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "missing-"+name)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, KeyName, "first"))
			require.NoError(t, store.Set(ctx, KeyName, "second"))

			v, ok, err := store.Get(ctx, KeyName)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "second", v)

			require.NoError(t, store.Set(ctx, KeyName, ""))
			_, ok, err = store.Get(ctx, KeyName)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(context.Background(), KeyName, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err := NewFileStore(path).Get(context.Background(), KeyName)
	assert.Error(t, err)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.db")

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyName, "kept"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, KeyName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Setenv("RORICHAT_HOME", t.TempDir())
	t.Setenv("RORICHAT_CREDENTIALS_BACKEND", config.BackendSQLite)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	_, isSQLite := store.(*SQLiteStore)
	assert.True(t, isSQLite)
}
