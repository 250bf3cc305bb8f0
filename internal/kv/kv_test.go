package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gotest.tools/v3/assert"
)

// exercise runs the contract every backend must honor.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyBookmarks)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NilError(t, s.Set(ctx, KeyBookmarks, `[{"id":"1"}]`))
	got, err := s.Get(ctx, KeyBookmarks)
	assert.NilError(t, err)
	assert.Equal(t, got, `[{"id":"1"}]`)

	assert.NilError(t, s.Set(ctx, KeyBookmarks, `[]`))
	got, err = s.Get(ctx, KeyBookmarks)
	assert.NilError(t, err)
	assert.Equal(t, got, `[]`)

	assert.NilError(t, s.Set(ctx, KeyClockMode, "12h"))
	assert.NilError(t, s.Delete(ctx, KeyClockMode))
	_, err = s.Get(ctx, KeyClockMode)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is fine.
	assert.NilError(t, s.Delete(ctx, KeyProfile))
	assert.NilError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exercise(t, s)
	assert.Equal(t, s.Backend(), "memory")
	assert.Equal(t, s.Writes(), 3)
	assert.NilError(t, s.Close())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "newtab.db")
	s, err := NewSQLiteStore(path)
	assert.NilError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exercise(t, s)
	assert.Equal(t, s.Backend(), "sqlite")
	assert.Equal(t, s.Path(), path)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newtab.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	assert.NilError(t, err)
	assert.NilError(t, s.Set(ctx, KeySearchEngine, "duckduckgo"))
	assert.NilError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	assert.NilError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, KeySearchEngine)
	assert.NilError(t, err)
	assert.Equal(t, got, "duckduckgo")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	t.Cleanup(func() { _ = s.Close() })

	exercise(t, s)
	assert.Equal(t, s.Backend(), "redis")

	assert.NilError(t, s.Set(context.Background(), KeyLastWallpaper, "https://img.example/1.jpg"))
	raw, err := mr.Get("newtab:lastWallpaper")
	assert.NilError(t, err)
	assert.Equal(t, raw, "https://img.example/1.jpg")
	assert.Equal(t, mr.TTL("newtab:lastWallpaper").Seconds(), float64(0))
}
