// Package kv is the string-keyed persistence layer behind the start page.
// Every Set is atomic for its key; callers never see a half-written value.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Persisted keys.
const (
	KeyBookmarks     = "bookmarks"
	KeySearchEngine  = "searchEngine"
	KeyProfile       = "profile"
	KeyClockMode     = "clockMode"
	KeyLastWallpaper = "lastWallpaper"

	// KeyHomepageImported holds the URLs already offered by homepage imports.
	KeyHomepageImported = "homepageImported"
)

// Store is implemented by every backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	// Backend names the implementation ("memory", "sqlite", "redis").
	Backend() string
	Close() error
}
