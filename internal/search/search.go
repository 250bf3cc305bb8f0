// Package search turns what was typed in the search bar into a destination.
package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sahilm/fuzzy"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// DefaultCacheSize is used when the configured size is not positive.
const DefaultCacheSize = 256

var ErrEmptyQuery = errors.New("search: empty query")

// Kind tells how a query was resolved.
type Kind string

const (
	KindBookmark Kind = "bookmark"
	KindURL      Kind = "url"
	KindSearch   Kind = "search"
)

type Result struct {
	Kind Kind   `json:"kind"`
	URL  string `json:"url"`
	// Name of the matched bookmark, for KindBookmark.
	Name string `json:"name,omitempty"`
}

// Resolver resolves queries. "@" quick-jumps are cached until Invalidate.
type Resolver struct {
	cache *lru.Cache[string, Result]
	log   logger.Logger

	// gen counts invalidations; a lookup only caches its result if no
	// invalidation happened since it started.
	mu  sync.Mutex
	gen uint64
}

func NewResolver(cacheSize int, log logger.Logger) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}
	return &Resolver{cache: cache, log: log}, nil
}

// Invalidate drops cached quick-jumps. Wire it to the bookmark store's
// change listener.
func (r *Resolver) Invalidate([]domain.Bookmark) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.cache.Purge()
}

func (r *Resolver) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// fill caches res unless the cache was invalidated after gen was read.
func (r *Resolver) fill(key string, res Result, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return false
	}
	r.cache.Add(key, res)
	return true
}

// Resolve maps query to a destination:
//   - "@name" jumps to the best fuzzy match among bookmark names, or
//     searches for "name" when nothing matches
//   - text with a dot and no space is opened as a URL (https:// added)
//   - anything else goes to engine
func (r *Resolver) Resolve(query string, engine domain.SearchEngine, bookmarks []domain.Bookmark) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}

	if strings.HasPrefix(query, "@") {
		text := strings.TrimSpace(strings.TrimPrefix(query, "@"))
		if text == "" {
			return Result{}, ErrEmptyQuery
		}
		if res, ok := r.jump(text, bookmarks); ok {
			return res, nil
		}
		r.log.Debug("no bookmark matched, falling back to web search", logger.String("query", text))
		return webSearch(text, engine), nil
	}

	if LooksLikeURL(query) {
		return Result{Kind: KindURL, URL: EnsureScheme(query)}, nil
	}

	return webSearch(query, engine), nil
}

func (r *Resolver) jump(text string, bookmarks []domain.Bookmark) (Result, bool) {
	key := strings.ToLower(text)
	gen := r.generation()
	if res, ok := r.cache.Get(key); ok {
		return res, true
	}

	matches := fuzzy.FindFrom(text, bookmarkNames(bookmarks))
	if len(matches) == 0 {
		return Result{}, false
	}

	best := bookmarks[matches[0].Index]
	res := Result{Kind: KindBookmark, URL: best.URL, Name: best.Name}
	if !r.fill(key, res, gen) {
		r.log.Debug("bookmarks changed during quick-jump, result not cached", logger.String("query", text))
	}
	r.log.Debug("quick-jump resolved",
		logger.String("query", text),
		logger.String("bookmark", best.Name),
		logger.Int("score", matches[0].Score))
	return res, true
}

// LooksLikeURL reports whether the search bar should open q directly.
func LooksLikeURL(q string) bool {
	return strings.Contains(q, ".") && !strings.Contains(q, " ")
}

// EnsureScheme prefixes https:// unless q already has an http(s) scheme.
func EnsureScheme(q string) string {
	if strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://") {
		return q
	}
	return "https://" + q
}

func webSearch(q string, engine domain.SearchEngine) Result {
	if engine.BaseURL == "" {
		engine, _ = domain.LookupSearchEngine(domain.DefaultSearchEngine)
	}
	return Result{Kind: KindSearch, URL: engine.SearchURL(q)}
}

// bookmarkNames implements fuzzy.Source.
type bookmarkNames []domain.Bookmark

func (b bookmarkNames) String(i int) string { return b[i].Name }
func (b bookmarkNames) Len() int            { return len(b) }
