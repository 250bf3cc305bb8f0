// Package bookmarks owns the start page's bookmark collection and keeps it in
// sync with the key/value backend.
package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Listener is called with a snapshot after every successful mutation.
type Listener func(snapshot []domain.Bookmark)

// Options configures a Store.
type Options struct {
	Edition domain.Edition
	// Registry overrides the edition's built-in registry. Optional.
	Registry *domain.Registry
	// NewID generates ids for new entries. Defaults to UUID v4.
	NewID func() string
}

// Store is the authoritative bookmark list.
//
// Every mutation is a read-modify-write under mu followed by exactly one
// persistence write before the call returns. If that write fails the
// in-memory change is undone.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	log       logger.Logger
	registry  domain.Registry
	edition   domain.Edition
	newID     func() string
	items     []domain.Bookmark
	loaded    bool
	listeners []Listener
}

// NewStore creates an unloaded store. Call Load before any mutation.
func NewStore(backend kv.Store, log logger.Logger, opts Options) *Store {
	reg := domain.RegistryFor(opts.Edition)
	if opts.Registry != nil {
		reg = *opts.Registry
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &Store{
		kv:       backend,
		log:      log,
		registry: reg,
		edition:  opts.Edition,
		newID:    newID,
	}
}

// Registry returns the category registry the store validates against.
func (s *Store) Registry() domain.Registry { return s.registry }

// Edition returns the edition the store seeds from.
func (s *Store) Edition() domain.Edition { return s.edition }

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Subscribe registers a "list changed" listener. Listeners run synchronously
// after the mutation has been persisted, outside the store lock.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load reads the persisted collection, seeding or migrating it as needed.
//
// A corrupt value is replaced by the defaults; the returned error is then a
// *domain.CorruptStateError and the returned slice is still usable.
func (s *Store) Load(ctx context.Context) ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevItems, prevLoaded := s.items, s.loaded
	restore := func() { s.items, s.loaded = prevItems, prevLoaded }

	raw, err := s.kv.Get(ctx, kv.KeyBookmarks)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.log.Info("no saved bookmarks, seeding defaults", logger.String("edition", string(s.edition)))
		if err := s.seedLocked(ctx); err != nil {
			restore()
			return nil, err
		}
		return s.snapshotLocked(), nil

	case err != nil:
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	persisted, err := decodePersisted(raw)
	if err != nil {
		corrupt := &domain.CorruptStateError{Key: kv.KeyBookmarks, Err: err}
		s.log.Warn("saved bookmarks are unreadable, reseeding defaults", logger.Error(corrupt))
		if err := s.seedLocked(ctx); err != nil {
			restore()
			return nil, errors.Join(corrupt, err)
		}
		return s.snapshotLocked(), corrupt
	}

	items, migrated := s.migrate(persisted)
	s.items = items

	if migrated > 0 {
		s.log.Info("migrated legacy bookmarks", logger.Int("count", migrated))
		if err := s.persistLocked(ctx); err != nil {
			restore()
			return nil, err
		}
	}

	s.loaded = true
	s.log.Debug("bookmarks loaded", logger.Int("count", len(s.items)))
	return s.snapshotLocked(), nil
}

func (s *Store) seedLocked(ctx context.Context) error {
	s.items = domain.DefaultBookmarks(s.edition)
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// Save writes the current collection in one backend write.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.ErrNotLoaded
	}
	return s.persistLocked(ctx)
}

// Add appends a new bookmark and returns it with its generated id.
func (s *Store) Add(ctx context.Context, name, url, category string) (domain.Bookmark, error) {
	in, err := domain.BookmarkInput{Name: name, URL: url, Category: category}.Normalize(s.registry)
	if err != nil {
		return domain.Bookmark{}, err
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return domain.Bookmark{}, domain.ErrNotLoaded
	}

	b := in.Apply(domain.Bookmark{ID: s.uniqueID(s.items)})
	prev := s.items
	s.items = append(cloneBookmarks(prev), b)

	if err := s.persistLocked(ctx); err != nil {
		s.items = prev
		s.mu.Unlock()
		return domain.Bookmark{}, err
	}
	snap := s.snapshotLocked()
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info("bookmark added",
		logger.String("id", b.ID),
		logger.String("category", b.Category))
	notify(listeners, snap)
	return b, nil
}

// Update replaces name, url and category of the bookmark with id.
func (s *Store) Update(ctx context.Context, id, name, url, category string) (domain.Bookmark, error) {
	in, err := domain.BookmarkInput{Name: name, URL: url, Category: category}.Normalize(s.registry)
	if err != nil {
		return domain.Bookmark{}, err
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return domain.Bookmark{}, domain.ErrNotLoaded
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Bookmark{}, &domain.NotFoundError{ID: id}
	}

	prev := s.items
	next := cloneBookmarks(prev)
	next[idx] = in.Apply(next[idx])
	s.items = next

	if err := s.persistLocked(ctx); err != nil {
		s.items = prev
		s.mu.Unlock()
		return domain.Bookmark{}, err
	}
	updated := next[idx]
	snap := s.snapshotLocked()
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info("bookmark updated", logger.String("id", id))
	notify(listeners, snap)
	return updated, nil
}

// Remove deletes the bookmark with id. Removing an unknown id is a no-op:
// nothing is written and no listener fires.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return domain.ErrNotLoaded
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("remove of unknown bookmark ignored", logger.String("id", id))
		return nil
	}

	prev := s.items
	next := make([]domain.Bookmark, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.items = next

	if err := s.persistLocked(ctx); err != nil {
		s.items = prev
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info("bookmark removed", logger.String("id", id))
	notify(listeners, snap)
	return nil
}

// Import appends entries whose URL is not yet in the collection. Entries get
// fresh ids; unknown categories fall back to domain.FallbackCategory and
// invalid entries are skipped. All additions are persisted in one write.
func (s *Store) Import(ctx context.Context, entries []domain.Bookmark) (int, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return 0, domain.ErrNotLoaded
	}

	seen := make(map[string]bool, len(s.items)+len(entries))
	for _, b := range s.items {
		seen[domain.URLKey(b.URL)] = true
	}

	prev := s.items
	next := cloneBookmarks(prev)
	added := 0
	for _, e := range entries {
		category := e.Category
		if !s.registry.Has(category) {
			category = domain.FallbackCategory
		}
		in, err := domain.BookmarkInput{Name: e.Name, URL: e.URL, Category: category}.Normalize(s.registry)
		if err != nil {
			s.log.Debug("skipping invalid import entry",
				logger.String("name", e.Name),
				logger.Error(err))
			continue
		}
		key := domain.URLKey(in.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		next = append(next, in.Apply(domain.Bookmark{ID: s.uniqueID(next)}))
		added++
	}

	if added == 0 {
		s.mu.Unlock()
		return 0, nil
	}

	s.items = next
	if err := s.persistLocked(ctx); err != nil {
		s.items = prev
		s.mu.Unlock()
		return 0, err
	}
	snap := s.snapshotLocked()
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info("bookmarks imported", logger.Int("added", added), logger.Int("offered", len(entries)))
	notify(listeners, snap)
	return added, nil
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the bookmark with id.
func (s *Store) Get(id string) (domain.Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], true
	}
	return domain.Bookmark{}, false
}

// Sections renders the current collection.
func (s *Store) Sections() []domain.Section {
	return domain.Render(s.List(), s.registry)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyBookmarks, string(data)); err != nil {
		return fmt.Errorf("failed to persist bookmarks: %w", err)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return indexOf(s.items, id)
}

func indexOf(items []domain.Bookmark, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused in items.
func (s *Store) uniqueID(items []domain.Bookmark) string {
	for {
		id := s.newID()
		if id != "" && indexOf(items, id) < 0 {
			return id
		}
	}
}

func (s *Store) snapshotLocked() []domain.Bookmark {
	return cloneBookmarks(s.items)
}

func cloneBookmarks(in []domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, len(in))
	copy(out, in)
	return out
}

func notify(listeners []Listener, snap []domain.Bookmark) {
	for _, l := range listeners {
		l(cloneBookmarks(snap))
	}
}
