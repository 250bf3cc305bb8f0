package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/sources/homepage"
)

// BookmarkImporter is the part of the bookmark store the importer needs.
type BookmarkImporter interface {
	Import(ctx context.Context, entries []domain.Bookmark) (int, error)
	Registry() domain.Registry
}

// ImportStatus describes the last import run.
type ImportStatus struct {
	LastRun   time.Time
	LastAdded int
	LastError string
}

// DefaultImportInterval is used when the configured interval is not positive.
const DefaultImportInterval = time.Hour

// HomepageImporter periodically imports a Homepage bookmarks.yaml into the
// bookmark store. Each URL is offered to the store once: the set of offered
// URLs is persisted under kv.KeyHomepageImported, so bookmarks removed or
// edited on the page do not come back on the next run.
type HomepageImporter struct {
	loader        *homepage.Loader
	store         BookmarkImporter
	state         kv.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
	started       atomic.Bool
	manualTrigger chan struct{}

	mu     sync.Mutex
	status ImportStatus
}

// NewHomepageImporter creates an importer for bookmarkFile. state records
// which URLs were already offered. manualTrigger may be nil.
func NewHomepageImporter(
	bookmarkFile string,
	store BookmarkImporter,
	state kv.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HomepageImporter {
	if interval <= 0 {
		interval = DefaultImportInterval
	}
	return &HomepageImporter{
		loader:        homepage.NewLoader(bookmarkFile),
		store:         store,
		state:         state,
		logger:        log.With(logger.String("component", "homepage_import")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once, then keeps importing on every tick and manual
// trigger until Stop or ctx is done. A failed run is logged, never fatal.
func (hi *HomepageImporter) Start(ctx context.Context) {
	if _, err := hi.Import(ctx); err != nil {
		hi.logger.Warn("initial homepage import failed", logger.Error(err))
	}

	hi.started.Store(true)
	ticker := time.NewTicker(hi.interval)
	go func() {
		defer close(hi.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hi.run(ctx)
			case <-hi.manualTrigger:
				hi.logger.Info("manual homepage import triggered")
				hi.run(ctx)
			case <-hi.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop started by Start and waits for it to exit.
func (hi *HomepageImporter) Stop() {
	hi.stopOnce.Do(func() { close(hi.stopCh) })
	if hi.started.Load() {
		<-hi.done
	}
}

func (hi *HomepageImporter) run(ctx context.Context) {
	if _, err := hi.Import(ctx); err != nil {
		hi.logger.Error("failed to import homepage bookmarks", logger.Error(err))
	}
}

// Import runs one import and returns how many bookmarks were added.
func (hi *HomepageImporter) Import(ctx context.Context) (int, error) {
	added, err := hi.importOnce(ctx)

	hi.mu.Lock()
	hi.status = ImportStatus{LastRun: time.Now(), LastAdded: added}
	if err != nil {
		hi.status.LastError = err.Error()
	}
	hi.mu.Unlock()

	return added, err
}

func (hi *HomepageImporter) importOnce(ctx context.Context) (int, error) {
	config, err := hi.loader.Load()
	if err != nil {
		return 0, err
	}

	entries := homepage.Map(config, hi.store.Registry())
	hi.logger.Debug("loaded homepage bookmarks",
		logger.String("file", hi.loader.Path()),
		logger.Int("count", len(entries)))

	offered, err := hi.loadOffered(ctx)
	if err != nil {
		return 0, err
	}

	fresh := make([]domain.Bookmark, 0, len(entries))
	for _, e := range entries {
		if !offered[domain.URLKey(e.URL)] {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	added, err := hi.store.Import(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to import homepage bookmarks: %w", err)
	}

	for _, e := range fresh {
		offered[domain.URLKey(e.URL)] = true
	}
	if err := hi.saveOffered(ctx, offered); err != nil {
		return added, err
	}

	if added > 0 {
		hi.logger.Info("imported homepage bookmarks", logger.Int("added", added))
	}
	return added, nil
}

// loadOffered returns the URL keys offered by earlier runs. An unreadable
// value is logged and treated as empty.
func (hi *HomepageImporter) loadOffered(ctx context.Context) (map[string]bool, error) {
	offered := make(map[string]bool)

	raw, err := hi.state.Get(ctx, kv.KeyHomepageImported)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return offered, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read homepage import state: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		hi.logger.Warn("homepage import state is unreadable, starting over", logger.Error(err))
		return offered, nil
	}
	for _, k := range keys {
		offered[k] = true
	}
	return offered, nil
}

func (hi *HomepageImporter) saveOffered(ctx context.Context, offered map[string]bool) error {
	keys := make([]string, 0, len(offered))
	for k := range offered {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal homepage import state: %w", err)
	}
	if err := hi.state.Set(ctx, kv.KeyHomepageImported, string(data)); err != nil {
		return fmt.Errorf("failed to persist homepage import state: %w", err)
	}
	return nil
}

// Status returns the outcome of the last run. LastRun is zero before the
// first one.
func (hi *HomepageImporter) Status() ImportStatus {
	hi.mu.Lock()
	defer hi.mu.Unlock()
	return hi.status
}
