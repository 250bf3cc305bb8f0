package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/bookmarks"
	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/scheduler"
	"github.com/MrSnakeDoc/newtab/internal/search"
	"github.com/MrSnakeDoc/newtab/internal/settings"
	"github.com/MrSnakeDoc/newtab/internal/utils"
	"github.com/MrSnakeDoc/newtab/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	kv       kv.Store
	store    *bookmarks.Store
	importer *scheduler.HomepageImporter
}

// OpenBookmarks opens the configured backend and loads the bookmark store.
// A corrupt collection is logged and replaced by the defaults; any other
// load failure is returned. The caller owns the returned kv.Store.
func OpenBookmarks(ctx context.Context, cfg *config.Config, log logger.Logger) (*bookmarks.Store, kv.Store, error) {
	edition, err := domain.ParseEdition(cfg.Edition)
	if err != nil {
		return nil, nil, err
	}

	backend, err := kv.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	store := bookmarks.NewStore(backend, log, bookmarks.Options{Edition: edition})
	list, err := store.Load(ctx)
	switch {
	case domain.IsCorruptState(err):
		log.Error("saved bookmarks were corrupt and have been reset to defaults", logger.Error(err))
	case err != nil:
		utils.Close(backend)
		return nil, nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	log.Info("bookmarks ready",
		logger.String("edition", string(edition)),
		logger.String("storage", backend.Backend()),
		logger.Int("count", len(list)))

	return store, backend, nil
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	store, backend, err := OpenBookmarks(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	resolver, err := search.NewResolver(cfg.SearchCacheSize, loggerClient)
	if err != nil {
		utils.Close(backend)
		return nil, err
	}
	store.Subscribe(resolver.Invalidate)

	// Initialize homepage importer (if a bookmark file is configured)
	var importer *scheduler.HomepageImporter
	var importTrigger chan struct{}
	if cfg.HomepageBookmarkFile != "" {
		loggerClient.Info("homepage bookmark file configured, initializing importer",
			logger.String("file", cfg.HomepageBookmarkFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewHomepageImporter(
			cfg.HomepageBookmarkFile,
			store,
			backend,
			loggerClient,
			cfg.ImportInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("homepage bookmark file not configured, import disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		KV:            backend,
		Store:         store,
		Editor:        bookmarks.NewEditor(store),
		Settings:      settings.New(backend, loggerClient),
		Resolver:      resolver,
		Importer:      importer,
		ImportTrigger: importTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		kv:       backend,
		store:    store,
		importer: importer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.importer != nil {
		a.importer.Start(ctx)
		a.logger.Info("homepage importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.importer != nil {
		a.importer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	utils.MustClose(a.kv, a.kv.Backend()+" storage", a.logger)
	_ = a.logger.Sync()

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ newtab stopped cleanly")
	return nil
}
