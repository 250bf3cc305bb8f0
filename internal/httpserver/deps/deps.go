package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/bookmarks"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/scheduler"
	"github.com/MrSnakeDoc/newtab/internal/search"
	"github.com/MrSnakeDoc/newtab/internal/settings"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access ops endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string         // Origins allowed to call the JSON API cross-site

	KV       kv.Store                    // Persistence backend, pinged by readyz/infra
	Store    *bookmarks.Store            // Bookmark collection
	Editor   *bookmarks.Editor           // Add/edit/delete dialogs
	Settings *settings.Service           // Search engine, profile, clock, wallpaper
	Resolver *search.Resolver            // Search bar resolution
	Importer *scheduler.HomepageImporter // nil when no homepage file is configured

	ImportTrigger chan struct{}                   // Manual homepage import (nil if disabled)
	Mutations     func(http.Handler) http.Handler // Shared rate limiter for mutating routes
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
