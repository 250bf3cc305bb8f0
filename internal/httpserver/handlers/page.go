package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTmpl    = parsePage("page.html")
	formTmpl    = parsePage("form.html")
	confirmTmpl = parsePage("confirm.html")
)

// parsePage names the template after the page file so Execute renders it.
func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/"+name, "templates/head.html"))
}

type pageData struct {
	Clock     domain.Clock
	ClockMode domain.ClockMode
	Sections  []domain.Section
	Profile   domain.Profile
	Engine    domain.SearchEngine
	Wallpaper string
}

// Page renders the start page.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		snap, err := d.Settings.Snapshot(ctx)
		if err != nil {
			// Settings are cosmetic; the page still renders with defaults.
			d.Logger.Warn("failed to read settings", logger.Error(err))
			snap.ClockMode = domain.DefaultClockMode
			snap.SearchEngine = domain.DefaultSearchEngine
		}
		engine, _ := domain.LookupSearchEngine(snap.SearchEngine)

		data := pageData{
			Clock:     domain.FormatClock(d.Now(), snap.ClockMode),
			ClockMode: snap.ClockMode,
			Sections:  d.Store.Sections(),
			Profile:   snap.Profile,
			Engine:    engine,
			Wallpaper: snap.LastWallpaper,
		}
		renderHTML(w, d.Logger, pageTmpl, http.StatusOK, data)
	}
}

func renderHTML(w http.ResponseWriter, log logger.Logger, t *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		log.Error("failed to render template", logger.String("template", t.Name()), logger.Error(err))
	}
}
