package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/search"
)

// Search redirects the search bar query to a bookmark, a URL or the
// configured engine. An empty query goes back to the start page.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		engine, err := d.Settings.SearchEngine(r.Context())
		if err != nil {
			d.Logger.Warn("failed to read search engine, using default", logger.Error(err))
		}

		res, err := d.Resolver.Resolve(query, engine, d.Store.List())
		if errors.Is(err, search.ErrEmptyQuery) {
			d.Logger.Debug("empty query, redirecting to start page")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("search request",
			logger.String("kind", string(res.Kind)),
			logger.String("target", res.URL))
		http.Redirect(w, r, res.URL, http.StatusFound)
	}
}
