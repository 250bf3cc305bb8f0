package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/sources/netscape"
)

type importResponse struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// Export downloads the collection as a Netscape bookmark file.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="bookmarks-%s.html"`, d.Now().Format("2006-01-02")))
		if err := netscape.Export(w, d.Store.List(), d.Store.Registry()); err != nil {
			d.Logger.Debug("failed to write export", logger.Error(err))
		}
	}
}

// Import reads a Netscape bookmark file from the request body and adds the
// links whose URL is not already on the page.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := netscape.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes), d.Store.Registry())
		if err != nil {
			writeError(w, d.Logger, &domain.ValidationError{Field: "body", Reason: err.Error()})
			return
		}

		added, err := d.Store.Import(r.Context(), entries)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark file imported",
			logger.Int("offered", len(entries)),
			logger.Int("added", added))
		writeJSON(w, http.StatusOK, importResponse{Added: added, Total: len(d.Store.List())})
	}
}
