package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/settings"
)

type settingsResponse struct {
	settings.Snapshot
	Engines []domain.SearchEngine `json:"engines"`
}

func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Settings.Snapshot(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Snapshot: snap, Engines: domain.SearchEngines()})
	}
}

// PutSettings applies a partial update and returns the resulting settings.
func PutSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch settings.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Settings.Apply(r.Context(), patch); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		snap, err := d.Settings.Snapshot(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Snapshot: snap, Engines: domain.SearchEngines()})
	}
}
