package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	Count      *int   `json:"count,omitempty"`
	LastImport string `json:"last_import,omitempty"`
	LastAdded  *int   `json:"last_added,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		count := len(d.Store.List())
		components := map[string]componentStatus{
			"storage": checkStorage(r.Context(), d),
			"bookmarks": {
				OK:    d.Store.Loaded(),
				Count: &count,
				Mode:  string(d.Store.Edition()),
			},
			"homepage": importerStatus(d),
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if s, ok := components["storage"]; ok && !s.OK {
		return "critical"
	}
	if b, ok := components["bookmarks"]; ok && !b.OK {
		return "critical"
	}
	if h, ok := components["homepage"]; ok && !h.OK {
		return "degraded"
	}
	return "ok"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.KV.Ping(ctx); err != nil {
		return componentStatus{OK: false, Backend: d.KV.Backend(), Error: err.Error()}
	}
	return componentStatus{OK: true, Backend: d.KV.Backend()}
}

func importerStatus(d deps.Deps) componentStatus {
	if d.Importer == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}

	st := d.Importer.Status()
	status := componentStatus{
		OK:         st.LastError == "",
		Mode:       "scheduled",
		LastImport: "never",
		LastAdded:  &st.LastAdded,
		Error:      st.LastError,
	}
	if !st.LastRun.IsZero() {
		status.LastImport = st.LastRun.Format("2006-01-02 15:04:05")
	}
	return status
}
