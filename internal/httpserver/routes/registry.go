package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/mw"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

type group struct {
	name string
	reg  Registrar
}

var groups []group

// Register adds a route group. Called from init() in each route file.
func Register(name string, reg Registrar) {
	groups = append(groups, group{name: name, reg: reg})
}

// RegisterAll mounts every registered group on r.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		g.reg(r, d)
		d.Logger.Debug("routes registered", logger.String("group", g.name))
	}
}

// guarded applies the client allow-list and host enforcement.
func guarded(d deps.Deps) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
}

// mutating returns the shared rate limiter, or a passthrough when none is set.
func mutating(d deps.Deps) func(http.Handler) http.Handler {
	if d.Mutations == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return d.Mutations
}
