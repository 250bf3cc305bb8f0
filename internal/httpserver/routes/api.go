package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(guarded(d)...)
		api.Use(mw.CORS(d.CORSOrigins))

		api.Get("/bookmarks", handlers.ListBookmarks(d))
		api.Get("/bookmarks/{id}", handlers.GetBookmark(d))
		api.Get("/sections", handlers.Sections(d))
		api.Get("/categories", handlers.Categories(d))
		api.Get("/settings", handlers.GetSettings(d))
		api.Get("/export", handlers.Export(d))

		api.Group(func(w chi.Router) {
			w.Use(mutating(d))
			w.Post("/bookmarks", handlers.CreateBookmark(d))
			w.Put("/bookmarks/{id}", handlers.UpdateBookmark(d))
			w.Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))
			w.Put("/settings", handlers.PutSettings(d))
			w.Post("/import", handlers.Import(d))
		})
	})
}
