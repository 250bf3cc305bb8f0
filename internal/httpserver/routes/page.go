package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { Register("page", registerPage) }

func registerPage(r chi.Router, d deps.Deps) {
	page := r.With(guarded(d)...)

	page.Get("/", handlers.Page(d))
	page.Get("/search", handlers.Search(d))

	page.Get("/bookmarks/new", handlers.NewBookmarkForm(d))
	page.Get("/bookmarks/{id}/edit", handlers.EditBookmarkForm(d))
	page.Get("/bookmarks/{id}/delete", handlers.DeleteConfirmation(d))
	page.With(mutating(d)).Post("/bookmarks", handlers.SubmitBookmarkForm(d))
	page.With(mutating(d)).Post("/bookmarks/{id}/delete", handlers.DeleteBookmarkForm(d))
}
