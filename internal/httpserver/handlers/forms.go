package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/bookmarks"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

type formData struct {
	Title      string
	Form       bookmarks.Form
	Categories []domain.Category
	Error      string
}

func newFormData(d deps.Deps, f bookmarks.Form) formData {
	title := "Add bookmark"
	if f.Editing() {
		title = "Edit bookmark"
	}
	return formData{Title: title, Form: f, Categories: d.Store.Registry().Categories()}
}

// NewBookmarkForm shows the empty add dialog.
func NewBookmarkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderHTML(w, d.Logger, formTmpl, http.StatusOK, newFormData(d, d.Editor.NewForm()))
	}
}

// EditBookmarkForm shows the dialog pre-filled with an existing bookmark.
func EditBookmarkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := d.Editor.EditForm(chi.URLParam(r, "id"))
		if err != nil {
			htmlError(w, d.Logger, err)
			return
		}
		renderHTML(w, d.Logger, formTmpl, http.StatusOK, newFormData(d, f))
	}
}

// SubmitBookmarkForm adds or updates, depending on the hidden id field.
// Invalid input re-renders the dialog with the message and the typed values.
func SubmitBookmarkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		f := bookmarks.Form{
			ID:       r.PostFormValue("id"),
			Name:     r.PostFormValue("name"),
			URL:      r.PostFormValue("url"),
			Category: r.PostFormValue("category"),
		}

		if _, err := d.Editor.Submit(r.Context(), f); err != nil {
			if domain.IsValidation(err) {
				data := newFormData(d, f)
				data.Error = err.Error()
				renderHTML(w, d.Logger, formTmpl, http.StatusUnprocessableEntity, data)
				return
			}
			htmlError(w, d.Logger, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// DeleteConfirmation asks before removing a bookmark.
func DeleteConfirmation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, ok := d.Store.Get(id)
		if !ok {
			htmlError(w, d.Logger, &domain.NotFoundError{ID: id})
			return
		}
		renderHTML(w, d.Logger, confirmTmpl, http.StatusOK, b)
	}
}

// DeleteBookmarkForm removes the bookmark when the form carries confirm=yes.
func DeleteBookmarkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		confirmed := r.PostFormValue("confirm") == "yes"
		if err := d.Editor.Delete(r.Context(), chi.URLParam(r, "id"), confirmed); err != nil {
			htmlError(w, d.Logger, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func htmlError(w http.ResponseWriter, log logger.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && !errors.Is(err, domain.ErrNotLoaded) {
		log.Error("request failed", logger.Error(err))
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}
