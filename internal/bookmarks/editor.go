package bookmarks

import (
	"context"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// Form is the add/edit dialog state. An empty ID means "add".
// The id being edited travels with the form instead of living in the store.
type Form struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// Editing reports whether the form edits an existing bookmark.
func (f Form) Editing() bool { return f.ID != "" }

// Editor drives the add/edit/delete dialogs on top of a Store.
type Editor struct {
	store *Store
}

// NewEditor creates an editor for store.
func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// NewForm returns an empty add form with the fallback category preselected.
func (e *Editor) NewForm() Form {
	return Form{Category: domain.FallbackCategory}
}

// EditForm returns a form pre-filled from the bookmark with id.
func (e *Editor) EditForm(id string) (Form, error) {
	b, ok := e.store.Get(id)
	if !ok {
		return Form{}, &domain.NotFoundError{ID: id}
	}
	return Form{ID: b.ID, Name: b.Name, URL: b.URL, Category: b.Category}, nil
}

// Submit adds or updates depending on the form. On a validation error the
// caller keeps the form open; nothing has been persisted.
func (e *Editor) Submit(ctx context.Context, f Form) (domain.Bookmark, error) {
	if f.Editing() {
		return e.store.Update(ctx, f.ID, f.Name, f.URL, f.Category)
	}
	return e.store.Add(ctx, f.Name, f.URL, f.Category)
}

// Delete removes the bookmark once the user has confirmed.
func (e *Editor) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return e.store.Remove(ctx, id)
}
