package domain

import "strings"

// Bookmark is one shortcut tile on the start page.
//
// The JSON shape is the persisted layout of the "bookmarks" key and must stay
// compatible with collections written by earlier versions of the page.
type Bookmark struct {
	// ID is an opaque token, unique across the collection.
	// It never changes after creation.
	ID string `json:"id"`

	// Name is the display label. Never empty after trim.
	Name string `json:"name"`

	// URL is the destination. Only checked for presence.
	URL string `json:"url"`

	// Category is a key of the active Registry.
	// Legacy entries may arrive without it; Load migrates them to FallbackCategory.
	Category string `json:"category,omitempty"`
}

// BookmarkInput holds the user-editable fields of a bookmark.
type BookmarkInput struct {
	Name     string
	URL      string
	Category string
}

// Normalize trims all fields and validates them against the registry.
// It returns the cleaned input or a *ValidationError naming the first bad field.
func (in BookmarkInput) Normalize(reg Registry) (BookmarkInput, error) {
	out := BookmarkInput{
		Name:     strings.TrimSpace(in.Name),
		URL:      strings.TrimSpace(in.URL),
		Category: strings.TrimSpace(in.Category),
	}

	switch {
	case out.Name == "":
		return out, &ValidationError{Field: "name", Reason: "must not be empty"}
	case out.URL == "":
		return out, &ValidationError{Field: "url", Reason: "must not be empty"}
	case out.Category == "":
		return out, &ValidationError{Field: "category", Reason: "must not be empty"}
	case !reg.Has(out.Category):
		return out, &ValidationError{Field: "category", Reason: "unknown category " + out.Category}
	}

	return out, nil
}

// Apply copies the input fields onto b, keeping its ID.
func (in BookmarkInput) Apply(b Bookmark) Bookmark {
	b.Name = in.Name
	b.URL = in.URL
	b.Category = in.Category
	return b
}

// URLKey is the form under which two URLs count as the same bookmark:
// trimmed, lower-cased, without a trailing slash.
func URLKey(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}
