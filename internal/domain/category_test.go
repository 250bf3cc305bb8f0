package domain

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRegistryForEditions(t *testing.T) {
	basic := RegistryFor(EditionBasic)
	assert.DeepEqual(t, basic.Keys(), []string{"tools", "mail", "account", "drive"})

	extended := RegistryFor(EditionExtended)
	assert.Equal(t, extended.Len(), 8)
	assert.Assert(t, extended.Has("news"))
	assert.Assert(t, !basic.Has("news"))
}

func TestNewRegistryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
	}{
		{name: "missing fallback", categories: []Category{{Key: "mail"}}},
		{name: "duplicate key", categories: []Category{{Key: "tools"}, {Key: "tools"}}},
		{name: "empty key", categories: []Category{{Key: "tools"}, {Key: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.categories...); err == nil {
				t.Error("NewRegistry() should have failed")
			}
		})
	}
}

func TestRegistryCategoriesIsACopy(t *testing.T) {
	reg := RegistryFor(EditionBasic)
	cats := reg.Categories()
	cats[0].Name = "changed"
	first, _ := reg.Get("tools")
	assert.Equal(t, first.Name, "Tools")
}

func TestRegistryMatch(t *testing.T) {
	reg := RegistryFor(EditionExtended)
	tests := map[string]string{
		"mail":        "mail",
		"Mail":        "mail",
		" NEWS ":      "news",
		"Dev":         "dev",
		"Bookmarks":   FallbackCategory,
		"":            FallbackCategory,
		"Media":       "media",
		"Other stuff": FallbackCategory,
	}
	for in, want := range tests {
		if got := reg.Match(in); got != want {
			t.Errorf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseEdition(t *testing.T) {
	for in, want := range map[string]Edition{"": EditionBasic, "basic": EditionBasic, "Extended": EditionExtended} {
		got, err := ParseEdition(in)
		assert.NilError(t, err)
		assert.Equal(t, got, want)
	}
	_, err := ParseEdition("deluxe")
	assert.ErrorContains(t, err, "unknown edition")
}

func TestDefaultBookmarks(t *testing.T) {
	basic := DefaultBookmarks(EditionBasic)
	assert.Equal(t, len(basic), 8)

	seen := map[string]bool{}
	for _, b := range basic {
		seen[b.Category] = true
	}
	assert.DeepEqual(t, seen, map[string]bool{"mail": true, "tools": true, "drive": true, "account": true})

	extended := DefaultBookmarks(EditionExtended)
	assert.Equal(t, len(extended), 8)
	reg := RegistryFor(EditionExtended)
	for _, b := range extended {
		assert.Assert(t, reg.Has(b.Category), "unknown category %q", b.Category)
	}

	// Callers get their own copy.
	basic[0].Name = "changed"
	assert.Equal(t, DefaultBookmarks(EditionBasic)[0].Name, "Gmail")
}
