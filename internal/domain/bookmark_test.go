package domain

import (
	"testing"
	"time"
)

func TestBookmarkInputNormalize(t *testing.T) {
	reg := RegistryFor(EditionBasic)

	tests := []struct {
		name      string
		input     BookmarkInput
		wantField string // empty = valid
	}{
		{name: "valid", input: BookmarkInput{Name: " GitHub ", URL: " https://github.com ", Category: "tools"}},
		{name: "empty name", input: BookmarkInput{Name: "   ", URL: "https://x.com", Category: "tools"}, wantField: "name"},
		{name: "empty url", input: BookmarkInput{Name: "x", URL: "", Category: "tools"}, wantField: "url"},
		{name: "empty category", input: BookmarkInput{Name: "x", URL: "https://x.com"}, wantField: "category"},
		{name: "unknown category", input: BookmarkInput{Name: "x", URL: "https://x.com", Category: "news"}, wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Normalize(reg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Normalize() error = %v", err)
				}
				if got.Name != "GitHub" || got.URL != "https://github.com" {
					t.Errorf("Normalize() did not trim: %+v", got)
				}
				return
			}

			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Normalize() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestBookmarkInputApplyKeepsID(t *testing.T) {
	b := Bookmark{ID: "42", Name: "old", URL: "https://old", Category: "mail"}
	got := BookmarkInput{Name: "new", URL: "https://new", Category: "tools"}.Apply(b)
	want := Bookmark{ID: "42", Name: "new", URL: "https://new", Category: "tools"}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsValidation(&ValidationError{Field: "name"}) {
		t.Error("IsValidation() = false")
	}
	if !IsNotFound(&NotFoundError{ID: "1"}) {
		t.Error("IsNotFound() = false")
	}
	if !IsCorruptState(&CorruptStateError{Key: "bookmarks"}) {
		t.Error("IsCorruptState() = false")
	}
	if IsNotFound(ErrNotLoaded) {
		t.Error("IsNotFound(ErrNotLoaded) = true")
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2026, time.October, 17, 21, 5, 9, 0, time.UTC)

	tests := []struct {
		mode ClockMode
		want string
	}{
		{ClockMode24h, "21:05"},
		{ClockMode12h, "9:05 PM"},
		{ClockModeSeconds, "21:05:09"},
		{"bogus", "21:05"},
	}

	for _, tt := range tests {
		got := FormatClock(ts, tt.mode)
		if got.Time != tt.want {
			t.Errorf("FormatClock(%s).Time = %q, want %q", tt.mode, got.Time, tt.want)
		}
		if got.Date != "Saturday, October 17, 2026" {
			t.Errorf("FormatClock(%s).Date = %q", tt.mode, got.Date)
		}
	}
}

func TestSearchEngines(t *testing.T) {
	e, ok := LookupSearchEngine("duckduckgo")
	if !ok {
		t.Fatal("duckduckgo not found")
	}
	if got := e.SearchURL("go & chi"); got != "https://duckduckgo.com/?q=go+%26+chi" {
		t.Errorf("SearchURL() = %q", got)
	}
	if _, ok := LookupSearchEngine("altavista"); ok {
		t.Error("unexpected engine altavista")
	}
	if !ClockMode12h.Valid() || ClockMode("analog").Valid() {
		t.Error("ClockMode.Valid() mismatch")
	}
}
