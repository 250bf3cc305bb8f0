package domain

import "net/url"

// SearchEngine is one of the fixed engines the search bar can redirect to.
type SearchEngine struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"` // query is appended, already escaped
}

const DefaultSearchEngine = "google"

var searchEngines = []SearchEngine{
	{ID: "google", Name: "Google", BaseURL: "https://www.google.com/search?q="},
	{ID: "duckduckgo", Name: "DuckDuckGo", BaseURL: "https://duckduckgo.com/?q="},
	{ID: "bing", Name: "Bing", BaseURL: "https://www.bing.com/search?q="},
	{ID: "brave", Name: "Brave Search", BaseURL: "https://search.brave.com/search?q="},
}

// SearchEngines lists the supported engines in menu order.
func SearchEngines() []SearchEngine {
	out := make([]SearchEngine, len(searchEngines))
	copy(out, searchEngines)
	return out
}

// LookupSearchEngine finds an engine by id.
func LookupSearchEngine(id string) (SearchEngine, bool) {
	for _, e := range searchEngines {
		if e.ID == id {
			return e, true
		}
	}
	return SearchEngine{}, false
}

// SearchURL builds the result page URL for query.
func (e SearchEngine) SearchURL(query string) string {
	return e.BaseURL + url.QueryEscape(query)
}

// ClockMode selects how the clock widget formats the time.
type ClockMode string

const (
	ClockMode24h     ClockMode = "24h"
	ClockMode12h     ClockMode = "12h"
	ClockModeSeconds ClockMode = "seconds"

	DefaultClockMode = ClockMode24h
)

// Valid reports whether m is one of the known modes.
func (m ClockMode) Valid() bool {
	switch m {
	case ClockMode24h, ClockMode12h, ClockModeSeconds:
		return true
	}
	return false
}

// Profile is the avatar block in the page corner.
type Profile struct {
	ImageURL string `json:"imageUrl"`
	Name     string `json:"name"`
}
