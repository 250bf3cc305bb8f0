package domain

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section is one rendered category block: a header and its tiles.
type Section struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Tiles    []Tile   `json:"tiles"`
}

// Tile is the render instruction for one bookmark.
type Tile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	FaviconURL string `json:"faviconUrl,omitempty"`
	Initial    string `json:"initial"`
}

// Render groups bookmarks by category in registry order.
// Categories with no bookmarks produce no section. Bookmarks keep their
// relative order inside a section. The input is not modified.
func Render(bookmarks []Bookmark, reg Registry) []Section {
	byCategory := make(map[string][]Tile, reg.Len())
	for _, b := range bookmarks {
		byCategory[b.Category] = append(byCategory[b.Category], Tile{
			ID:         b.ID,
			Name:       b.Name,
			URL:        b.URL,
			FaviconURL: FaviconURL(b.URL),
			Initial:    Initial(b.Name),
		})
	}

	sections := make([]Section, 0, reg.Len())
	for _, c := range reg.order {
		tiles := byCategory[c.Key]
		if len(tiles) == 0 {
			continue
		}
		sections = append(sections, Section{
			Category: c,
			Count:    len(tiles),
			Tiles:    tiles,
		})
	}
	return sections
}

const faviconService = "https://www.google.com/s2/favicons"

// FaviconURL returns the favicon service URL for the origin of raw,
// or "" when raw has no usable scheme and host.
func FaviconURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	origin := u.Scheme + "://" + u.Host
	return faviconService + "?domain=" + origin + "&sz=64"
}

// Initial is the fallback glyph shown when the favicon fails to load.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
