package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// persistedBookmark is the on-disk shape, lenient enough for collections
// written before categories existed.
type persistedBookmark struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// decodePersisted parses the stored value. Anything that is not an array of
// objects each carrying a name and a url is reported as unreadable.
func decodePersisted(raw string) ([]persistedBookmark, error) {
	var entries []*persistedBookmark
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, errors.New("bookmarks value is not an array")
	}

	out := make([]persistedBookmark, 0, len(entries))
	for i, e := range entries {
		switch {
		case e == nil:
			return nil, fmt.Errorf("entry %d is null", i)
		case strings.TrimSpace(e.Name) == "":
			return nil, fmt.Errorf("entry %d has no name", i)
		case strings.TrimSpace(e.URL) == "":
			return nil, fmt.Errorf("entry %d has no url", i)
		}
		out = append(out, *e)
	}
	return out, nil
}

// migrate normalizes a persisted collection once, at load time:
//   - missing or unknown category -> domain.FallbackCategory
//   - missing id, or an id already used earlier in the list -> fresh id
//
// It returns the normalized list and how many entries were changed.
func (s *Store) migrate(in []persistedBookmark) ([]domain.Bookmark, int) {
	out := make([]domain.Bookmark, 0, len(in))
	migrated := 0

	for _, p := range in {
		b := domain.Bookmark{ID: p.ID, Name: p.Name, URL: p.URL, Category: p.Category}
		changed := false

		if !s.registry.Has(b.Category) {
			if b.Category != "" {
				s.log.Warn("bookmark has unknown category, moving to fallback",
					logger.String("id", b.ID),
					logger.String("category", b.Category))
			}
			b.Category = domain.FallbackCategory
			changed = true
		}

		if b.ID == "" || indexOf(out, b.ID) >= 0 {
			b.ID = s.uniqueID(out)
			changed = true
		}

		if changed {
			migrated++
		}
		out = append(out, b)
	}

	return out, migrated
}
