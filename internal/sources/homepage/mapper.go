package homepage

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// Map flattens config into bookmarks ready for Store.Import. Groups map to
// categories through reg.Match; entries without href are skipped. Ids are
// left empty, the store assigns them.
func Map(config BookmarksConfig, reg domain.Registry) []domain.Bookmark {
	out := make([]domain.Bookmark, 0)

	for _, group := range config {
		for _, groupName := range sortedKeys(group) {
			category := reg.Match(groupName)
			for _, item := range group[groupName] {
				for _, name := range sortedKeys(item) {
					entries := item[name]
					if len(entries) == 0 {
						continue
					}
					href := strings.TrimSpace(entries[0].Href)
					if href == "" {
						continue
					}
					out = append(out, domain.Bookmark{
						Name:     strings.TrimSpace(name),
						URL:      href,
						Category: category,
					})
				}
			}
		}
	}

	return out
}

// sortedKeys keeps the output stable when a YAML mapping holds several keys.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
