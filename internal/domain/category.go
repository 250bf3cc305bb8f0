package domain

import (
	"fmt"
	"strings"
)

// FallbackCategory is assigned to entries persisted before categories existed
// and to imported entries whose group doesn't match a registry key.
const FallbackCategory = "tools"

// Category describes one bookmark group.
type Category struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Edition selects which fixed registry and default seed the page uses.
type Edition string

const (
	EditionBasic    Edition = "basic"
	EditionExtended Edition = "extended"
)

// ParseEdition maps a config value to an Edition.
func ParseEdition(s string) (Edition, error) {
	switch Edition(strings.ToLower(strings.TrimSpace(s))) {
	case EditionBasic, "":
		return EditionBasic, nil
	case EditionExtended:
		return EditionExtended, nil
	default:
		return "", fmt.Errorf("unknown edition %q (want %q or %q)", s, EditionBasic, EditionExtended)
	}
}

// Registry is the fixed, ordered set of categories. Order is display order.
// It is immutable once built.
type Registry struct {
	order []Category
	byKey map[string]Category
}

// NewRegistry builds a registry. Keys must be unique and the fallback category
// must be present.
func NewRegistry(categories ...Category) (Registry, error) {
	r := Registry{
		order: make([]Category, 0, len(categories)),
		byKey: make(map[string]Category, len(categories)),
	}
	for _, c := range categories {
		if c.Key == "" {
			return Registry{}, fmt.Errorf("category with empty key")
		}
		if _, dup := r.byKey[c.Key]; dup {
			return Registry{}, fmt.Errorf("duplicate category key %q", c.Key)
		}
		r.order = append(r.order, c)
		r.byKey[c.Key] = c
	}
	if _, ok := r.byKey[FallbackCategory]; !ok {
		return Registry{}, fmt.Errorf("registry must contain fallback category %q", FallbackCategory)
	}
	return r, nil
}

func mustRegistry(categories ...Category) Registry {
	r, err := NewRegistry(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	catTools   = Category{Key: "tools", Name: "Tools", Icon: "🔧", Color: "#667eea"}
	catMail    = Category{Key: "mail", Name: "Mail", Icon: "✉️", Color: "#f093fb"}
	catAccount = Category{Key: "account", Name: "Account", Icon: "👤", Color: "#4facfe"}
	catDrive   = Category{Key: "drive", Name: "Drive", Icon: "💾", Color: "#43e97b"}
	catSocial  = Category{Key: "social", Name: "Social", Icon: "💬", Color: "#fa709a"}
	catMedia   = Category{Key: "media", Name: "Media", Icon: "🎬", Color: "#f6d365"}
	catNews    = Category{Key: "news", Name: "News", Icon: "📰", Color: "#a18cd1"}
	catDev     = Category{Key: "dev", Name: "Dev", Icon: "💻", Color: "#30cfd0"}

	basicRegistry    = mustRegistry(catTools, catMail, catAccount, catDrive)
	extendedRegistry = mustRegistry(catTools, catMail, catAccount, catDrive, catSocial, catMedia, catNews, catDev)
)

// RegistryFor returns the built-in registry of an edition.
func RegistryFor(e Edition) Registry {
	if e == EditionExtended {
		return extendedRegistry
	}
	return basicRegistry
}

// Has reports whether key is a known category.
func (r Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Get returns the category for key.
func (r Registry) Get(key string) (Category, bool) {
	c, ok := r.byKey[key]
	return c, ok
}

// Categories returns the categories in display order.
func (r Registry) Categories() []Category {
	out := make([]Category, len(r.order))
	copy(out, r.order)
	return out
}

// Keys returns the category keys in display order.
func (r Registry) Keys() []string {
	keys := make([]string, len(r.order))
	for i, c := range r.order {
		keys[i] = c.Key
	}
	return keys
}

// Len returns the number of categories.
func (r Registry) Len() int { return len(r.order) }

// Match maps a free-form group name (homepage group, browser folder) to a
// registry key: exact key or display name, case-insensitive. Anything else
// lands in the fallback category.
func (r Registry) Match(group string) string {
	g := strings.ToLower(strings.TrimSpace(group))
	if g == "" {
		return FallbackCategory
	}
	for _, c := range r.order {
		if g == c.Key || g == strings.ToLower(c.Name) {
			return c.Key
		}
	}
	return FallbackCategory
}
