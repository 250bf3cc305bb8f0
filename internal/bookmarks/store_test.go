package bookmarks_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/MrSnakeDoc/newtab/internal/bookmarks"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

func newStore(t *testing.T, backend kv.Store, edition domain.Edition) *bookmarks.Store {
	t.Helper()
	n := 0
	return bookmarks.NewStore(backend, logger.Nop(), bookmarks.Options{
		Edition: edition,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}

func loaded(t *testing.T, backend kv.Store) *bookmarks.Store {
	t.Helper()
	s := newStore(t, backend, domain.EditionBasic)
	_, err := s.Load(context.Background())
	assert.NilError(t, err)
	return s
}

func persisted(t *testing.T, backend kv.Store) []domain.Bookmark {
	t.Helper()
	raw, err := backend.Get(context.Background(), kv.KeyBookmarks)
	assert.NilError(t, err)
	var out []domain.Bookmark
	assert.NilError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestLoadSeedsDefaultsOnEmptyStorage(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := newStore(t, backend, domain.EditionBasic)

	got, err := s.Load(context.Background())
	assert.NilError(t, err)

	assert.Equal(t, len(got), 8)
	categories := map[string]bool{}
	for _, b := range got {
		categories[b.Category] = true
	}
	assert.DeepEqual(t, categories, map[string]bool{"mail": true, "tools": true, "drive": true, "account": true})

	assert.Equal(t, backend.Writes(), 1)
	assert.DeepEqual(t, persisted(t, backend), got)
	assert.Assert(t, s.Loaded())
}

func TestLoadSeedsExtendedEdition(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := newStore(t, backend, domain.EditionExtended)

	got, err := s.Load(context.Background())
	assert.NilError(t, err)

	categories := map[string]bool{}
	for _, b := range got {
		categories[b.Category] = true
	}
	assert.Equal(t, len(got), 8)
	assert.Equal(t, len(categories), 8)
	assert.DeepEqual(t, persisted(t, backend), got)
}

func TestLoadMigratesMissingCategory(t *testing.T) {
	backend := kv.NewMemoryStore()
	legacy := `[{"id":"1","name":"GitHub","url":"https://github.com"},{"id":"2","name":"Gmail","url":"https://mail.google.com","category":"mail"}]`
	assert.NilError(t, backend.Set(context.Background(), kv.KeyBookmarks, legacy))
	before := backend.Writes()

	s := newStore(t, backend, domain.EditionBasic)
	got, err := s.Load(context.Background())
	assert.NilError(t, err)

	assert.Equal(t, got[0].Category, "tools")
	assert.Equal(t, got[1].Category, "mail")
	assert.Equal(t, backend.Writes()-before, 1, "migration must persist exactly once")
	assert.DeepEqual(t, persisted(t, backend), got)
}

func TestLoadWithoutMigrationDoesNotWrite(t *testing.T) {
	backend := kv.NewMemoryStore()
	clean := `[{"id":"1","name":"GitHub","url":"https://github.com","category":"tools"}]`
	assert.NilError(t, backend.Set(context.Background(), kv.KeyBookmarks, clean))
	before := backend.Writes()

	s := newStore(t, backend, domain.EditionBasic)
	_, err := s.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, backend.Writes(), before)
}

func TestLoadMigratesUnknownCategoryAndDuplicateIDs(t *testing.T) {
	backend := kv.NewMemoryStore()
	raw := `[
		{"id":"1","name":"A","url":"https://a.com","category":"news"},
		{"id":"1","name":"B","url":"https://b.com","category":"mail"},
		{"name":"C","url":"https://c.com","category":"drive"}
	]`
	assert.NilError(t, backend.Set(context.Background(), kv.KeyBookmarks, raw))

	s := newStore(t, backend, domain.EditionBasic)
	got, err := s.Load(context.Background())
	assert.NilError(t, err)

	assert.Equal(t, got[0].ID, "1")
	assert.Equal(t, got[0].Category, domain.FallbackCategory)
	assert.Assert(t, got[1].ID != "1")
	assert.Assert(t, got[2].ID != "")

	ids := map[string]bool{}
	for _, b := range got {
		assert.Assert(t, !ids[b.ID], "duplicate id %s", b.ID)
		ids[b.ID] = true
	}
}

func TestLoadCorruptStateReseeds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{not json"},
		{name: "object", raw: `{"id":"1"}`},
		{name: "top-level null", raw: "null"},
		{name: "null entry", raw: "[null]"},
		{name: "entry without name and url", raw: `[{"id":"x"}]`},
		{name: "blank name", raw: `[{"id":"1","name":"  ","url":"https://a.com","category":"tools"}]`},
		{name: "missing url", raw: `[{"id":"1","name":"A","category":"tools"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemoryStore()
			assert.NilError(t, backend.Set(context.Background(), kv.KeyBookmarks, tt.raw))

			s := newStore(t, backend, domain.EditionBasic)
			got, err := s.Load(context.Background())

			var corrupt *domain.CorruptStateError
			assert.Assert(t, errors.As(err, &corrupt))
			assert.Equal(t, corrupt.Key, kv.KeyBookmarks)
			assert.DeepEqual(t, got, domain.DefaultBookmarks(domain.EditionBasic))
			assert.DeepEqual(t, persisted(t, backend), got)
			assert.Assert(t, s.Loaded())
		})
	}
}

func TestLoadEmptyArrayIsValid(t *testing.T) {
	backend := kv.NewMemoryStore()
	assert.NilError(t, backend.Set(context.Background(), kv.KeyBookmarks, "[]"))

	got, err := newStore(t, backend, domain.EditionBasic).Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)
}

func TestReloadFailureKeepsCollection(t *testing.T) {
	backend := &failingStore{MemoryStore: kv.NewMemoryStore()}
	s := loaded(t, backend)
	ctx := context.Background()
	before := s.List()

	// A legacy entry forces a migration write, which fails.
	assert.NilError(t, backend.MemoryStore.Set(ctx, kv.KeyBookmarks, `[{"name":"A","url":"https://a.com"}]`))
	backend.setErr = errors.New("disk full")
	_, err := s.Load(ctx)
	assert.ErrorContains(t, err, "disk full")

	// Corrupt value, reseed write fails.
	assert.NilError(t, backend.MemoryStore.Set(ctx, kv.KeyBookmarks, "null"))
	_, err = s.Load(ctx)
	assert.ErrorContains(t, err, "disk full")

	assert.Assert(t, s.Loaded())
	assert.DeepEqual(t, s.List(), before)

	backend.setErr = nil
	_, err = s.Add(ctx, "New", "https://new.example", "tools")
	assert.NilError(t, err)
	assert.Equal(t, len(persisted(t, backend)), len(before)+1)
}

func TestLoadBackendFailure(t *testing.T) {
	s := newStore(t, &failingStore{getErr: errors.New("connection refused")}, domain.EditionBasic)

	_, err := s.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.Assert(t, !s.Loaded())
}

func TestMutationsRequireLoad(t *testing.T) {
	s := newStore(t, kv.NewMemoryStore(), domain.EditionBasic)
	ctx := context.Background()

	_, err := s.Add(ctx, "x", "https://x.com", "tools")
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
	_, err = s.Update(ctx, "1", "x", "https://x.com", "tools")
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
	assert.ErrorIs(t, s.Remove(ctx, "1"), domain.ErrNotLoaded)
	assert.ErrorIs(t, s.Save(ctx), domain.ErrNotLoaded)
	_, err = s.Import(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
}

func TestAdd(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	before := len(s.List())
	writes := backend.Writes()

	b, err := s.Add(context.Background(), "  Test ", " https://example.com ", "tools")
	assert.NilError(t, err)

	assert.Equal(t, b.Name, "Test")
	assert.Equal(t, b.URL, "https://example.com")
	assert.Assert(t, is.Len(s.List(), before+1))
	got, ok := s.Get(b.ID)
	assert.Assert(t, ok)
	assert.Equal(t, got, b)
	assert.Equal(t, backend.Writes()-writes, 1)
	assert.DeepEqual(t, persisted(t, backend), s.List())
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		bmName   string
		url      string
		category string
	}{
		{name: "empty name", bmName: " ", url: "https://x.com", category: "tools"},
		{name: "empty url", bmName: "x", url: "", category: "tools"},
		{name: "empty category", bmName: "x", url: "https://x.com", category: ""},
		{name: "unknown category", bmName: "x", url: "https://x.com", category: "games"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemoryStore()
			s := loaded(t, backend)
			writes := backend.Writes()
			before := s.List()

			_, err := s.Add(context.Background(), tt.bmName, tt.url, tt.category)

			assert.Assert(t, domain.IsValidation(err), "got %v", err)
			assert.DeepEqual(t, s.List(), before)
			assert.Equal(t, backend.Writes(), writes)
		})
	}
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	s := loaded(t, kv.NewMemoryStore())
	before := s.List()

	b, err := s.Add(context.Background(), "Test", "https://example.com", "tools")
	assert.NilError(t, err)
	assert.NilError(t, s.Remove(context.Background(), b.ID))

	assert.DeepEqual(t, s.List(), before)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	before := s.List()
	writes := backend.Writes()
	fired := false
	s.Subscribe(func([]domain.Bookmark) { fired = true })

	assert.NilError(t, s.Remove(context.Background(), "does-not-exist"))

	assert.DeepEqual(t, s.List(), before)
	assert.Equal(t, backend.Writes(), writes)
	assert.Assert(t, !fired)
}

func TestUpdateKeepsID(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	writes := backend.Writes()

	got, err := s.Update(context.Background(), "3", "GitLab", "https://gitlab.com", "account")
	assert.NilError(t, err)

	want := domain.Bookmark{ID: "3", Name: "GitLab", URL: "https://gitlab.com", Category: "account"}
	assert.Equal(t, got, want)
	stored, _ := s.Get("3")
	assert.Equal(t, stored, want)
	assert.Equal(t, backend.Writes()-writes, 1)
	// Position is preserved.
	assert.Equal(t, s.List()[2].ID, "3")
}

func TestUpdateMissingID(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	before := s.List()
	writes := backend.Writes()

	_, err := s.Update(context.Background(), "999", "X", "https://x.com", "tools")

	var nf *domain.NotFoundError
	assert.Assert(t, errors.As(err, &nf))
	assert.Equal(t, nf.ID, "999")
	assert.DeepEqual(t, s.List(), before)
	assert.Equal(t, backend.Writes(), writes)
}

func TestUpdateValidation(t *testing.T) {
	s := loaded(t, kv.NewMemoryStore())
	_, err := s.Update(context.Background(), "1", "", "https://x.com", "tools")
	assert.Assert(t, domain.IsValidation(err))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()

	s := loaded(t, backend)
	_, err := s.Add(ctx, "Docs", "https://pkg.go.dev", "tools")
	assert.NilError(t, err)
	_, err = s.Update(ctx, "2", "Proton", "https://mail.proton.me", "mail")
	assert.NilError(t, err)
	assert.NilError(t, s.Remove(ctx, "8"))
	assert.NilError(t, s.Save(ctx))

	fresh := newStore(t, backend, domain.EditionBasic)
	got, err := fresh.Load(ctx)
	assert.NilError(t, err)

	assert.DeepEqual(t, sortedTuples(got), sortedTuples(s.List()))
}

func TestPersistFailureRollsBack(t *testing.T) {
	backend := &failingStore{MemoryStore: kv.NewMemoryStore()}
	s := loaded(t, backend)
	before := s.List()
	backend.setErr = errors.New("disk full")

	_, err := s.Add(context.Background(), "x", "https://x.com", "tools")
	assert.ErrorContains(t, err, "disk full")
	assert.DeepEqual(t, s.List(), before)

	_, err = s.Update(context.Background(), "1", "x", "https://x.com", "tools")
	assert.ErrorContains(t, err, "disk full")
	assert.DeepEqual(t, s.List(), before)

	assert.ErrorContains(t, s.Remove(context.Background(), "1"), "disk full")
	assert.DeepEqual(t, s.List(), before)
}

func TestListIsASnapshot(t *testing.T) {
	s := loaded(t, kv.NewMemoryStore())
	list := s.List()
	list[0].Name = "mutated"

	b, _ := s.Get(list[0].ID)
	assert.Assert(t, b.Name != "mutated")
}

func TestSubscribeFiresAfterMutations(t *testing.T) {
	s := loaded(t, kv.NewMemoryStore())
	var sizes []int
	s.Subscribe(func(snap []domain.Bookmark) { sizes = append(sizes, len(snap)) })

	ctx := context.Background()
	b, err := s.Add(ctx, "x", "https://x.com", "tools")
	assert.NilError(t, err)
	_, err = s.Update(ctx, b.ID, "y", "https://y.com", "tools")
	assert.NilError(t, err)
	assert.NilError(t, s.Remove(ctx, b.ID))

	assert.DeepEqual(t, sizes, []int{9, 9, 8})
}

func TestImport(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	writes := backend.Writes()

	added, err := s.Import(context.Background(), []domain.Bookmark{
		{Name: "GitHub again", URL: "https://github.com/", Category: "tools"}, // duplicate URL
		{Name: "Go", URL: "https://go.dev", Category: "dev"},                  // unknown in basic -> tools
		{Name: "", URL: "https://nameless.example"},                          // invalid
		{Name: "Proton", URL: "https://mail.proton.me", Category: "mail"},
		{Name: "Proton dup", URL: "https://MAIL.proton.me", Category: "mail"}, // duplicate within batch
	})
	assert.NilError(t, err)
	assert.Equal(t, added, 2)
	assert.Equal(t, backend.Writes()-writes, 1)

	list := s.List()
	assert.Equal(t, len(list), 10)
	assert.Equal(t, list[8].Name, "Go")
	assert.Equal(t, list[8].Category, "tools")
	assert.Equal(t, list[9].Category, "mail")
}

func TestImportNothingNewDoesNotWrite(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := loaded(t, backend)
	writes := backend.Writes()

	added, err := s.Import(context.Background(), []domain.Bookmark{
		{Name: "GitHub", URL: "https://github.com", Category: "tools"},
	})
	assert.NilError(t, err)
	assert.Equal(t, added, 0)
	assert.Equal(t, backend.Writes(), writes)
}

func TestSections(t *testing.T) {
	s := loaded(t, kv.NewMemoryStore())
	sections := s.Sections()
	assert.Equal(t, len(sections), 4)
	assert.Equal(t, sections[0].Category.Key, "tools")
}

func sortedTuples(in []domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// failingStore wraps a MemoryStore and injects errors.
type failingStore struct {
	*kv.MemoryStore
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, key, value)
}
