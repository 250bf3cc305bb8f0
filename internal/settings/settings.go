// Package settings stores the small per-page preferences next to the
// bookmarks: search engine, profile, clock mode and the cached wallpaper.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Snapshot is every setting at once, as served by the API.
type Snapshot struct {
	SearchEngine  string           `json:"searchEngine"`
	ClockMode     domain.ClockMode `json:"clockMode"`
	Profile       domain.Profile   `json:"profile"`
	LastWallpaper string           `json:"lastWallpaper,omitempty"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	SearchEngine  *string           `json:"searchEngine,omitempty"`
	ClockMode     *domain.ClockMode `json:"clockMode,omitempty"`
	Profile       *domain.Profile   `json:"profile,omitempty"`
	LastWallpaper *string           `json:"lastWallpaper,omitempty"`
}

type Service struct {
	kv  kv.Store
	log logger.Logger
}

func New(backend kv.Store, log logger.Logger) *Service {
	return &Service{kv: backend, log: log}
}

// SearchEngine returns the selected engine, falling back to the default
// when nothing (or something unknown) is stored.
func (s *Service) SearchEngine(ctx context.Context) (domain.SearchEngine, error) {
	id, err := s.get(ctx, kv.KeySearchEngine)
	if err != nil {
		return domain.SearchEngine{}, err
	}
	if e, ok := domain.LookupSearchEngine(id); ok {
		return e, nil
	}
	if id != "" {
		s.log.Warn("unknown stored search engine, using default", logger.String("engine", id))
	}
	e, _ := domain.LookupSearchEngine(domain.DefaultSearchEngine)
	return e, nil
}

func (s *Service) SetSearchEngine(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if _, ok := domain.LookupSearchEngine(id); !ok {
		return &domain.ValidationError{Field: "searchEngine", Reason: fmt.Sprintf("unknown search engine %q", id)}
	}
	return s.set(ctx, kv.KeySearchEngine, id)
}

func (s *Service) ClockMode(ctx context.Context) (domain.ClockMode, error) {
	raw, err := s.get(ctx, kv.KeyClockMode)
	if err != nil {
		return "", err
	}
	m := domain.ClockMode(raw)
	if !m.Valid() {
		return domain.DefaultClockMode, nil
	}
	return m, nil
}

func (s *Service) SetClockMode(ctx context.Context, m domain.ClockMode) error {
	if !m.Valid() {
		return &domain.ValidationError{Field: "clockMode", Reason: fmt.Sprintf("unknown clock mode %q", m)}
	}
	return s.set(ctx, kv.KeyClockMode, string(m))
}

// Profile returns the stored profile. Unreadable data yields an empty profile.
func (s *Service) Profile(ctx context.Context) (domain.Profile, error) {
	raw, err := s.get(ctx, kv.KeyProfile)
	if err != nil || raw == "" {
		return domain.Profile{}, err
	}
	var p domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("stored profile is unreadable, ignoring it",
			logger.Error(&domain.CorruptStateError{Key: kv.KeyProfile, Err: err}))
		return domain.Profile{}, nil
	}
	return p, nil
}

// SetProfile stores p. An empty profile clears the key.
func (s *Service) SetProfile(ctx context.Context, p domain.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	if p == (domain.Profile{}) {
		return s.clear(ctx, kv.KeyProfile)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return s.set(ctx, kv.KeyProfile, string(data))
}

func (s *Service) LastWallpaper(ctx context.Context) (string, error) {
	return s.get(ctx, kv.KeyLastWallpaper)
}

// SetLastWallpaper remembers the wallpaper URL. An empty url clears it.
func (s *Service) SetLastWallpaper(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return s.clear(ctx, kv.KeyLastWallpaper)
	}
	return s.set(ctx, kv.KeyLastWallpaper, url)
}

// Snapshot reads every setting.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	engine, err := s.SearchEngine(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	mode, err := s.ClockMode(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	profile, err := s.Profile(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	wallpaper, err := s.LastWallpaper(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		SearchEngine:  engine.ID,
		ClockMode:     mode,
		Profile:       profile,
		LastWallpaper: wallpaper,
	}, nil
}

// Apply validates the whole patch first, then writes each present field.
func (s *Service) Apply(ctx context.Context, p Patch) error {
	if p.SearchEngine != nil {
		if _, ok := domain.LookupSearchEngine(strings.TrimSpace(*p.SearchEngine)); !ok {
			return &domain.ValidationError{Field: "searchEngine", Reason: fmt.Sprintf("unknown search engine %q", *p.SearchEngine)}
		}
	}
	if p.ClockMode != nil && !p.ClockMode.Valid() {
		return &domain.ValidationError{Field: "clockMode", Reason: fmt.Sprintf("unknown clock mode %q", *p.ClockMode)}
	}

	if p.SearchEngine != nil {
		if err := s.SetSearchEngine(ctx, *p.SearchEngine); err != nil {
			return err
		}
	}
	if p.ClockMode != nil {
		if err := s.SetClockMode(ctx, *p.ClockMode); err != nil {
			return err
		}
	}
	if p.Profile != nil {
		if err := s.SetProfile(ctx, *p.Profile); err != nil {
			return err
		}
	}
	if p.LastWallpaper != nil {
		if err := s.SetLastWallpaper(ctx, *p.LastWallpaper); err != nil {
			return err
		}
	}
	return nil
}

// get returns "" for a missing key.
func (s *Service) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func (s *Service) set(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Service) clear(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	return nil
}
