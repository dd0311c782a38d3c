package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/example/courierops/internal/storage"
)

const (
	logoKey        = "@app_logo"
	companyNameKey = "@company_name"
	themeKey       = "@app_theme"
)

// ThemeMode is the client color scheme preference.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

func (m ThemeMode) IsValid() bool {
	return m == ThemeLight || m == ThemeDark
}

// Settings is the snapshot of the app-wide preferences.
type Settings struct {
	LogoURI     string    `json:"logoUri,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	ThemeMode   ThemeMode `json:"themeMode"`
}

// SettingsStore keeps the logo URI, company name and theme mode, each
// under its own storage key.
type SettingsStore struct {
	notifier
	mu       sync.RWMutex
	store    storage.Store
	settings Settings
}

// NewSettingsStore creates the store over the given storage backend.
func NewSettingsStore(store storage.Store) *SettingsStore {
	return &SettingsStore{store: store, settings: Settings{ThemeMode: ThemeLight}}
}

// Load restores the settings; each key degrades to its default.
func (s *SettingsStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = Settings{ThemeMode: ThemeLight}

	if value, ok := s.read(ctx, logoKey); ok {
		s.settings.LogoURI = value
	}
	if value, ok := s.read(ctx, companyNameKey); ok {
		s.settings.CompanyName = value
	}
	if value, ok := s.read(ctx, themeKey); ok && ThemeMode(value).IsValid() {
		s.settings.ThemeMode = ThemeMode(value)
	}
}

func (s *SettingsStore) read(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("settings store: load %s: %v", key, err)
		return "", false
	}
	return value, ok
}

// Settings returns the current snapshot.
func (s *SettingsStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetLogo stores the logo URI; an empty value removes the key.
func (s *SettingsStore) SetLogo(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uri == "" {
		if err := s.store.Remove(ctx, logoKey); err != nil {
			return fmt.Errorf("settings store: remove logo: %w", err)
		}
	} else if err := s.store.Set(ctx, logoKey, uri); err != nil {
		return fmt.Errorf("settings store: persist logo: %w", err)
	}
	s.settings.LogoURI = uri
	s.publish()
	return nil
}

// SetCompanyName stores the company display name.
func (s *SettingsStore) SetCompanyName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, companyNameKey, name); err != nil {
		return fmt.Errorf("settings store: persist company name: %w", err)
	}
	s.settings.CompanyName = name
	s.publish()
	return nil
}

// SetTheme stores the theme mode.
func (s *SettingsStore) SetTheme(ctx context.Context, mode ThemeMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, themeKey, string(mode)); err != nil {
		return fmt.Errorf("settings store: persist theme: %w", err)
	}
	s.settings.ThemeMode = mode
	s.publish()
	return nil
}
