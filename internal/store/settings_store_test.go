package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/courierops/internal/storage"
)

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemory()

	s := NewSettingsStore(backing)
	s.Load(ctx)

	settings := s.Settings()
	assert.Equal(t, ThemeLight, settings.ThemeMode)
	assert.Empty(t, settings.LogoURI)
	assert.Empty(t, settings.CompanyName)

	require.NoError(t, s.SetCompanyName(ctx, "Mensajeria Express"))
	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	require.NoError(t, s.SetLogo(ctx, "file:///logo.png"))

	reloaded := NewSettingsStore(backing)
	reloaded.Load(ctx)
	settings = reloaded.Settings()
	assert.Equal(t, "Mensajeria Express", settings.CompanyName)
	assert.Equal(t, ThemeDark, settings.ThemeMode)
	assert.Equal(t, "file:///logo.png", settings.LogoURI)
}

func TestSettingsClearLogoRemovesKey(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemory()

	s := NewSettingsStore(backing)
	require.NoError(t, s.SetLogo(ctx, "file:///logo.png"))
	require.NoError(t, s.SetLogo(ctx, ""))

	_, ok, err := backing.Get(ctx, "@app_logo")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Settings().LogoURI)
}
