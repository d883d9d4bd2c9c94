package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/dockyard/internal/layout"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DOCKYARD_CONFIG", filepath.Join(dir, "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".local", "share", "dockyard", "dockyard.db"), cfg.Database.Path)
	require.Equal(t, "standard", cfg.Layout.Default)
	require.Equal(t, 12, cfg.Layout.MinItemWidth)

	d, err := cfg.LayoutDefaults()
	require.NoError(t, err)
	require.Equal(t, layout.ResponsiveNone, d.Settings.ResponsiveMode)
	require.Equal(t, layout.Dimensions{MinItemWidth: 12, MinItemHeight: 5, BorderWidth: 1, HeaderHeight: 1}, d.Dimensions)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[layout]
default = "miniRow"
responsive_mode = "always"
min_item_width = 20

[ui]
virtual = true
`), 0o644))
	t.Setenv("DOCKYARD_CONFIG", path)
	t.Setenv("DOCKYARD_LAYOUT_HEADER_HEIGHT", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "miniRow", cfg.Layout.Default)
	require.True(t, cfg.UI.Virtual)
	require.Equal(t, 20, cfg.Layout.MinItemWidth)
	require.Equal(t, 2, cfg.Layout.HeaderHeight)

	d, err := cfg.LayoutDefaults()
	require.NoError(t, err)
	require.Equal(t, layout.ResponsiveAlways, d.Settings.ResponsiveMode)
}

func TestLoadRejectsBadLayoutSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[layout]\nresponsive_mode = \"sometimes\"\n"), 0o644))
	t.Setenv("DOCKYARD_CONFIG", path)

	_, err := Load()
	require.ErrorContains(t, err, "responsive_mode")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("DOCKYARD_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Layout.Default = "responsive"
	cfg.Layout.BorderWidth = 0
	cfg.UI.Virtual = true
	require.NoError(t, Save(cfg))

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}
