package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/dockyard/internal/layout"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Layout   LayoutConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LayoutConfig holds the engine defaults and the layout opened on start.
type LayoutConfig struct {
	Default        string
	ResponsiveMode string `mapstructure:"responsive_mode"`
	MinItemWidth   int    `mapstructure:"min_item_width"`
	MinItemHeight  int    `mapstructure:"min_item_height"`
	HeaderHeight   int    `mapstructure:"header_height"`
	BorderWidth    int    `mapstructure:"border_width"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Virtual binds demo panels as virtual content.
	Virtual bool
}

type LogConfig struct {
	Level string
	Path  string
}

func configPath() string {
	if p := os.Getenv("DOCKYARD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "dockyard", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix DOCKYARD_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "dockyard", "dockyard.db"))
	v.SetDefault("layout.default", "standard")
	v.SetDefault("layout.responsive_mode", string(layout.ResponsiveNone))
	v.SetDefault("layout.min_item_width", 12)
	v.SetDefault("layout.min_item_height", 5)
	v.SetDefault("layout.header_height", 1)
	v.SetDefault("layout.border_width", 1)
	v.SetDefault("ui.virtual", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "dockyard", "dockyard.log"))

	v.SetConfigType("toml")
	v.SetConfigFile(configPath())

	v.SetEnvPrefix("DOCKYARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.LayoutDefaults(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LayoutDefaults converts the layout section into engine defaults. Terminal
// cells replace pixels, so the numbers are much smaller than a browser's.
func (c Config) LayoutDefaults() (layout.Defaults, error) {
	d := layout.DefaultDefaults()
	switch mode := layout.ResponsiveMode(c.Layout.ResponsiveMode); mode {
	case layout.ResponsiveNone, layout.ResponsiveAlways, layout.ResponsiveOnLoad:
		d.Settings.ResponsiveMode = mode
	case "":
	default:
		return layout.Defaults{}, fmt.Errorf("config: layout.responsive_mode %q is not none, always or onload", mode)
	}
	for name, v := range map[string]int{
		"min_item_width":  c.Layout.MinItemWidth,
		"min_item_height": c.Layout.MinItemHeight,
		"header_height":   c.Layout.HeaderHeight,
		"border_width":    c.Layout.BorderWidth,
	} {
		if v < 0 {
			return layout.Defaults{}, fmt.Errorf("config: layout.%s must not be negative", name)
		}
	}
	d.Dimensions = layout.Dimensions{
		MinItemWidth:  c.Layout.MinItemWidth,
		MinItemHeight: c.Layout.MinItemHeight,
		BorderWidth:   c.Layout.BorderWidth,
		HeaderHeight:  c.Layout.HeaderHeight,
	}
	return d, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("layout.default", cfg.Layout.Default)
	v.Set("layout.responsive_mode", cfg.Layout.ResponsiveMode)
	v.Set("layout.min_item_width", cfg.Layout.MinItemWidth)
	v.Set("layout.min_item_height", cfg.Layout.MinItemHeight)
	v.Set("layout.header_height", cfg.Layout.HeaderHeight)
	v.Set("layout.border_width", cfg.Layout.BorderWidth)
	v.Set("ui.virtual", cfg.UI.Virtual)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
