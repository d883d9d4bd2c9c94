package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorRosewater lipgloss.Color = "#f5e0dc"
	colorPink      lipgloss.Color = "#f5c2e7"
	colorMauve     lipgloss.Color = "#cba6f7"
	colorRed       lipgloss.Color = "#f38ba8"
	colorPeach     lipgloss.Color = "#fab387"
	colorYellow    lipgloss.Color = "#f9e2af"
	colorGreen     lipgloss.Color = "#a6e3a1"
	colorTeal      lipgloss.Color = "#94e2d5"
	colorSky       lipgloss.Color = "#89dceb"
	colorBlue      lipgloss.Color = "#89b4fa"
	colorLavender  lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// namedColors maps the color names panels store in their state to palette
// entries. Lookups are case-insensitive.
var namedColors = map[string]lipgloss.Color{
	"mediumvioletred": "#c71585",
	"indianred":       "#cd5c5c",
	"gold":            colorYellow,
	"yellow":          colorYellow,
	"white":           colorRosewater,
	"green":           colorGreen,
	"teal":            colorTeal,
	"pink":            colorPink,
	"red":             colorRed,
	"orange":          colorPeach,
	"blue":            colorBlue,
	"sky":             colorSky,
	"mauve":           colorMauve,
	"lavender":        colorLavender,
}

// colorCycle is the order the color panel steps through.
var colorCycle = []string{"MediumVioletRed", "gold", "green", "teal", "blue", "mauve", "pink", "orange", "white"}

// resolveColor returns the palette entry for name, or ok=false when the
// name is unknown.
func resolveColor(name string) (lipgloss.Color, bool) {
	c, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
