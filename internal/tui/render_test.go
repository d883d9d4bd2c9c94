package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

func TestOverlayAt(t *testing.T) {
	t.Parallel()

	base := blank(5, 2)
	got := overlayAt(base, "ab", 1, 1, 5, 2)
	require.Equal(t, "     \n ab  ", got)

	got = overlayAt(base, "abcd", 3, 0, 5, 2)
	require.Equal(t, "   ab\n     ", got)

	got = overlayAt(base, "zz", 0, 5, 5, 2)
	require.Equal(t, base, got)
}

func TestFitBlock(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc\nd  \n   ", fitBlock("abcdef\nd", 3, 3))
	require.Empty(t, fitBlock("abc", 0, 2))
	require.Equal(t, "ab…", truncate("abcdef", 3))
	require.Equal(t, "ab  ", padRight("ab", 4))
}

func TestTabAtResolvesHeaderCells(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, false)
	require.NoError(t, e.SetSize(80, 20))
	frame := e.Frame()
	settings := e.Settings()

	tab, ok := tabAt(frame, settings, 2, 0)
	require.True(t, ok)
	require.Equal(t, "Alpha", tab.Title())

	tab, ok = tabAt(frame, settings, 9, 0)
	require.True(t, ok)
	require.Equal(t, "Beta", tab.Title())

	tab, ok = tabAt(frame, settings, 42, 0)
	require.True(t, ok)
	require.Equal(t, "Gamma", tab.Title())

	_, ok = tabAt(frame, settings, 30, 0)
	require.False(t, ok, "past the last tab")
	_, ok = tabAt(frame, settings, 2, 5)
	require.False(t, ok, "content is not header")
	_, ok = tabAt(frame, settings, 40, 0)
	require.False(t, ok, "splitter")
}

func TestRenderFrameDrawsPanels(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, false)
	require.NoError(t, e.SetSize(80, 20))
	out := renderFrame(e.Frame(), e.Container, nil, e.Settings(), 80, 20)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "Alpha")
	require.Contains(t, plain, "Gamma")
	require.Contains(t, plain, "color: gold")
	require.Equal(t, "│", string([]rune(ansi.Strip(lines[5]))[40]))
}

func TestRenderFrameEmpty(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, false)
	require.NoError(t, e.Clear())
	require.NoError(t, e.SetSize(60, 10))
	out := ansi.Strip(renderFrame(e.Frame(), e.Container, nil, e.Settings(), 60, 10))
	require.Contains(t, out, "empty layout")
}

// tabStack resolves a stack of tabs whose labels are each six cells wide.
func tabStack(t *testing.T, active int) *layout.Node {
	t.Helper()
	content := make([]layout.ItemConfig, 0, 5)
	for _, title := range []string{"Aaaa", "Bbbb", "Cccc", "Dddd", "Eeee"} {
		item := layout.Component(typeColor, nil)
		item.Title = title
		content = append(content, item)
	}
	tree, err := layout.Resolve(layout.Config{Root: &layout.ItemConfig{Type: layout.TypeStack, ActiveItemIndex: &active, Content: content}},
		layout.DefaultDefaults(), nil)
	require.NoError(t, err)
	return tree.Root()
}

type spanCells struct {
	title      string
	start, end int
}

func stripCells(strip tabStrip) ([]spanCells, []string) {
	spans := make([]spanCells, 0, len(strip.spans))
	for _, s := range strip.spans {
		spans = append(spans, spanCells{s.item.Title(), s.start, s.end})
	}
	var hidden []string
	for _, n := range strip.hidden {
		hidden = append(hidden, n.Title())
	}
	return spans, hidden
}

func TestLayoutTabsUsesSettings(t *testing.T) {
	t.Parallel()

	header := func(w int) resize.Rect { return resize.Rect{Width: w, Height: 1} }
	settings := func(overlap, offset float64) layout.Settings {
		s := layout.DefaultSettings()
		s.TabOverlapAllowance = overlap
		s.TabControlOffset = offset
		return s
	}

	tests := []struct {
		name     string
		active   int
		width    int
		settings layout.Settings
		spans    []spanCells
		hidden   []string
		menu     tabSpan
	}{
		{
			name: "fits", width: 40, settings: settings(0, 10),
			spans: []spanCells{{"Aaaa", 0, 6}, {"Bbbb", 7, 13}, {"Cccc", 14, 20}, {"Dddd", 21, 27}, {"Eeee", 28, 34}},
		},
		{
			name: "overlap squeezes inactive tabs", width: 30, settings: settings(25, 10),
			spans: []spanCells{{"Aaaa", 0, 6}, {"Bbbb", 7, 12}, {"Cccc", 13, 18}, {"Dddd", 19, 24}, {"Eeee", 25, 30}},
		},
		{
			name: "overflow goes to menu", width: 30, settings: settings(0, 10),
			spans:  []spanCells{{"Aaaa", 0, 6}, {"Bbbb", 7, 13}, {"Cccc", 14, 20}},
			hidden: []string{"Dddd", "Eeee"},
			menu:   tabSpan{start: 20, end: 30},
		},
		{
			name: "active tab stays visible", active: 4, width: 30, settings: settings(0, 10),
			spans:  []spanCells{{"Aaaa", 0, 6}, {"Bbbb", 7, 13}, {"Eeee", 14, 20}},
			hidden: []string{"Cccc", "Dddd"},
			menu:   tabSpan{start: 20, end: 30},
		},
		{
			name: "narrow control", width: 30, settings: settings(0, 5),
			spans:  []spanCells{{"Aaaa", 0, 6}, {"Bbbb", 7, 13}, {"Cccc", 14, 20}},
			hidden: []string{"Dddd", "Eeee"},
			menu:   tabSpan{start: 25, end: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strip := layoutTabs(tabStack(t, tt.active), header(tt.width), tt.settings)
			spans, hidden := stripCells(strip)
			require.Equal(t, tt.spans, spans)
			require.Equal(t, tt.hidden, hidden)
			if len(tt.hidden) > 0 {
				require.Equal(t, tt.menu, strip.menu)
			}
		})
	}
}

func TestRenderTabsShowsMenuCount(t *testing.T) {
	t.Parallel()

	s := layout.DefaultSettings()
	out := ansi.Strip(renderTabs(tabStack(t, 0), resize.Rect{Width: 30, Height: 1}, nil, s))
	require.Equal(t, 30, ansi.StringWidth(out))
	require.True(t, strings.HasPrefix(out, " Aaaa │ Bbbb │ Cccc "), out)
	require.True(t, strings.HasSuffix(out, "+2"), out)
}
