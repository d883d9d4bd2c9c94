// Package tui is a terminal host for the layout engine: it binds demo
// panels, draws the computed frame and turns keys and mouse gestures into
// engine operations.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/dockyard/internal/dragsource"
	"github.com/jask/dockyard/internal/engine"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/service"
)

const appName = "Dockyard"

// paletteLabel is the header-bar drag source for new color panels.
const paletteLabel = "[+ drag me]"

// chromeRows is the header bar, the status line and the footer.
const chromeRows = 3

// ---------------------------------------------------------------------------
// Layout picker item (implements list.Item)
// ---------------------------------------------------------------------------

type layoutItem struct {
	name string
}

func (l layoutItem) Title() string       { return l.name }
func (l layoutItem) Description() string { return "" }
func (l layoutItem) FilterValue() string { return l.name }

type layoutItemDelegate struct{}

func (d layoutItemDelegate) Height() int                             { return 1 }
func (d layoutItemDelegate) Spacing() int                            { return 0 }
func (d layoutItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d layoutItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(layoutItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = helpKeyStyle.Render("> ")
	}
	fmt.Fprint(w, padRight(prefix+entry.name, m.Width()))
}

// ---------------------------------------------------------------------------
// Prompts and gestures
// ---------------------------------------------------------------------------

type promptKind int

const (
	promptSaveAs promptKind = iota
	promptAddText
)

type prompt struct {
	kind  promptKind
	title string
	input textinput.Model
}

func newPrompt(kind promptKind, title, value string) *prompt {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64
	in.Width = 30
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	return &prompt{kind: kind, title: title, input: in}
}

// mouseDrag is whichever gesture the left button currently holds.
type mouseDrag struct {
	splitter *engine.SplitterGesture
	vertical bool
	startX   int
	startY   int
	moved    bool
	item     *engine.ItemDrag
	source   *dragsource.Gesture
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type layoutSavedMsg struct {
	name string
	err  error
}

type layoutLoadedMsg struct {
	name string
	cfg  layout.Config
	err  error
}

type layoutsListedMsg struct {
	names []string
	err   error
}

type layoutDeletedMsg struct {
	name string
	err  error
}

type sessionSavedMsg struct {
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Options wires a Model to the engine and the layout library.
type Options struct {
	Engine  *engine.Engine
	Library *service.LayoutLibrary
	Log     *slog.Logger
	// LayoutName is the library layout currently loaded, if any.
	LayoutName string
	// DefaultLayout is what reset loads.
	DefaultLayout string
	// SaveSession stores the on-screen layout when the user quits.
	SaveSession bool
}

type Model struct {
	engine  *engine.Engine
	library *service.LayoutLibrary
	log     *slog.Logger
	keys    *KeyRegistry
	ctx     context.Context

	width  int
	height int

	layoutName    string
	defaultLayout string
	saveSession   bool

	focus     *layout.Node
	status    string
	statusErr bool

	prompt     *prompt
	picker     list.Model
	pickerOpen bool
	editing    editor
	palette    *dragsource.Source
	drag       *mouseDrag
}

func New(opts Options) (Model, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	picker := list.New([]list.Item{}, layoutItemDelegate{}, 0, 0)
	picker.Title = "Layouts"
	picker.Styles.Title = headerAppStyle
	picker.Styles.NoItems = lipgloss.NewStyle()
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()

	m := Model{
		engine:        opts.Engine,
		library:       opts.Library,
		log:           log.With("component", "tui"),
		keys:          NewKeyRegistry(),
		ctx:           context.Background(),
		layoutName:    opts.LayoutName,
		defaultLayout: opts.DefaultLayout,
		saveSession:   opts.SaveSession,
		picker:        picker,
		status:        "ready",
	}
	src, err := opts.Engine.RegisterDragSource(paletteLabel, func() (layout.ItemConfig, error) {
		item := layout.Component(typeColor, []byte(`"yellow"`))
		item.Title = "Drag me"
		return item, nil
	})
	if err != nil {
		return Model{}, fmt.Errorf("register palette: %w", err)
	}
	m.palette = src
	m.ensureFocus()
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Focus is the panel keyboard actions apply to.
func (m Model) Focus() *layout.Node { return m.focus }

func (m Model) bodyHeight() int { return max(0, m.height-chromeRows) }

// ensureFocus keeps focus on a leaf that is still in the layout, preferring
// a visible one.
func (m *Model) ensureFocus() {
	frame := m.engine.Frame()
	if m.focus != nil && m.inLayout(m.focus) {
		return
	}
	m.focus = nil
	if frame != nil {
		for _, leaf := range frame.Leaves() {
			if p, _ := frame.Placement(leaf); p.Visible {
				m.focus = leaf
				return
			}
		}
	}
	if root := m.engine.Root(); root != nil {
		if leaves := root.Leaves(); len(leaves) > 0 {
			m.focus = leaves[0]
		}
	}
}

func (m Model) inLayout(n *layout.Node) bool {
	root := m.engine.Root()
	return root != nil && (root == n || root.Contains(n))
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.log.Warn("action failed", "err", err)
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) scope() string {
	switch {
	case m.editing != nil:
		return scopeEditing
	case m.prompt != nil:
		return scopePrompt
	case m.pickerOpen:
		return scopePicker
	default:
		return scopePanels
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.status
	}
	header := renderHeader(m.paletteText(), m.layoutName, m.engine.Maximised() != nil, m.width)
	bodyH := m.bodyHeight()
	body := renderFrame(m.engine.Frame(), m.engine.Container, m.focus, m.engine.Settings(), m.width, bodyH)
	if hint := m.dropHint(); hint != "" {
		body = overlayAt(body, dropHintStyle.Render(hint), 0, max(0, bodyH-1), m.width, bodyH)
	}
	switch {
	case m.prompt != nil:
		content := headerAppStyle.Render(m.prompt.title) + "\n" + m.prompt.input.View()
		body = centerModal(body, content, m.width, bodyH)
	case m.pickerOpen:
		body = centerModal(body, m.picker.View(), m.width, bodyH)
	}
	status := renderStatus(m.status, m.statusErr, m.width)
	footer := renderFooter(m.keys.HelpBindings(m.scope()), m.width)
	return header + "\n" + body + "\n" + status + "\n" + footer
}

// dropHint describes where the held item would land.
func (m Model) dropHint() string {
	if m.drag == nil {
		return ""
	}
	var (
		loc dragsource.Location
		ok  bool
	)
	switch {
	case m.drag.item != nil:
		loc, ok = m.drag.item.Location()
	case m.drag.source != nil:
		loc, ok = m.drag.source.Location()
	default:
		return ""
	}
	if !ok {
		return " drop: nowhere "
	}
	if loc.Target == nil {
		return " drop: new root "
	}
	name := loc.Target.Title()
	if name == "" {
		name = string(loc.Target.Type())
	}
	return fmt.Sprintf(" drop: %s %s ", loc.Edge, name)
}

// paletteSpan is the header-bar cell range of the drag source label.
func paletteSpan() (start, end int) {
	start = 1 + ansi.StringWidth(appName) + 2
	return start, start + ansi.StringWidth(paletteLabel)
}

// paletteText is the label the drag source was registered with.
func (m Model) paletteText() string {
	if label, ok := m.palette.Element().(string); ok {
		return label
	}
	return paletteLabel
}

func renderHeader(label, layoutName string, maximised bool, width int) string {
	content := headerAppStyle.Render(appName) + "  " + helpKeyStyle.Render(label)
	if layoutName != "" {
		content += "  " + layoutName
	}
	if maximised {
		content += "  " + lipgloss.NewStyle().Foreground(colorWarning).Render("[maximised]")
	}
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(truncate(content, max(1, width-2)))
}
