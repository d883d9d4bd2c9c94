package tui

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/dockyard/internal/database"
	"github.com/jask/dockyard/internal/engine"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/service"
)

const testLayoutJSON = `{"root": {"type": "row", "content": [
  {"type": "stack", "width": 50, "content": [
    {"type": "component", "title": "Alpha", "componentType": "Color", "componentState": "gold"},
    {"type": "component", "title": "Beta", "componentType": "Text", "componentState": {"text": "b"}}
  ]},
  {"type": "component", "title": "Gamma", "width": 50, "isClosable": false,
   "componentType": "Boolean", "componentState": true}
]}}`

func testDefaults() layout.Defaults {
	d := layout.DefaultDefaults()
	d.Dimensions = layout.Dimensions{MinItemWidth: 12, MinItemHeight: 5, BorderWidth: 1, HeaderHeight: 1}
	return d
}

func newTestEngine(t *testing.T, virtual bool) *engine.Engine {
	t.Helper()
	reg, err := NewRegistry(virtual)
	require.NoError(t, err)
	e, err := engine.New(nil, engine.WithRegistry(reg), engine.WithDefaults(testDefaults()))
	require.NoError(t, err)
	cfg, err := layout.ParseConfig([]byte(testLayoutJSON))
	require.NoError(t, err)
	require.NoError(t, e.LoadLayout(cfg))
	return e
}

// newTestModel returns a model sized to 80x23, which leaves an 80x20 body:
// the stack gets cells 0..39, the splitter 40, Gamma 41..79.
func newTestModel(t *testing.T, lib *service.LayoutLibrary) Model {
	t.Helper()
	m, err := New(Options{Engine: newTestEngine(t, false), Library: lib, DefaultLayout: "standard"})
	require.NoError(t, err)
	return send(m, tea.WindowSizeMsg{Width: 80, Height: 23})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeKeys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func sendCmd(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func leafTitled(t *testing.T, m Model, title string) *layout.Node {
	t.Helper()
	for _, leaf := range m.engine.Root().Leaves() {
		if leaf.Title() == title {
			return leaf
		}
	}
	t.Fatalf("no leaf titled %q", title)
	return nil
}

func titles(m Model) []string {
	var out []string
	for _, leaf := range m.engine.Root().Leaves() {
		out = append(out, leaf.Title())
	}
	return out
}

func TestWindowSizeSetsViewport(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	frame := m.engine.Frame()
	require.Equal(t, 80, frame.Viewport.Width)
	require.Equal(t, 20, frame.Viewport.Height)

	p, ok := frame.Placement(leafTitled(t, m, "Gamma"))
	require.True(t, ok)
	require.Equal(t, 41, p.Rect.Left)
	require.Equal(t, 39, p.Rect.Width)
	require.Equal(t, "Alpha", m.Focus().Title())

	view := m.View()
	require.Contains(t, view, appName)
	require.Contains(t, view, "Alpha")
	require.Contains(t, view, "Gamma")
	require.Len(t, strings.Split(view, "\n"), 23)
}

func TestFocusAndTabCycling(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	stack := leafTitled(t, m, "Alpha").Parent()

	m = send(m, keyMsg("tab"))
	require.Equal(t, "Beta", m.Focus().Title())
	require.Equal(t, 1, stack.ActiveIndex(), "focusing a hidden tab brings it forward")

	m = send(m, keyMsg("tab"))
	require.Equal(t, "Gamma", m.Focus().Title())
	m = send(m, keyMsg("shift+tab"), keyMsg("shift+tab"))
	require.Equal(t, "Alpha", m.Focus().Title())
	require.Equal(t, 0, stack.ActiveIndex())

	m = send(m, keyMsg("]"))
	require.Equal(t, "Beta", m.Focus().Title())
	m = send(m, keyMsg("]"))
	require.Equal(t, "Alpha", m.Focus().Title())
}

func TestAddAndClosePanels(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m = send(m, keyMsg("c"))
	require.Equal(t, []string{"Alpha", "Beta", "Color", "Gamma"}, titles(m))
	require.Equal(t, "Color", m.Focus().Title())
	require.Equal(t, 2, m.Focus().Parent().ActiveIndex())

	m = send(m, keyMsg("x"))
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(m))
	require.NotNil(t, m.Focus())

	m.focusLeaf(leafTitled(t, m, "Gamma"))
	m = send(m, keyMsg("x"))
	require.Equal(t, "panel is pinned", m.status)
	require.Len(t, titles(m), 3)

	m.focusLeaf(leafTitled(t, m, "Beta"))
	m = send(m, keyMsg("x"))
	require.Equal(t, []string{"Alpha", "Gamma"}, titles(m))
	require.Equal(t, layout.TypeRow, leafTitled(t, m, "Alpha").Parent().Type(), "single-tab stack collapses")
}

func TestAddTextSeedsInitialValue(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m = send(m, keyMsg("t"))
	require.Equal(t, scopePrompt, m.scope())
	m = send(m, typeKeys("hello q")...)
	m = send(m, keyMsg("enter"))
	require.Equal(t, scopePanels, m.scope())

	leaf := m.Focus()
	require.Equal(t, "Text", leaf.ComponentType())
	rc, err := m.engine.SaveLayout()
	require.NoError(t, err)
	require.JSONEq(t, `{"text":"hello q"}`, string(stateOf(rc, leaf.Title(), 0)))
}

func TestEditingTextPanel(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m.focusLeaf(leafTitled(t, m, "Beta"))
	m = send(m, keyMsg("enter"))
	require.Equal(t, scopeEditing, m.scope())
	m = send(m, typeKeys("x")...)
	m = send(m, keyMsg("esc"))
	require.Equal(t, scopePanels, m.scope())

	m = send(m, keyMsg("enter"))
	m = send(m, typeKeys("yz")...)
	m = send(m, keyMsg("enter"))
	rc, err := m.engine.SaveLayout()
	require.NoError(t, err)
	require.JSONEq(t, `{"text":"byz"}`, string(stateOf(rc, "Beta", 0)))
}

func TestKeyboardResizeAndMove(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	stack := leafTitled(t, m, "Alpha").Parent()
	m = send(m, keyMsg(">"))
	require.Greater(t, stack.Size(), 50.0)
	require.InDelta(t, 100, layout.WeightSum(stack.Parent()), layout.WeightEpsilon)

	m = send(m, keyMsg("+"))
	require.Equal(t, "nothing to resize", m.status)

	m = send(m, keyMsg("L"))
	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, titles(m))
	require.Equal(t, "Alpha", m.Focus().Title())
}

func TestPaletteDropAddsTab(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m = send(m, keyMsg("d"))
	require.False(t, m.statusErr, m.status)
	stack := leafTitled(t, m, "Alpha").Parent()
	require.Equal(t, 3, stack.ChildCount())
	require.Equal(t, "Drag me", stack.Children()[1].Title())
}

func TestMouseSplitterDrag(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	stack := leafTitled(t, m, "Alpha").Parent()
	// Screen row 0 is the header bar, so body row y sits at screen y+1.
	m = send(m,
		mouse(tea.MouseActionPress, 40, 5),
		mouse(tea.MouseActionMotion, 50, 5),
		mouse(tea.MouseActionRelease, 50, 5),
	)
	require.Nil(t, m.drag)
	require.InDelta(t, 50+10.0/79*100, stack.Size(), 0.01)
}

func TestMouseTabClickSelects(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	stack := leafTitled(t, m, "Alpha").Parent()
	m = send(m, mouse(tea.MouseActionPress, 9, 1), mouse(tea.MouseActionRelease, 9, 1))
	require.Equal(t, "Beta", m.Focus().Title())
	require.Equal(t, 1, stack.ActiveIndex())
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(m), "a click is not a drag")

	// Dragging the Beta tab onto Gamma's right edge moves it there.
	m = send(m,
		mouse(tea.MouseActionPress, 9, 1),
		mouse(tea.MouseActionMotion, 79, 11),
		mouse(tea.MouseActionRelease, 79, 11),
	)
	require.Equal(t, []string{"Alpha", "Gamma", "Beta"}, titles(m))
}

func TestMaximiseToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m = send(m, keyMsg("m"))
	require.NotNil(t, m.engine.Maximised())
	require.Contains(t, m.View(), "[maximised]")
	m = send(m, keyMsg("m"))
	require.Nil(t, m.engine.Maximised())

	m.focusLeaf(leafTitled(t, m, "Gamma"))
	m = send(m, keyMsg("m"))
	require.Nil(t, m.engine.Maximised())
	require.Equal(t, "only tabbed panels can be maximised", m.status)
}

func TestQuitWithoutSession(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	_, cmd := sendCmd(m, keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSaveAndOpenThroughLibrary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tui.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))
	lib := service.NewLayoutLibrary(db, nil)

	m := newTestModel(t, lib)
	m = send(m, keyMsg("s"))
	m = send(m, typeKeys("mine")...)
	m, cmd := sendCmd(m, keyMsg("enter"))
	require.NotNil(t, cmd)
	m = send(m, cmd())
	require.False(t, m.statusErr, m.status)
	require.Equal(t, "mine", m.layoutName)

	// Change the layout, then reopen the saved copy.
	m = send(m, keyMsg("c"))
	require.Len(t, titles(m), 4)

	m, cmd = sendCmd(m, keyMsg("o"))
	m = send(m, cmd())
	require.True(t, m.pickerOpen)
	require.Equal(t, "mine", m.picker.SelectedItem().(layoutItem).name)

	m, cmd = sendCmd(m, keyMsg("enter"))
	require.False(t, m.pickerOpen)
	m = send(m, cmd())
	require.False(t, m.statusErr, m.status)
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(m))

	m, cmd = sendCmd(m, keyMsg("R"))
	m = send(m, cmd())
	require.Equal(t, "standard", m.layoutName)
	require.Contains(t, titles(m), "Flags")
}

// stateOf finds the saved component state of the nth item with title.
func stateOf(rc layout.ResolvedConfig, title string, nth int) json.RawMessage {
	var found []json.RawMessage
	var walk func(ri layout.ResolvedItem)
	walk = func(ri layout.ResolvedItem) {
		if ri.Type == layout.TypeComponent && ri.Title == title {
			found = append(found, ri.ComponentState)
		}
		for _, c := range ri.Content {
			walk(c)
		}
	}
	if rc.Root != nil {
		walk(*rc.Root)
	}
	if nth < len(found) {
		return found[nth]
	}
	return nil
}

// newTabMenuModel shows five six-cell tabs in a 30-cell header, so the
// last two sit behind the tab menu in cells 20..29.
func newTabMenuModel(t *testing.T, reorder bool) Model {
	t.Helper()
	reg, err := NewRegistry(false)
	require.NoError(t, err)
	e, err := engine.New(nil, engine.WithRegistry(reg), engine.WithDefaults(testDefaults()))
	require.NoError(t, err)
	content := make([]layout.ItemConfig, 0, 5)
	for _, title := range []string{"Aaaa", "Bbbb", "Cccc", "Dddd", "Eeee"} {
		item := layout.Component(typeColor, nil)
		item.Title = title
		content = append(content, item)
	}
	require.NoError(t, e.LoadLayout(layout.Config{
		Settings: &layout.SettingsConfig{ReorderOnTabMenuClick: &reorder},
		Root:     &layout.ItemConfig{Type: layout.TypeStack, Content: content},
	}))
	m, err := New(Options{Engine: e, DefaultLayout: "standard"})
	require.NoError(t, err)
	return send(m, tea.WindowSizeMsg{Width: 30, Height: 13})
}

func TestTabMenuClickReorders(t *testing.T) {
	t.Parallel()

	m := newTabMenuModel(t, true)
	m = send(m, mouse(tea.MouseActionPress, 25, 1), mouse(tea.MouseActionRelease, 25, 1))
	require.Equal(t, "Dddd", m.Focus().Title())
	require.Equal(t, []string{"Dddd", "Aaaa", "Bbbb", "Cccc", "Eeee"}, titles(m))
	require.Equal(t, 0, m.engine.Root().ActiveIndex())
}

func TestTabMenuClickKeepsOrder(t *testing.T) {
	t.Parallel()

	m := newTabMenuModel(t, false)
	m = send(m, mouse(tea.MouseActionPress, 25, 1), mouse(tea.MouseActionRelease, 25, 1))
	require.Equal(t, "Dddd", m.Focus().Title())
	require.Equal(t, []string{"Aaaa", "Bbbb", "Cccc", "Dddd", "Eeee"}, titles(m))
	require.Equal(t, 3, m.engine.Root().ActiveIndex())

	// The active tab takes the last visible slot; the menu key then picks
	// the first tab left out.
	m = send(m, keyMsg(`\`))
	require.Equal(t, "Cccc", m.Focus().Title())
	require.Equal(t, 2, m.engine.Root().ActiveIndex())
}
