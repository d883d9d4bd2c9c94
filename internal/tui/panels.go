package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/dockyard/internal/binding"
	"github.com/jask/dockyard/internal/engine"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

const (
	typeColor   = "Color"
	typeText    = "Text"
	typeBoolean = "Boolean"

	undefinedColor = "MediumVioletRed"
	invalidColor   = "IndianRed"
	undefinedText  = "<undefined>"
	invalidText    = "<unexpected type>"
)

// panel is the content the TUI binds into a container.
type panel interface {
	View(width, height int, focused bool) string
	// Interact reacts to enter or space. It reports whether the panel now
	// takes raw key input.
	Interact() bool
}

// editor is a panel that can take raw key input after Interact.
type editor interface {
	panel
	UpdateEditing(msg tea.Msg) tea.Cmd
	Commit()
	Abort()
}

// NewRegistry registers the demo panel types. With virtual set, panels are
// bound as virtual content and track the geometry events they receive.
func NewRegistry(virtual bool) (*engine.Registry, error) {
	r := engine.NewRegistry()
	factories := map[string]func(c *binding.Container) panel{
		typeColor:   func(c *binding.Container) panel { return newColorPanel(c) },
		typeText:    func(c *binding.Container) panel { return newTextPanel(c) },
		typeBoolean: func(c *binding.Container) panel { return newBooleanPanel(c) },
	}
	for _, name := range []string{typeColor, typeText, typeBoolean} {
		build := factories[name]
		err := r.Register(name, func(c *binding.Container, _ layout.ResolvedItem) (binding.BoundComponent, error) {
			p := build(c)
			if virtual {
				trackVirtual(c, p)
			}
			return binding.BoundComponent{Component: p, Virtual: virtual}, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// virtualInfo records what the engine pushed to a virtual panel.
type virtualInfo struct {
	tracked bool
	width   int
	height  int
	visible bool
	zIndex  string
}

type virtualTracker interface {
	info() *virtualInfo
}

func (v *virtualInfo) info() *virtualInfo { return v }

func (v *virtualInfo) footer() string {
	if !v.tracked {
		return ""
	}
	return fmt.Sprintf("virtual %dx%d z=%s", v.width, v.height, v.zIndex)
}

func trackVirtual(c *binding.Container, p panel) {
	t, ok := p.(virtualTracker)
	if !ok {
		return
	}
	info := t.info()
	info.tracked = true
	c.SetVirtualRectingHandler(func(_ *binding.Container, width, height int) {
		info.width, info.height = width, height
	})
	c.SetVirtualVisibilityHandler(func(_ *binding.Container, visible bool) {
		info.visible = visible
	})
	c.SetVirtualZIndexHandler(func(_ *binding.Container, _ resize.LogicalZIndex, defaultZ string) {
		info.zIndex = defaultZ
	})
}

var mutedStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

func withFooter(body []string, footer string, height int) string {
	if footer != "" && height > len(body) {
		for len(body) < height-1 {
			body = append(body, "")
		}
		body = append(body, mutedStyle.Render(footer))
	}
	return strings.Join(body, "\n")
}

// ---------------------------------------------------------------------------
// Color
// ---------------------------------------------------------------------------

type colorPanel struct {
	virtualInfo
	container *binding.Container
	color     string
}

func newColorPanel(c *binding.Container) *colorPanel {
	p := &colorPanel{container: c, color: undefinedColor}
	var state any
	ok, err := c.DecodeInitialState(&state)
	switch {
	case err != nil:
		p.color = invalidColor
	case ok:
		if s, isString := state.(string); isString {
			p.color = s
		} else {
			p.color = invalidColor
		}
	}
	c.SetStateRequestHandler(p.state)
	return p
}

func (p *colorPanel) state(*binding.Container) json.RawMessage {
	if p.color == undefinedColor {
		return nil
	}
	data, _ := json.Marshal(p.color)
	return data
}

// Interact steps to the next color.
func (p *colorPanel) Interact() bool {
	next := 0
	for i, name := range colorCycle {
		if strings.EqualFold(name, p.color) {
			next = (i + 1) % len(colorCycle)
			break
		}
	}
	p.color = colorCycle[next]
	return false
}

func (p *colorPanel) View(width, height int, focused bool) string {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := resolveColor(p.color); ok {
		style = style.Foreground(c)
	} else {
		style = style.Foreground(colorText)
	}
	body := []string{
		style.Render(p.container.Title()),
		"color: " + style.Render(p.color),
		mutedStyle.Render("id: " + shortID(p.container.ID())),
	}
	return withFooter(body, p.footer(), height)
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

type textState struct {
	Text string `json:"text"`
}

type textPanel struct {
	virtualInfo
	container *binding.Container
	value     string
	input     textinput.Model
	editing   bool
}

func newTextPanel(c *binding.Container) *textPanel {
	p := &textPanel{container: c, value: undefinedText}
	var st textState
	ok, err := c.DecodeInitialState(&st)
	switch {
	case err != nil:
		p.value = invalidText
	case ok:
		p.value = st.Text
	}
	p.input = textinput.New()
	p.input.Prompt = "> "
	p.input.CharLimit = 256
	c.SetStateRequestHandler(p.state)
	return p
}

// SetInitialValue replaces the value before the user has touched it.
func (p *textPanel) SetInitialValue(v string) { p.value = v }

func (p *textPanel) Value() string { return p.value }

func (p *textPanel) state(*binding.Container) json.RawMessage {
	if p.value == undefinedText {
		return nil
	}
	data, _ := json.Marshal(textState{Text: p.value})
	return data
}

func (p *textPanel) Interact() bool {
	p.editing = true
	p.input.SetValue(p.value)
	p.input.CursorEnd()
	p.input.Focus()
	return true
}

func (p *textPanel) UpdateEditing(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *textPanel) Commit() {
	p.value = p.input.Value()
	p.stopEditing()
}

func (p *textPanel) Abort() { p.stopEditing() }

func (p *textPanel) stopEditing() {
	p.editing = false
	p.input.Blur()
}

func (p *textPanel) View(width, height int, focused bool) string {
	var line string
	if p.editing {
		p.input.Width = max(1, width-len(p.input.Prompt)-1)
		line = p.input.View()
	} else {
		style := lipgloss.NewStyle().Foreground(colorText)
		if p.value == undefinedText {
			style = mutedStyle
		}
		line = style.Render(p.value)
	}
	return withFooter([]string{line}, p.footer(), height)
}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

type booleanPanel struct {
	virtualInfo
	container *binding.Container
	value     bool
}

func newBooleanPanel(c *binding.Container) *booleanPanel {
	p := &booleanPanel{container: c}
	if _, err := c.DecodeInitialState(&p.value); err != nil {
		p.value = false
	}
	c.SetStateRequestHandler(p.state)
	return p
}

func (p *booleanPanel) state(*binding.Container) json.RawMessage {
	data, _ := json.Marshal(p.value)
	return data
}

func (p *booleanPanel) Interact() bool {
	p.value = !p.value
	return false
}

func (p *booleanPanel) View(width, height int, focused bool) string {
	box := "[ ]"
	style := lipgloss.NewStyle().Foreground(colorSubtext0)
	if p.value {
		box = "[x]"
		style = lipgloss.NewStyle().Foreground(colorGreen)
	}
	return withFooter([]string{style.Render(box) + " " + p.container.Title()}, p.footer(), height)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
