package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry resolves key names to actions per input scope, falling back
// to the global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal  = "global"
	scopePanels  = "panels"
	scopePrompt  = "prompt"
	scopePicker  = "picker"
	scopeEditing = "editing"
)

const (
	actionQuit         Action = "quit"
	actionFocusNext    Action = "focus_next"
	actionFocusPrev    Action = "focus_prev"
	actionNextTab      Action = "next_tab"
	actionPrevTab      Action = "prev_tab"
	actionTabMenu      Action = "tab_menu"
	actionAddColor     Action = "add_color"
	actionAddText      Action = "add_text"
	actionAddBoolean   Action = "add_boolean"
	actionDragNew      Action = "drag_new"
	actionClosePanel   Action = "close_panel"
	actionMaximise     Action = "maximise"
	actionSave         Action = "save"
	actionOpen         Action = "open"
	actionReset        Action = "reset"
	actionGrowWidth    Action = "grow_width"
	actionShrinkWidth  Action = "shrink_width"
	actionGrowHeight   Action = "grow_height"
	actionShrinkHeight Action = "shrink_height"
	actionMoveLeft     Action = "move_left"
	actionMoveRight    Action = "move_right"
	actionMoveUp       Action = "move_up"
	actionMoveDown     Action = "move_down"
	actionInteract     Action = "interact"
	actionNavigate     Action = "navigate"
	actionSelect       Action = "select"
	actionDelete       Action = "delete"
	actionConfirm      Action = "confirm"
	actionCancel       Action = "cancel"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopePanels, actionFocusNext, []string{"tab"}, "next panel")
	reg(scopePanels, actionFocusPrev, []string{"shift+tab"}, "prev panel")
	reg(scopePanels, actionNextTab, []string{"]"}, "next tab")
	reg(scopePanels, actionPrevTab, []string{"["}, "prev tab")
	reg(scopePanels, actionTabMenu, []string{"\\"}, "more tabs")
	reg(scopePanels, actionInteract, []string{"enter", "space", " "}, "use")
	reg(scopePanels, actionAddColor, []string{"c"}, "color")
	reg(scopePanels, actionAddText, []string{"t"}, "text")
	reg(scopePanels, actionAddBoolean, []string{"b"}, "flag")
	reg(scopePanels, actionDragNew, []string{"d"}, "drop new")
	reg(scopePanels, actionClosePanel, []string{"x"}, "close")
	reg(scopePanels, actionMaximise, []string{"m"}, "maximise")
	reg(scopePanels, actionGrowWidth, []string{">", "."}, "wider")
	reg(scopePanels, actionShrinkWidth, []string{"<", ","}, "narrower")
	reg(scopePanels, actionGrowHeight, []string{"+", "="}, "taller")
	reg(scopePanels, actionShrinkHeight, []string{"-"}, "shorter")
	reg(scopePanels, actionMoveLeft, []string{"H"}, "move left")
	reg(scopePanels, actionMoveDown, []string{"J"}, "move down")
	reg(scopePanels, actionMoveUp, []string{"K"}, "move up")
	reg(scopePanels, actionMoveRight, []string{"L"}, "move right")
	reg(scopePanels, actionSave, []string{"s"}, "save")
	reg(scopePanels, actionOpen, []string{"o"}, "open")
	reg(scopePanels, actionReset, []string{"R"}, "reset")
	reg(scopePanels, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopePrompt, actionConfirm, []string{"enter"}, "confirm")
	reg(scopePrompt, actionCancel, []string{"esc"}, "cancel")

	reg(scopeEditing, actionConfirm, []string{"enter"}, "apply")
	reg(scopeEditing, actionCancel, []string{"esc"}, "cancel")

	reg(scopePicker, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopePicker, actionSelect, []string{"enter"}, "open")
	reg(scopePicker, actionDelete, []string{"D"}, "delete")
	reg(scopePicker, actionCancel, []string{"esc"}, "close")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.indexByScope[scopeGlobal][keyName]
	}
	return nil
}

// HelpBindings renders a scope's bindings for the footer.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		// Single runes keep their case so H and h can differ.
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
