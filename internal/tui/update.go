package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/dockyard/internal/dragsource"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/prefs"
	"github.com/jask/dockyard/internal/resize"
	"github.com/jask/dockyard/internal/service"
)

// resizeStep is how many cells one resize key moves a splitter.
const resizeStep = 2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if err := m.engine.SetSize(m.width, m.bodyHeight()); err != nil {
			m.setError(err)
		}
		m.picker.SetWidth(min(40, max(10, m.width-8)))
		m.picker.SetHeight(min(14, max(3, m.bodyHeight()-4)))
		m.ensureFocus()
		return m, nil
	case layoutSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.layoutName = msg.name
		m.setStatus(fmt.Sprintf("saved layout %q", msg.name))
		return m, nil
	case layoutLoadedMsg:
		return m.handleLayoutLoaded(msg)
	case layoutsListedMsg:
		return m.handleLayoutsListed(msg)
	case layoutDeletedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("deleted layout %q", msg.name))
		return m, listLayoutsCmd(m.ctx, m.library)
	case sessionSavedMsg:
		if msg.err != nil {
			m.log.Warn("save session", "err", msg.err)
		}
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		switch m.scope() {
		case scopeEditing:
			return m.updateEditing(msg)
		case scopePrompt:
			return m.updatePrompt(msg)
		case scopePicker:
			return m.updatePicker(msg)
		default:
			return m.updatePanels(msg)
		}
	}
	return m, nil
}

func (m Model) isAction(scope string, action Action, msg tea.KeyMsg) bool {
	b := m.keys.Lookup(msg.String(), scope)
	return b != nil && b.Action == action
}

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m Model) updatePanels(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.keys.Lookup(msg.String(), scopePanels)
	if b == nil {
		return m, nil
	}
	switch b.Action {
	case actionQuit:
		return m, m.quit()
	case actionFocusNext:
		m.cycleFocus(1)
	case actionFocusPrev:
		m.cycleFocus(-1)
	case actionNextTab:
		m.cycleTab(1)
	case actionTabMenu:
		m.openTabMenu()
	case actionPrevTab:
		m.cycleTab(-1)
	case actionInteract:
		m.interact()
	case actionAddColor:
		m.addPanel(typeColor)
	case actionAddBoolean:
		m.addPanel(typeBoolean)
	case actionAddText:
		m.prompt = newPrompt(promptAddText, "New text panel", "")
	case actionDragNew:
		m.dropFromPalette()
	case actionClosePanel:
		m.closeFocused()
	case actionMaximise:
		m.toggleMaximise()
	case actionGrowWidth:
		m.resizeFocused(layout.TypeRow, resizeStep)
	case actionShrinkWidth:
		m.resizeFocused(layout.TypeRow, -resizeStep)
	case actionGrowHeight:
		m.resizeFocused(layout.TypeColumn, resizeStep)
	case actionShrinkHeight:
		m.resizeFocused(layout.TypeColumn, -resizeStep)
	case actionMoveLeft:
		m.moveFocused(layout.EdgeLeft)
	case actionMoveRight:
		m.moveFocused(layout.EdgeRight)
	case actionMoveUp:
		m.moveFocused(layout.EdgeTop)
	case actionMoveDown:
		m.moveFocused(layout.EdgeBottom)
	case actionSave:
		m.prompt = newPrompt(promptSaveAs, "Save layout as", m.layoutName)
	case actionOpen:
		return m, listLayoutsCmd(m.ctx, m.library)
	case actionReset:
		return m, loadLayoutCmd(m.ctx, m.library, m.defaultLayout)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopeEditing, actionConfirm, msg):
		m.editing.Commit()
		m.editing = nil
		m.setStatus("updated")
		return m, nil
	case m.isAction(scopeEditing, actionCancel, msg):
		m.editing.Abort()
		m.editing = nil
		return m, nil
	}
	return m, m.editing.UpdateEditing(msg)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopePrompt, actionCancel, msg):
		m.prompt = nil
		return m, nil
	case m.isAction(scopePrompt, actionConfirm, msg):
		p := m.prompt
		m.prompt = nil
		value := p.input.Value()
		switch p.kind {
		case promptSaveAs:
			rc, err := m.engine.SaveLayout()
			if err != nil {
				m.setError(err)
				return m, nil
			}
			return m, saveLayoutCmd(m.ctx, m.library, value, rc)
		case promptAddText:
			m.addText(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopePicker, actionCancel, msg):
		m.pickerOpen = false
		return m, nil
	case m.isAction(scopePicker, actionSelect, msg):
		item, ok := m.picker.SelectedItem().(layoutItem)
		m.pickerOpen = false
		if !ok {
			return m, nil
		}
		return m, loadLayoutCmd(m.ctx, m.library, item.name)
	case m.isAction(scopePicker, actionDelete, msg):
		item, ok := m.picker.SelectedItem().(layoutItem)
		if !ok {
			return m, nil
		}
		return m, deleteLayoutCmd(m.ctx, m.library, item.name)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Panel actions
// ---------------------------------------------------------------------------

func (m *Model) cycleFocus(step int) {
	root := m.engine.Root()
	if root == nil {
		return
	}
	leaves := root.Leaves()
	if len(leaves) == 0 {
		return
	}
	idx := 0
	for i, leaf := range leaves {
		if leaf == m.focus {
			idx = (i + step + len(leaves)) % len(leaves)
			break
		}
	}
	m.focusLeaf(leaves[idx])
}

// focusLeaf focuses leaf and brings its tab to the front.
func (m *Model) focusLeaf(leaf *layout.Node) {
	m.focus = leaf
	stack := leaf.Parent()
	if stack == nil || stack.Type() != layout.TypeStack || stack.ActiveChild() == leaf {
		return
	}
	if err := m.engine.SetActiveItem(stack, stack.IndexOf(leaf)); err != nil {
		m.setError(err)
	}
}

func (m *Model) cycleTab(step int) {
	if m.focus == nil {
		return
	}
	stack := m.focus.Parent()
	if stack == nil || stack.Type() != layout.TypeStack || stack.ChildCount() < 2 {
		return
	}
	n := stack.ChildCount()
	m.focusLeaf(stack.Children()[(stack.IndexOf(m.focus)+step+n)%n])
}

// openTabMenu picks the first tab the focused stack's header has no room
// for.
func (m *Model) openTabMenu() {
	if m.focus == nil {
		return
	}
	stack := headerOwner(m.focus)
	p, ok := m.engine.Frame().Placement(m.focus)
	if !ok || stack.Type() != layout.TypeStack {
		return
	}
	strip := layoutTabs(stack, p.Header, m.engine.Settings())
	if len(strip.hidden) == 0 {
		m.setStatus("all tabs are showing")
		return
	}
	m.pickHiddenTab(stack, strip.hidden)
}

// pickHiddenTab activates the first hidden tab, moving it to the front of
// the stack when the layout asks for that.
func (m *Model) pickHiddenTab(stack *layout.Node, hidden []*layout.Node) {
	if len(hidden) == 0 {
		return
	}
	tab := hidden[0]
	if m.engine.Settings().ReorderOnTabMenuClick {
		if err := m.engine.ReorderTab(stack, stack.IndexOf(tab), 0); err != nil {
			m.setError(err)
			return
		}
	}
	m.focusLeaf(tab)
}

func (m *Model) focusedPanel() (panel, bool) {
	if m.focus == nil {
		return nil, false
	}
	c, ok := m.engine.Container(m.focus)
	if !ok {
		return nil, false
	}
	p, ok := c.Component().(panel)
	return p, ok
}

func (m *Model) interact() {
	p, ok := m.focusedPanel()
	if !ok {
		return
	}
	if p.Interact() {
		if ed, ok := p.(editor); ok {
			m.editing = ed
		}
	}
}

func (m *Model) addPanel(componentType string) {
	var target *layout.Node
	if m.focus != nil {
		target = headerOwner(m.focus)
	}
	leaf, err := m.engine.AddComponentAt(layout.Component(componentType, nil), target, layout.EdgeCenter)
	if leaf != nil {
		m.focusLeaf(leaf)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("added %s panel", componentType))
}

// addText creates a text panel and seeds it before the first render.
func (m *Model) addText(value string) {
	c, err := m.engine.NewComponent(typeText)
	if c != nil {
		m.focusLeaf(c.Item())
		if tp, ok := c.Component().(*textPanel); ok && value != "" {
			tp.SetInitialValue(value)
		}
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("added text panel")
}

// dropFromPalette runs a whole drag-source gesture from the header bar to
// the middle of the focused panel.
func (m *Model) dropFromPalette() {
	start, _ := paletteSpan()
	g, err := m.engine.StartDrag(m.palette, start, -1)
	if err != nil {
		m.setError(err)
		return
	}
	x, y := 0, 0
	if m.focus != nil {
		if p, ok := m.engine.Frame().Placement(m.focus); ok {
			x, y = p.Content.Left+p.Content.Width/2, p.Content.Top+p.Content.Height/2
		}
	}
	if err := g.Drop(x, y); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("dropped new panel")
	m.ensureFocus()
}

func (m *Model) closeFocused() {
	if m.focus == nil {
		return
	}
	if !m.focus.IsClosable() {
		m.setStatus("panel is pinned")
		return
	}
	if err := m.engine.RemoveComponent(m.focus); err != nil {
		m.setError(err)
	}
	m.focus = nil
	m.ensureFocus()
}

func (m *Model) toggleMaximise() {
	if m.focus == nil {
		return
	}
	owner := headerOwner(m.focus)
	if owner.Type() != layout.TypeStack {
		m.setStatus("only tabbed panels can be maximised")
		return
	}
	on, err := m.engine.ToggleMaximise(owner)
	if err != nil {
		m.setError(err)
		return
	}
	if on {
		m.setStatus("maximised")
	} else {
		m.setStatus("restored")
	}
}

// resizeFocused moves the nearest splitter of the focused panel along axis.
// Positive delta grows the panel.
func (m *Model) resizeFocused(axis layout.ItemType, delta int) {
	if m.focus == nil {
		return
	}
	child := m.focus
	for parent := child.Parent(); parent != nil; child, parent = parent, parent.Parent() {
		if parent.Type() != axis || parent.ChildCount() < 2 {
			continue
		}
		idx := parent.IndexOf(child)
		splitter, move := idx, delta
		if idx == parent.ChildCount()-1 {
			splitter, move = idx-1, -delta
		}
		g, err := m.engine.BeginSplitterDrag(parent, splitter)
		if err != nil {
			m.setError(err)
			return
		}
		applied, err := g.Move(move)
		if err != nil {
			_ = g.Cancel()
			m.setError(err)
			return
		}
		if err := g.End(); err != nil {
			m.setError(err)
			return
		}
		if applied == 0 {
			m.setStatus("size limit reached")
		}
		return
	}
	m.setStatus("nothing to resize")
}

// moveFocused drags the focused panel to the given side of the layout.
func (m *Model) moveFocused(edge layout.Edge) {
	if m.focus == nil {
		return
	}
	frame := m.engine.Frame()
	vp := frame.Viewport
	probeX, probeY := vp.Width/2, vp.Height/2
	switch edge {
	case layout.EdgeLeft:
		probeX = 0
	case layout.EdgeRight:
		probeX = vp.Width - 1
	case layout.EdgeTop:
		probeY = 0
	case layout.EdgeBottom:
		probeY = vp.Height - 1
	}
	target, ok := frame.LeafAt(probeX, probeY)
	if !ok {
		m.setStatus("nowhere to move")
		return
	}
	p, _ := frame.Placement(target)
	x, y := dropPoint(p.Content, edge)

	own, _ := frame.Placement(m.focus)
	d, err := m.engine.BeginItemDrag(m.focus, own.Content.Left, own.Content.Top)
	if err != nil {
		m.setError(err)
		return
	}
	if err := d.Drop(x, y); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("moved %s", edge))
}

// dropPoint is the cell on the given edge of r that resolves to that edge.
func dropPoint(r resize.Rect, edge layout.Edge) (int, int) {
	midX, midY := r.Left+r.Width/2, r.Top+r.Height/2
	switch edge {
	case layout.EdgeLeft:
		return r.Left, midY
	case layout.EdgeRight:
		return r.Right() - 1, midY
	case layout.EdgeTop:
		return midX, r.Top
	case layout.EdgeBottom:
		return midX, r.Bottom() - 1
	}
	return midX, midY
}

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.scope() != scopePanels {
		return m, nil
	}
	x, y := msg.X, msg.Y-1
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(x, y)
		}
	case tea.MouseActionMotion:
		m.motion(x, y)
	case tea.MouseActionRelease:
		m.release(x, y)
	}
	return m, nil
}

func (m *Model) press(x, y int) {
	m.cancelDrag()
	if y == -1 {
		if start, end := paletteSpan(); x >= start && x < end {
			g, err := m.engine.StartDrag(m.palette, x, y)
			if err != nil {
				m.setError(err)
				return
			}
			m.drag = &mouseDrag{source: g, startX: x, startY: y}
		}
		return
	}
	frame := m.engine.Frame()
	if s, ok := frame.SplitterAt(x, y); ok {
		g, err := m.engine.BeginSplitterDrag(s.Container, s.Index)
		if err != nil {
			m.setError(err)
			return
		}
		m.drag = &mouseDrag{splitter: g, vertical: s.Container.Type() == layout.TypeColumn, startX: x, startY: y}
		return
	}
	settings := m.engine.Settings()
	if stack, hidden, ok := tabMenuAt(frame, settings, x, y); ok {
		m.pickHiddenTab(stack, hidden)
		return
	}
	if tab, ok := tabAt(frame, settings, x, y); ok {
		m.focusLeaf(tab)
		d, err := m.engine.BeginItemDrag(tab, x, y)
		if err != nil {
			m.setError(err)
			return
		}
		m.drag = &mouseDrag{item: d, startX: x, startY: y}
		return
	}
	if leaf, ok := frame.LeafAt(x, y); ok {
		m.focusLeaf(leaf)
	}
}

func (m *Model) motion(x, y int) {
	d := m.drag
	if d == nil {
		return
	}
	if x != d.startX || y != d.startY {
		d.moved = true
	}
	var err error
	switch {
	case d.splitter != nil:
		delta := x - d.startX
		if d.vertical {
			delta = y - d.startY
		}
		_, err = d.splitter.Move(delta)
	case d.item != nil:
		err = d.item.Move(x, y)
	case d.source != nil:
		err = d.source.Move(x, y)
	}
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) release(x, y int) {
	d := m.drag
	if d == nil {
		return
	}
	m.drag = nil
	var err error
	switch {
	case d.splitter != nil:
		err = d.splitter.End()
	case d.item != nil && !d.moved:
		err = d.item.Cancel()
	case d.item != nil:
		err = d.item.Drop(x, y)
	case d.source != nil:
		err = d.source.Drop(x, y)
	}
	var target *dragsource.DragTargetError
	switch {
	case errors.As(err, &target):
		m.setStatus("dropped outside the layout")
	case err != nil:
		m.setError(err)
	}
	m.ensureFocus()
}

func (m *Model) cancelDrag() {
	d := m.drag
	if d == nil {
		return
	}
	m.drag = nil
	switch {
	case d.splitter != nil:
		_ = d.splitter.Cancel()
	case d.item != nil:
		_ = d.item.Cancel()
	case d.source != nil:
		_ = d.source.Cancel()
	}
}

// ---------------------------------------------------------------------------
// Library commands
// ---------------------------------------------------------------------------

func (m Model) handleLayoutLoaded(msg layoutLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	if err := m.engine.LoadLayout(msg.cfg); err != nil {
		m.setError(err)
	} else {
		m.setStatus(fmt.Sprintf("opened layout %q", msg.name))
	}
	m.layoutName = msg.name
	m.focus = nil
	m.ensureFocus()
	return m, nil
}

func (m Model) handleLayoutsListed(msg layoutsListedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	items := make([]list.Item, 0, len(msg.names))
	selected := 0
	for i, name := range msg.names {
		items = append(items, layoutItem{name: name})
		if name == m.layoutName {
			selected = i
		}
	}
	cmd := m.picker.SetItems(items)
	m.picker.Select(selected)
	m.pickerOpen = true
	return m, cmd
}

// quit stores the session, when enabled, and exits.
func (m Model) quit() tea.Cmd {
	if !m.saveSession {
		return tea.Quit
	}
	rc, err := m.engine.SaveLayout()
	if err != nil {
		m.log.Warn("save layout on quit", "err", err)
		return tea.Quit
	}
	s := prefs.Session{Name: m.layoutName, Layout: rc, SavedAt: time.Now().UTC()}
	return tea.Sequence(func() tea.Msg {
		return sessionSavedMsg{err: prefs.SaveSession(s)}
	}, tea.Quit)
}

func saveLayoutCmd(ctx context.Context, lib *service.LayoutLibrary, name string, rc layout.ResolvedConfig) tea.Cmd {
	return func() tea.Msg {
		saved, err := lib.Save(ctx, name, rc)
		return layoutSavedMsg{name: saved.Name, err: err}
	}
}

func loadLayoutCmd(ctx context.Context, lib *service.LayoutLibrary, name string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := lib.Load(ctx, name)
		return layoutLoadedMsg{name: name, cfg: cfg, err: err}
	}
}

func listLayoutsCmd(ctx context.Context, lib *service.LayoutLibrary) tea.Cmd {
	return func() tea.Msg {
		names, err := lib.Names(ctx)
		return layoutsListedMsg{names: names, err: err}
	}
}

func deleteLayoutCmd(ctx context.Context, lib *service.LayoutLibrary, name string) tea.Cmd {
	return func() tea.Msg {
		return layoutDeletedMsg{name: name, err: lib.Delete(ctx, name)}
	}
}
