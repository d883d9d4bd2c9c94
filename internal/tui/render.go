package tui

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/dockyard/internal/binding"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 1)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true)

	focusedTabStyle = activeTabStyle.Foreground(colorFocus)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle)

	tabStripStyle = lipgloss.NewStyle().Background(colorMantle)

	tabMenuStyle = lipgloss.NewStyle().Foreground(colorAccent).Background(colorMantle)

	splitterStyle = lipgloss.NewStyle().Foreground(colorSurface1)

	dropHintStyle = lipgloss.NewStyle().Foreground(colorBase).Background(colorInfo)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1)

	statusErrStyle = statusBarStyle.Foreground(colorError)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().Foreground(colorError)
	emptyStyle     = lipgloss.NewStyle().Foreground(colorOverlay0)
)

// ---------------------------------------------------------------------------
// Tab strips
// ---------------------------------------------------------------------------

// tabSpan is the run of header cells that belongs to one tab, measured
// along the header.
type tabSpan struct {
	item  *layout.Node
	start int
	end   int
}

// headerOwner returns the node whose header leaf shows in: its stack, or
// the leaf itself.
func headerOwner(leaf *layout.Node) *layout.Node {
	if p := leaf.Parent(); p != nil && p.Type() == layout.TypeStack {
		return p
	}
	return leaf
}

func ownerTabs(owner *layout.Node) []*layout.Node {
	if owner.Type() == layout.TypeStack {
		return owner.Children()
	}
	return []*layout.Node{owner}
}

func ownerSide(owner *layout.Node) layout.HeaderSide {
	if owner.Type() == layout.TypeStack {
		if active := owner.ActiveChild(); active != nil {
			return active.Header().Show
		}
		return layout.SideTop
	}
	return owner.Header().Show
}

func horizontal(side layout.HeaderSide) bool {
	return side == layout.SideTop || side == layout.SideBottom
}

func tabLabel(n *layout.Node) string {
	title := n.Title()
	if title == "" {
		title = n.ComponentType()
	}
	return " " + title + " "
}

// minTabWidth is how narrow overlap may squeeze an inactive tab.
const minTabWidth = 3

// tabStrip is one header's tabs as laid out along it. Tabs that do not fit
// sit behind a "+N" menu at the end of the strip.
type tabStrip struct {
	spans  []tabSpan
	hidden []*layout.Node
	menu   tabSpan
}

func (s tabStrip) at(offset int) (tabSpan, bool) {
	for _, span := range s.spans {
		if offset >= span.start && offset < span.end {
			return span, true
		}
	}
	return tabSpan{}, false
}

func (s tabStrip) inMenu(offset int) bool {
	return len(s.hidden) > 0 && offset >= s.menu.start && offset < s.menu.end
}

// layoutTabs lays tabs out along the header. Vertical strips give each tab
// one row. Horizontal strips give each tab its label width plus a one-cell
// separator; when that is too wide, inactive tabs first shrink by up to
// TabOverlapAllowance cells in total, and past that the tail of the strip
// moves into a menu TabControlOffset cells wide. The active tab always
// stays in the strip.
func layoutTabs(owner *layout.Node, header resize.Rect, settings layout.Settings) tabStrip {
	tabs := ownerTabs(owner)
	if !horizontal(ownerSide(owner)) {
		var strip tabStrip
		for i, tab := range tabs {
			if i >= header.Height {
				break
			}
			strip.spans = append(strip.spans, tabSpan{item: tab, start: i, end: i + 1})
		}
		return strip
	}

	active := activeTab(owner)
	widths := make([]int, len(tabs))
	total := len(tabs) - 1
	for i, tab := range tabs {
		widths[i] = ansi.StringWidth(tabLabel(tab))
		total += widths[i]
	}
	if total <= header.Width {
		return tabsInRow(tabs, widths, header.Width)
	}
	if squeezed, ok := squeezeTabs(tabs, widths, active, total-header.Width, int(settings.TabOverlapAllowance)); ok {
		return tabsInRow(tabs, squeezed, header.Width)
	}

	control := max(minTabWidth, int(math.Round(settings.TabControlOffset)))
	avail := header.Width - control
	if avail <= 0 {
		return tabsInRow(tabs, widths, header.Width)
	}
	visible := make([]int, 0, len(tabs))
	pos := 0
	for i, w := range widths {
		if pos+w > avail {
			break
		}
		visible = append(visible, i)
		pos += w + 1
	}
	if ai := slices.Index(tabs, active); ai >= 0 && !slices.Contains(visible, ai) {
		for len(visible) > 0 && rowWidth(widths, visible)+1+widths[ai] > avail {
			visible = visible[:len(visible)-1]
		}
		visible = append(visible, ai)
	}
	if len(visible) == len(tabs) {
		return tabsInRow(tabs, widths, header.Width)
	}

	var strip tabStrip
	pos = 0
	for _, i := range visible {
		strip.spans = append(strip.spans, tabSpan{item: tabs[i], start: pos, end: min(pos+widths[i], avail)})
		pos += widths[i] + 1
	}
	for i, tab := range tabs {
		if !slices.Contains(visible, i) {
			strip.hidden = append(strip.hidden, tab)
		}
	}
	strip.menu = tabSpan{start: avail, end: header.Width}
	return strip
}

func tabsInRow(tabs []*layout.Node, widths []int, width int) tabStrip {
	var strip tabStrip
	pos := 0
	for i, tab := range tabs {
		if pos >= width {
			break
		}
		strip.spans = append(strip.spans, tabSpan{item: tab, start: pos, end: min(pos+widths[i], width)})
		pos += widths[i] + 1
	}
	return strip
}

// squeezeTabs takes excess cells off the inactive tabs, one cell at a time
// from the last tab backwards. It fails when the allowance or the tabs run
// out first.
func squeezeTabs(tabs []*layout.Node, widths []int, active *layout.Node, excess, allowance int) ([]int, bool) {
	if excess > allowance {
		return nil, false
	}
	out := slices.Clone(widths)
	for excess > 0 {
		shrunk := false
		for i := len(out) - 1; i >= 0 && excess > 0; i-- {
			if tabs[i] == active || out[i] <= minTabWidth {
				continue
			}
			out[i]--
			excess--
			shrunk = true
		}
		if !shrunk {
			return nil, false
		}
	}
	return out, true
}

func rowWidth(widths []int, idx []int) int {
	if len(idx) == 0 {
		return -1
	}
	total := len(idx) - 1
	for _, i := range idx {
		total += widths[i]
	}
	return total
}

func activeTab(owner *layout.Node) *layout.Node {
	if owner.Type() == layout.TypeStack {
		return owner.ActiveChild()
	}
	return owner
}

// headerAt resolves a cell to the header strip it falls in, and the offset
// of the cell along that strip.
func headerAt(frame *resize.Frame, settings layout.Settings, x, y int) (*layout.Node, tabStrip, int, bool) {
	if frame == nil {
		return nil, tabStrip{}, 0, false
	}
	leaf, ok := frame.LeafAt(x, y)
	if !ok {
		return nil, tabStrip{}, 0, false
	}
	p, _ := frame.Placement(leaf)
	if !p.Header.Contains(x, y) {
		return nil, tabStrip{}, 0, false
	}
	owner := headerOwner(leaf)
	offset := x - p.Header.Left
	if !horizontal(ownerSide(owner)) {
		offset = y - p.Header.Top
	}
	return owner, layoutTabs(owner, p.Header, settings), offset, true
}

// tabAt resolves a header cell to the tab under it.
func tabAt(frame *resize.Frame, settings layout.Settings, x, y int) (*layout.Node, bool) {
	_, strip, offset, ok := headerAt(frame, settings, x, y)
	if !ok {
		return nil, false
	}
	span, ok := strip.at(offset)
	return span.item, ok
}

// tabMenuAt reports the stack whose tab menu is under a cell, with the
// tabs the menu holds.
func tabMenuAt(frame *resize.Frame, settings layout.Settings, x, y int) (*layout.Node, []*layout.Node, bool) {
	owner, strip, offset, ok := headerAt(frame, settings, x, y)
	if !ok || !strip.inMenu(offset) {
		return nil, nil, false
	}
	return owner, strip.hidden, true
}

func renderTabs(owner *layout.Node, header resize.Rect, focus *layout.Node, settings layout.Settings) string {
	active := activeTab(owner)
	styleFor := func(tab *layout.Node) lipgloss.Style {
		switch {
		case tab == active && tab == focus:
			return focusedTabStyle
		case tab == active:
			return activeTabStyle
		default:
			return inactiveTabStyle
		}
	}
	strip := layoutTabs(owner, header, settings)
	if !horizontal(ownerSide(owner)) {
		lines := make([]string, header.Height)
		for i := range lines {
			lines[i] = tabStripStyle.Render(strings.Repeat(" ", header.Width))
		}
		for _, s := range strip.spans {
			initial := strings.TrimSpace(tabLabel(s.item))
			if initial != "" {
				initial = ansi.Truncate(initial, 1, "")
			}
			lines[s.start] = styleFor(s.item).Render(padRight(initial, header.Width))
		}
		return strings.Join(lines, "\n")
	}
	sep := tabStripStyle.Foreground(colorOverlay0).Render("│")
	parts := make([]string, 0, len(strip.spans))
	for _, s := range strip.spans {
		parts = append(parts, styleFor(s.item).Render(truncate(tabLabel(s.item), s.end-s.start)))
	}
	width := header.Width
	if len(strip.hidden) > 0 {
		width = strip.menu.start
	}
	line := ansi.Truncate(strings.Join(parts, sep), width, "")
	if w := ansi.StringWidth(line); w < width {
		line += tabStripStyle.Render(strings.Repeat(" ", width-w))
	}
	if len(strip.hidden) > 0 {
		menu := fmt.Sprintf("+%d", len(strip.hidden))
		line += tabMenuStyle.Render(padLeft(truncate(menu, strip.menu.end-strip.menu.start), strip.menu.end-strip.menu.start))
	}
	if header.Height <= 1 {
		return line
	}
	filler := tabStripStyle.Render(strings.Repeat(" ", header.Width))
	lines := []string{line}
	for len(lines) < header.Height {
		lines = append(lines, filler)
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Layout body
// ---------------------------------------------------------------------------

// containerLookup finds the binding for a leaf.
type containerLookup func(*layout.Node) (*binding.Container, bool)

func zRank(z resize.LogicalZIndex) int {
	switch z {
	case resize.ZDrag:
		return 1
	case resize.ZStackMaximised:
		return 2
	default:
		return 0
	}
}

// renderFrame draws every visible panel of frame into a width x height
// grid. Panels are painted lowest z-index first.
func renderFrame(frame *resize.Frame, lookup containerLookup, focus *layout.Node, settings layout.Settings, width, height int) string {
	out := blank(width, height)
	if frame == nil || width <= 0 || height <= 0 {
		return out
	}
	leaves := frame.Leaves()
	if len(leaves) == 0 {
		msg := emptyStyle.Render("empty layout: add a panel with c, t or b")
		return overlayAt(out, msg, max(0, (width-ansi.StringWidth(msg))/2), height/2, width, height)
	}

	for _, s := range frame.Splitters {
		glyph := "│"
		if s.Container.Type() == layout.TypeColumn {
			glyph = "─"
		}
		out = overlayAt(out, splitterStyle.Render(fill(glyph, s.Rect.Width, s.Rect.Height)), s.Rect.Left, s.Rect.Top, width, height)
	}

	visible := make([]*layout.Node, 0, len(leaves))
	for _, leaf := range leaves {
		if p, _ := frame.Placement(leaf); p.Visible {
			visible = append(visible, leaf)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		pi, _ := frame.Placement(visible[i])
		pj, _ := frame.Placement(visible[j])
		return zRank(pi.ZIndex) < zRank(pj.ZIndex)
	})

	for _, leaf := range visible {
		p, _ := frame.Placement(leaf)
		if !p.Header.Empty() {
			out = overlayAt(out, renderTabs(headerOwner(leaf), p.Header, focus, settings), p.Header.Left, p.Header.Top, width, height)
		}
		if p.Content.Empty() {
			continue
		}
		body := panelBody(lookup, leaf, p.Content, leaf == focus)
		out = overlayAt(out, fitBlock(body, p.Content.Width, p.Content.Height), p.Content.Left, p.Content.Top, width, height)
	}
	return out
}

func panelBody(lookup containerLookup, leaf *layout.Node, r resize.Rect, focused bool) string {
	c, ok := lookup(leaf)
	if !ok {
		return errorTextStyle.Render("unbound")
	}
	if err := c.Err(); err != nil {
		return errorTextStyle.Render(err.Error())
	}
	p, ok := c.Component().(panel)
	if !ok {
		return errorTextStyle.Render("no content")
	}
	return p.View(r.Width, r.Height, focused)
}

func fill(glyph string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(glyph, width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func renderFooter(bindings []key.Binding, width int) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if width <= 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(width).Render(ansi.Truncate(content, max(1, width-2), "…"))
}

func renderStatus(text string, isErr bool, width int) string {
	style := statusBarStyle
	if isErr {
		style = statusErrStyle
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	if width <= 0 {
		return style.Render(flat)
	}
	return style.Width(width).Render(truncate(flat, max(1, width-2)))
}

// centerModal draws content in a bordered box over the middle of base.
func centerModal(base, content string, width, height int) string {
	modal := modalStyle.Render(content)
	lines := splitLines(modal)
	x := max(0, (width-maxLineWidth(lines))/2)
	y := max(0, (height-len(lines))/2)
	return overlayAt(base, modal, x, y, width, height)
}
