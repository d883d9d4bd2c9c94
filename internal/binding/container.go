// Package binding is the contract between the layout engine and whoever owns
// panel content. The engine creates one Container per component item and
// asks the Host to fill it; afterwards it only pushes geometry, visibility
// and stacking order through the container's handlers.
package binding

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

type State int

const (
	StateUnbound State = iota
	StateBound
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateBound:
		return "bound"
	case StateReleased:
		return "released"
	default:
		return "unbound"
	}
}

type (
	StateRequestHandler      func(c *Container) json.RawMessage
	VirtualRectingHandler    func(c *Container, width, height int)
	VirtualVisibilityHandler func(c *Container, visible bool)
	VirtualZIndexHandler     func(c *Container, logical resize.LogicalZIndex, defaultZ string)
)

// Container is the engine-side handle for one component item. It is created
// for exactly one item and never reused.
type Container struct {
	id        string
	item      *layout.Node
	state     State
	err       error
	component any
	virtual   bool

	rect         resize.Rect
	visible      bool
	visibleKnown bool
	zIndex       resize.LogicalZIndex
	zKnown       bool

	onState      StateRequestHandler
	onRecting    VirtualRectingHandler
	onVisibility VirtualVisibilityHandler
	onZIndex     VirtualZIndexHandler
}

func newContainer(item *layout.Node) *Container {
	return &Container{id: uuid.NewString(), item: item}
}

func (c *Container) ID() string            { return c.id }
func (c *Container) Item() *layout.Node    { return c.item }
func (c *Container) ComponentType() string { return c.item.ComponentType() }
func (c *Container) Title() string         { return c.item.Title() }
func (c *Container) State() State          { return c.state }

// Err is the bind failure, if any, that left the container empty.
func (c *Container) Err() error { return c.err }

// Component is whatever the host returned from BindComponent.
func (c *Container) Component() any { return c.component }
func (c *Container) Virtual() bool  { return c.virtual }

// Rect is the content rect from the last geometry pass.
func (c *Container) Rect() resize.Rect             { return c.rect }
func (c *Container) Visible() bool                 { return c.visible }
func (c *Container) ZIndex() resize.LogicalZIndex  { return c.zIndex }
func (c *Container) InitialState() json.RawMessage { return c.item.ComponentState() }

// DecodeInitialState unmarshals the item's initial state into v. It reports
// false when the item has no state.
func (c *Container) DecodeInitialState(v any) (bool, error) {
	return layout.ParseItemState(c.item.Resolved(), v)
}

// SetStateRequestHandler installs the hook save uses to pull live state.
// Returning nil means the content has no state to keep.
func (c *Container) SetStateRequestHandler(h StateRequestHandler) { c.onState = h }

func (c *Container) SetVirtualRectingHandler(h VirtualRectingHandler) { c.onRecting = h }

func (c *Container) SetVirtualVisibilityHandler(h VirtualVisibilityHandler) { c.onVisibility = h }

func (c *Container) SetVirtualZIndexHandler(h VirtualZIndexHandler) { c.onZIndex = h }

// requestState pulls live state, falling back to the initial state when the
// content never installed a handler.
func (c *Container) requestState() json.RawMessage {
	if c.state == StateBound && c.onState != nil {
		return c.onState(c)
	}
	return c.item.ComponentState()
}

func (c *Container) release() {
	c.state = StateReleased
	c.component = nil
	c.onState = nil
	c.onRecting = nil
	c.onVisibility = nil
	c.onZIndex = nil
}
