package binding

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

var errNoComponent = errors.New("host returned no component")

// Binder tracks the container of every live component item.
type Binder struct {
	host          Host
	log           *slog.Logger
	containers    map[*layout.Node]*Container
	beforeRecting func(count int)
}

func NewBinder(host Host, log *slog.Logger) *Binder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Binder{host: host, log: log, containers: make(map[*layout.Node]*Container)}
}

// SetBeforeVirtualRecting installs a hook that runs once per geometry pass,
// before any recting event, with the number of events about to fire.
func (b *Binder) SetBeforeVirtualRecting(fn func(count int)) { b.beforeRecting = fn }

// Bind creates the item's container and asks the host for content. On
// failure the container is kept, empty, and the error is a *BindError.
func (b *Binder) Bind(leaf *layout.Node) (*Container, error) {
	if leaf == nil || !leaf.IsLeaf() {
		return nil, fmt.Errorf("bind: only component items have containers")
	}
	if c, ok := b.containers[leaf]; ok {
		return c, fmt.Errorf("bind %s: item already has container %s", leaf.ComponentType(), c.id)
	}
	c := newContainer(leaf)
	b.containers[leaf] = c

	bound, err := b.callBind(c, leaf.Resolved())
	if err == nil && bound.Component == nil {
		err = errNoComponent
	}
	if err != nil {
		c.err = &BindError{ComponentType: leaf.ComponentType(), ContainerID: c.id, Err: err}
		b.log.Warn("bind failed", "component_type", leaf.ComponentType(), "container", c.id, "err", err)
		return c, c.err
	}
	c.state = StateBound
	c.component = bound.Component
	c.virtual = bound.Virtual
	b.log.Debug("bound", "component_type", leaf.ComponentType(), "container", c.id, "virtual", bound.Virtual)
	return c, nil
}

func (b *Binder) callBind(c *Container, item layout.ResolvedItem) (bound BoundComponent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host panicked: %v", r)
		}
	}()
	return b.host.BindComponent(c, item)
}

// Unbind releases the item's container. The host is called only for
// containers it successfully bound.
func (b *Binder) Unbind(leaf *layout.Node) error {
	c, ok := b.containers[leaf]
	if !ok {
		name := ""
		if leaf != nil {
			name = leaf.ComponentType()
		}
		return &UnbindError{ComponentType: name, Reason: "unknown container"}
	}
	delete(b.containers, leaf)
	if c.state != StateBound {
		c.release()
		return nil
	}
	err := b.callUnbind(c)
	c.release()
	if err != nil {
		b.log.Warn("unbind failed", "component_type", leaf.ComponentType(), "container", c.id, "err", err)
		return &UnbindError{ComponentType: leaf.ComponentType(), Reason: "host failed", Err: err}
	}
	b.log.Debug("unbound", "component_type", leaf.ComponentType(), "container", c.id)
	return nil
}

func (b *Binder) callUnbind(c *Container) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host panicked: %v", r)
		}
	}()
	return b.host.UnbindComponent(c)
}

func (b *Binder) Container(leaf *layout.Node) (*Container, bool) {
	c, ok := b.containers[leaf]
	return c, ok
}

func (b *Binder) Len() int { return len(b.containers) }

// State returns the live state of an item for saving.
func (b *Binder) State(leaf *layout.Node) json.RawMessage {
	if c, ok := b.containers[leaf]; ok {
		return c.requestState()
	}
	return leaf.ComponentState()
}

// Apply pushes a geometry pass to the containers. Visibility and z-index
// events fire only when the value changed; recting fires for every visible
// virtual container.
func (b *Binder) Apply(frame *resize.Frame) {
	var recting []*Container
	for _, leaf := range frame.Leaves() {
		c, ok := b.containers[leaf]
		if !ok || c.state != StateBound {
			continue
		}
		p, _ := frame.Placement(leaf)
		c.rect = p.Content

		if !c.visibleKnown || c.visible != p.Visible {
			c.visible, c.visibleKnown = p.Visible, true
			if c.virtual && c.onVisibility != nil {
				c.onVisibility(c, p.Visible)
			}
		}
		if !c.zKnown || c.zIndex != p.ZIndex {
			c.zIndex, c.zKnown = p.ZIndex, true
			if c.virtual && c.onZIndex != nil {
				c.onZIndex(c, p.ZIndex, p.ZIndex.Default())
			}
		}
		if c.virtual && p.Visible {
			recting = append(recting, c)
		}
	}
	if len(recting) == 0 {
		return
	}
	if b.beforeRecting != nil {
		b.beforeRecting(len(recting))
	}
	for _, c := range recting {
		if c.onRecting != nil {
			c.onRecting(c, c.rect.Width, c.rect.Height)
		}
	}
}
