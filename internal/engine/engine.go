// Package engine is the layout engine facade. It owns the tree, keeps
// geometry current and pairs every component item with exactly one bind and
// one unbind on the host.
//
// An Engine is not safe for concurrent use. Every operation runs to
// completion before it returns; calling back into the engine from a host
// callback fails with *ReentrancyError.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/dockyard/internal/binding"
	"github.com/jask/dockyard/internal/dragsource"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/resize"
)

type Engine struct {
	host     binding.Host
	registry *Registry
	log      *slog.Logger
	defaults layout.Defaults
	before   func(count int)

	tree     *layout.Tree
	resizer  *resize.Resizer
	binder   *binding.Binder
	drags    *dragsource.Manager
	viewport resize.Rect
	frame    *resize.Frame

	busy      string
	destroyed bool
}

type Option func(*Engine)

// WithRegistry checks component types against r at load time. With a nil
// host, r also builds the content.
func WithRegistry(r *Registry) Option { return func(e *Engine) { e.registry = r } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithDefaults sets the settings and dimensions used where a loaded config
// leaves them out.
func WithDefaults(d layout.Defaults) Option { return func(e *Engine) { e.defaults = d } }

// WithBeforeVirtualRecting runs fn once per geometry pass before the recting
// events of virtual containers.
func WithBeforeVirtualRecting(fn func(count int)) Option {
	return func(e *Engine) { e.before = fn }
}

func New(host binding.Host, opts ...Option) (*Engine, error) {
	e := &Engine{host: host, defaults: layout.DefaultDefaults()}
	for _, opt := range opts {
		opt(e)
	}
	if e.host == nil {
		if e.registry == nil {
			return nil, fmt.Errorf("new engine: a host or a registry is required")
		}
		e.host = RegistryHost(e.registry)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	e.log = e.log.With("component", "engine")

	e.tree = layout.NewTree(e.defaults)
	e.resizer = resize.New(e.log)
	e.binder = binding.NewBinder(e.host, e.log)
	e.binder.SetBeforeVirtualRecting(e.before)
	sink := dropSink{e}
	e.drags = dragsource.NewManager(sink, sink, e.log)
	e.frame = e.resizer.Compute(e.tree, e.viewport)
	return e, nil
}

// enter marks op as running. The returned func must be deferred.
func (e *Engine) enter(op string) (func(), error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	if e.busy != "" {
		return nil, &ReentrancyError{Op: op, Active: e.busy}
	}
	e.busy = op
	return func() { e.busy = "" }, nil
}

func (e *Engine) Root() *layout.Node        { return e.tree.Root() }
func (e *Engine) Settings() layout.Settings { return e.tree.Settings() }

// Frame is the geometry from the last layout pass.
func (e *Engine) Frame() *resize.Frame { return e.frame }

// Container returns the binding handle of a component item.
func (e *Engine) Container(item *layout.Node) (*binding.Container, bool) {
	return e.binder.Container(item)
}

// Maximised returns the maximised stack, if any.
func (e *Engine) Maximised() *layout.Node { return e.resizer.Maximised() }

// LoadLayout replaces the layout. A *layout.ConfigError leaves the current
// layout untouched. Otherwise the old items are unbound, the new ones bound,
// and any *binding.BindError is returned joined while the new layout stays.
func (e *Engine) LoadLayout(cfg layout.Config) error {
	done, err := e.enter("load")
	if err != nil {
		return err
	}
	defer done()

	var types layout.TypeChecker
	if e.registry != nil {
		types = e.registry
	}
	tree, err := layout.Resolve(cfg, e.defaults, types)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}

	errs := e.unbindAll()
	e.tree = tree
	e.resizer.Reset()
	for _, leaf := range tree.Leaves() {
		if _, err := e.binder.Bind(leaf); err != nil {
			errs = append(errs, err)
		}
	}
	e.relayout()
	e.log.Debug("layout loaded", "leaves", len(tree.Leaves()), "errors", len(errs))
	return errors.Join(errs...)
}

// SaveLayout snapshots the layout, pulling live state from every bound
// container.
func (e *Engine) SaveLayout() (layout.ResolvedConfig, error) {
	done, err := e.enter("save")
	if err != nil {
		return layout.ResolvedConfig{}, err
	}
	defer done()

	var errs []error
	rc := e.tree.Save(func(n *layout.Node) json.RawMessage {
		state := e.binder.State(n)
		if len(state) > 0 && !json.Valid(state) {
			errs = append(errs, fmt.Errorf("save %s: state is not valid JSON", n.ComponentType()))
			return nil
		}
		return state
	})
	if len(errs) > 0 {
		return layout.ResolvedConfig{}, errors.Join(errs...)
	}
	return rc, nil
}

// AddComponent adds an item of the given type wherever the layout puts new
// items by default.
func (e *Engine) AddComponent(componentType string, state json.RawMessage) (*layout.Node, error) {
	return e.AddComponentAt(layout.Component(componentType, state), nil, layout.EdgeCenter)
}

// AddComponentAt inserts item relative to target. A nil target uses the
// default placement. A bind failure returns the new node together with the
// *binding.BindError.
func (e *Engine) AddComponentAt(item layout.ItemConfig, target *layout.Node, edge layout.Edge) (*layout.Node, error) {
	done, err := e.enter("add")
	if err != nil {
		return nil, err
	}
	defer done()
	return e.insert(item, target, edge)
}

// NewComponent adds an item without state and returns its container so the
// caller can seed the content.
func (e *Engine) NewComponent(componentType string) (*binding.Container, error) {
	leaf, err := e.AddComponent(componentType, nil)
	if leaf == nil {
		return nil, err
	}
	c, _ := e.binder.Container(leaf)
	return c, err
}

func (e *Engine) insert(item layout.ItemConfig, target *layout.Node, edge layout.Edge) (*layout.Node, error) {
	var types layout.TypeChecker
	if e.registry != nil {
		types = e.registry
	}
	leaf, err := layout.ResolveItem(item, types)
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	if !leaf.IsLeaf() {
		return nil, fmt.Errorf("add component: cannot add a %s", leaf.Type())
	}
	if target == nil {
		err = e.tree.AddComponent(leaf, nil)
	} else {
		err = e.tree.InsertAt(leaf, target, edge)
	}
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	_, bindErr := e.binder.Bind(leaf)
	e.relayout()
	return leaf, bindErr
}

// RemoveComponent removes an item, or a whole container, unbinding every
// component below it first.
func (e *Engine) RemoveComponent(item *layout.Node) error {
	done, err := e.enter("remove")
	if err != nil {
		return err
	}
	defer done()

	if !e.tree.Contains(item) {
		return fmt.Errorf("remove component: %w", layout.ErrNotInTree)
	}
	var errs []error
	for _, leaf := range item.PostOrder() {
		if err := e.binder.Unbind(leaf); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.tree.Remove(item); err != nil {
		errs = append(errs, err)
	}
	e.relayout()
	return errors.Join(errs...)
}

// Clear unbinds every item and empties the layout.
func (e *Engine) Clear() error {
	done, err := e.enter("clear")
	if err != nil {
		return err
	}
	defer done()

	errs := e.unbindAll()
	e.relayout()
	return errors.Join(errs...)
}

func (e *Engine) unbindAll() []error {
	var errs []error
	e.tree.Clear(func(leaf *layout.Node) {
		if err := e.binder.Unbind(leaf); err != nil {
			errs = append(errs, err)
		}
	})
	e.resizer.SetMaximised(nil)
	e.resizer.SetDragging(nil)
	return errs
}

// SetSize resizes the viewport and recomputes geometry synchronously.
func (e *Engine) SetSize(width, height int) error {
	done, err := e.enter("setSize")
	if err != nil {
		return err
	}
	defer done()

	if width < 0 || height < 0 {
		return fmt.Errorf("set size: negative size %dx%d", width, height)
	}
	e.viewport = resize.Rect{Width: width, Height: height}
	e.relayout()
	return nil
}

// SetActiveItem selects the visible tab of a stack.
func (e *Engine) SetActiveItem(stack *layout.Node, index int) error {
	done, err := e.enter("setActiveItem")
	if err != nil {
		return err
	}
	defer done()

	if err := e.tree.SetActive(stack, index); err != nil {
		return err
	}
	e.relayout()
	return nil
}

// ReorderTab moves a stack's tab from one index to another.
func (e *Engine) ReorderTab(stack *layout.Node, from, to int) error {
	done, err := e.enter("reorderTab")
	if err != nil {
		return err
	}
	defer done()

	if err := e.tree.Reorder(stack, from, to); err != nil {
		return err
	}
	e.relayout()
	return nil
}

// ToggleMaximise maximises stack, or restores it when it already is. It
// reports whether the stack is maximised afterwards.
func (e *Engine) ToggleMaximise(stack *layout.Node) (bool, error) {
	done, err := e.enter("toggleMaximise")
	if err != nil {
		return false, err
	}
	defer done()

	if !e.tree.Contains(stack) {
		return false, layout.ErrNotInTree
	}
	if stack.Type() != layout.TypeStack {
		return false, layout.ErrNotStack
	}
	on := e.resizer.Maximised() != stack
	if on {
		e.resizer.SetMaximised(stack)
	} else {
		e.resizer.SetMaximised(nil)
	}
	e.relayout()
	return on, nil
}

// SetWeights sets a row's or column's child weights within the splitter
// clamp.
func (e *Engine) SetWeights(container *layout.Node, weights []float64) error {
	done, err := e.enter("setWeights")
	if err != nil {
		return err
	}
	defer done()

	if err := resize.SetWeights(e.tree, e.frame, container, weights); err != nil {
		return err
	}
	e.relayout()
	return nil
}

// Destroy unbinds everything. Every later call returns ErrDestroyed.
func (e *Engine) Destroy() error {
	done, err := e.enter("destroy")
	if err != nil {
		return err
	}
	defer done()

	errs := e.unbindAll()
	e.drags.Clear()
	e.frame = e.resizer.Compute(e.tree, e.viewport)
	e.destroyed = true
	return errors.Join(errs...)
}

func (e *Engine) relayout() {
	e.frame = e.resizer.Compute(e.tree, e.viewport)
	for _, stack := range e.frame.Folded {
		e.log.Debug("responsive fold", "leaves", stack.ChildCount(), "width", e.viewport.Width, "height", e.viewport.Height)
	}
	e.binder.Apply(e.frame)
}
