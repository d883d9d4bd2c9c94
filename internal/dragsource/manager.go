// Package dragsource turns pointer drags that start outside the layout into
// new component items. A source's factory runs when the drag starts, not
// when the source is registered.
package dragsource

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jask/dockyard/internal/layout"
)

var (
	ErrUnknownSource = errors.New("unknown drag source")
	ErrGestureDone   = errors.New("drag gesture already finished")
)

// ItemFactory builds the item a drag will drop.
type ItemFactory func() (layout.ItemConfig, error)

// Location is a resolved drop point.
type Location struct {
	Target *layout.Node
	Edge   layout.Edge
}

// Target resolves pointer coordinates to a drop location.
type Target interface {
	Locate(x, y int) (Location, bool)
}

// Committer inserts a dropped item into the layout.
type Committer interface {
	Commit(item layout.ItemConfig, at Location) error
}

type Source struct {
	id      string
	element any
	factory ItemFactory
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Element() any { return s.element }

type Manager struct {
	target  Target
	commit  Committer
	log     *slog.Logger
	sources []*Source
}

func NewManager(target Target, commit Committer, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{target: target, commit: commit, log: log}
}

// Register adds a source. element is whatever host object the drag starts
// from; the manager only hands it back.
func (m *Manager) Register(element any, factory ItemFactory) (*Source, error) {
	if factory == nil {
		return nil, fmt.Errorf("register drag source: nil factory")
	}
	src := &Source{id: uuid.NewString(), element: element, factory: factory}
	m.sources = append(m.sources, src)
	return src, nil
}

func (m *Manager) Unregister(src *Source) error {
	for i, s := range m.sources {
		if s == src {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return nil
		}
	}
	return ErrUnknownSource
}

func (m *Manager) Sources() []*Source {
	out := make([]*Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Clear drops every source.
func (m *Manager) Clear() { m.sources = nil }

// Start begins a drag from src at the given pointer position.
func (m *Manager) Start(src *Source, x, y int) (*Gesture, error) {
	if !m.registered(src) {
		return nil, ErrUnknownSource
	}
	item, err := src.factory()
	if err != nil {
		return nil, fmt.Errorf("drag source %s: %w", src.id, err)
	}
	if item.Type == "" {
		item.Type = layout.TypeComponent
	}
	if item.Type != layout.TypeComponent {
		return nil, fmt.Errorf("drag source %s: factory built a %s, want a component", src.id, item.Type)
	}
	m.log.Debug("drag started", "source", src.id, "component_type", item.ComponentType)
	return &Gesture{m: m, item: item, x: x, y: y}, nil
}

func (m *Manager) registered(src *Source) bool {
	for _, s := range m.sources {
		if s == src {
			return true
		}
	}
	return false
}
