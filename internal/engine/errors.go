package engine

import (
	"errors"
	"fmt"
)

var ErrDestroyed = errors.New("layout engine destroyed")

// ReentrancyError is returned when a host callback calls back into the
// engine while an operation is still running.
type ReentrancyError struct {
	Op     string
	Active string
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("engine: %s called while %s is in progress", e.Op, e.Active)
}

// UnknownTypeError names a component type the registry cannot build.
type UnknownTypeError struct {
	Name       string
	Suggestion string
}

func (e *UnknownTypeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown component type %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown component type %q", e.Name)
}
