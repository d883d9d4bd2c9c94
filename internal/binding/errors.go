package binding

import "fmt"

// BindError reports that the host produced no content for an item. The item
// stays in the tree with an empty container.
type BindError struct {
	ComponentType string
	ContainerID   string
	Err           error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s (container %s): %v", e.ComponentType, e.ContainerID, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// UnbindError reports an unbind the engine should never have issued, or a
// host failure while releasing content.
type UnbindError struct {
	ComponentType string
	Reason        string
	Err           error
}

func (e *UnbindError) Error() string {
	msg := fmt.Sprintf("unbind %s: %s", e.ComponentType, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnbindError) Unwrap() error { return e.Err }
