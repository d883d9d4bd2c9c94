package layout

import (
	"errors"
	"fmt"
)

var (
	ErrNotInTree = errors.New("node is not part of the layout tree")
	ErrNotStack  = errors.New("node is not a stack")
)

// ConfigError reports malformed or unresolvable layout input. Path points at
// the offending item, e.g. "root.content[1]".
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("layout config: %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
