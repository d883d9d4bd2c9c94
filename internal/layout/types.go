package layout

import (
	"encoding/json"
	"fmt"
)

// ItemType tags a node of the layout tree.
type ItemType string

const (
	TypeRow       ItemType = "row"
	TypeColumn    ItemType = "column"
	TypeStack     ItemType = "stack"
	TypeComponent ItemType = "component"
)

func (t ItemType) valid() bool {
	switch t {
	case TypeRow, TypeColumn, TypeStack, TypeComponent:
		return true
	}
	return false
}

// IsContainer reports whether nodes of this type own children.
func (t ItemType) IsContainer() bool {
	return t == TypeRow || t == TypeColumn || t == TypeStack
}

// HeaderSide is where a header (tab strip) is drawn. SideNone hides it; it
// only travels as JSON false.
type HeaderSide string

const (
	SideTop    HeaderSide = "top"
	SideBottom HeaderSide = "bottom"
	SideLeft   HeaderSide = "left"
	SideRight  HeaderSide = "right"
	SideNone   HeaderSide = "none"
)

func (s HeaderSide) valid() bool {
	switch s {
	case SideTop, SideBottom, SideLeft, SideRight, SideNone:
		return true
	}
	return false
}

func (s HeaderSide) MarshalJSON() ([]byte, error) {
	if s == SideNone {
		return []byte("false"), nil
	}
	return json.Marshal(string(s))
}

func (s *HeaderSide) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			return fmt.Errorf("header show: true is not a side")
		}
		*s = SideNone
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("header show: %w", err)
	}
	side := HeaderSide(str)
	if side == SideNone || !side.valid() {
		return fmt.Errorf("header show: %q is not a side", str)
	}
	*s = side
	return nil
}

// Header is the resolved header of an item.
type Header struct {
	Show   HeaderSide `json:"show"`
	Popout bool       `json:"popout"`
}

// ResponsiveMode controls when the resizer folds rows and columns into stacks.
type ResponsiveMode string

const (
	ResponsiveNone   ResponsiveMode = "none"
	ResponsiveAlways ResponsiveMode = "always"
	ResponsiveOnLoad ResponsiveMode = "onload"
)

func (m ResponsiveMode) valid() bool {
	return m == ResponsiveNone || m == ResponsiveAlways || m == ResponsiveOnLoad
}

// Settings are the global, non-geometric layout settings.
type Settings struct {
	ResponsiveMode        ResponsiveMode `json:"responsiveMode"`
	TabOverlapAllowance   float64        `json:"tabOverlapAllowance"`
	ReorderOnTabMenuClick bool           `json:"reorderOnTabMenuClick"`
	TabControlOffset      float64        `json:"tabControlOffset"`
}

// Dimensions are measured in viewport units (pixels for a browser host, cells
// for a terminal host).
type Dimensions struct {
	MinItemWidth  int `json:"minItemWidth"`
	MinItemHeight int `json:"minItemHeight"`
	BorderWidth   int `json:"borderWidth"`
	HeaderHeight  int `json:"headerHeight"`
}

// Defaults fill in whatever a config leaves out.
type Defaults struct {
	Settings   Settings
	Dimensions Dimensions
}

// DefaultSettings are the settings a config without a settings block gets.
func DefaultSettings() Settings {
	return Settings{
		ResponsiveMode:        ResponsiveNone,
		TabOverlapAllowance:   0,
		ReorderOnTabMenuClick: true,
		TabControlOffset:      10,
	}
}

func DefaultDimensions() Dimensions {
	return Dimensions{
		MinItemWidth:  10,
		MinItemHeight: 10,
		BorderWidth:   5,
		HeaderHeight:  20,
	}
}

func DefaultDefaults() Defaults {
	return Defaults{Settings: DefaultSettings(), Dimensions: DefaultDimensions()}
}

// Edge names where an item lands relative to a drop target.
type Edge int

const (
	EdgeCenter Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "center"
	}
}

// TypeChecker validates component type names at load time.
type TypeChecker interface {
	CheckType(componentType string) error
}
