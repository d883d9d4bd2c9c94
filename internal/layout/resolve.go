package layout

import (
	"encoding/json"
	"fmt"
)

// Resolve validates cfg and builds a fully defaulted tree. types may be nil,
// in which case component types are not checked here and an unknown type
// surfaces later as a bind failure.
func Resolve(cfg Config, defaults Defaults, types TypeChecker) (*Tree, error) {
	settings, err := resolveSettings(cfg.Settings, defaults.Settings)
	if err != nil {
		return nil, err
	}
	dims, err := resolveDimensions(cfg.Dimensions, defaults.Dimensions)
	if err != nil {
		return nil, err
	}
	t := &Tree{settings: settings, dimensions: dims}
	if cfg.Root == nil {
		return t, nil
	}
	root, err := resolveItem(*cfg.Root, "root", types)
	if err != nil {
		return nil, err
	}
	root.size = 100
	t.root = root
	return t, nil
}

// ResolveItem resolves a single detached item, typically a component about
// to be added or dropped into an existing tree.
func ResolveItem(ic ItemConfig, types TypeChecker) (*Node, error) {
	n, err := resolveItem(ic, "item", types)
	if err != nil {
		return nil, err
	}
	n.size = 100
	return n, nil
}

func resolveSettings(sc *SettingsConfig, def Settings) (Settings, error) {
	s := def
	if sc == nil {
		return s, nil
	}
	if sc.ResponsiveMode != nil {
		if !sc.ResponsiveMode.valid() {
			return s, configErr("settings.responsiveMode", "unknown mode %q", *sc.ResponsiveMode)
		}
		s.ResponsiveMode = *sc.ResponsiveMode
	}
	if sc.TabOverlapAllowance != nil {
		if *sc.TabOverlapAllowance < 0 {
			return s, configErr("settings.tabOverlapAllowance", "must not be negative")
		}
		s.TabOverlapAllowance = *sc.TabOverlapAllowance
	}
	if sc.ReorderOnTabMenuClick != nil {
		s.ReorderOnTabMenuClick = *sc.ReorderOnTabMenuClick
	}
	if sc.TabControlOffset != nil {
		s.TabControlOffset = *sc.TabControlOffset
	}
	return s, nil
}

func resolveDimensions(dc *DimensionsConfig, def Dimensions) (Dimensions, error) {
	d := def
	if dc == nil {
		return d, nil
	}
	fields := []struct {
		name string
		src  *int
		dst  *int
	}{
		{"minItemWidth", dc.MinItemWidth, &d.MinItemWidth},
		{"minItemHeight", dc.MinItemHeight, &d.MinItemHeight},
		{"borderWidth", dc.BorderWidth, &d.BorderWidth},
		{"headerHeight", dc.HeaderHeight, &d.HeaderHeight},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return d, configErr("dimensions."+f.name, "must not be negative")
		}
		*f.dst = *f.src
	}
	return d, nil
}

func resolveItem(ic ItemConfig, path string, types TypeChecker) (*Node, error) {
	if !ic.Type.valid() {
		return nil, configErr(path, "unknown item type %q", ic.Type)
	}
	for _, w := range []struct {
		name string
		v    *float64
	}{{"width", ic.Width}, {"height", ic.Height}} {
		if w.v != nil && (*w.v < -WeightEpsilon || *w.v > 100+WeightEpsilon) {
			return nil, configErr(path+"."+w.name, "weight %v outside [0,100]", *w.v)
		}
	}

	n := &Node{
		typ:      ic.Type,
		id:       ic.ID,
		title:    ic.Title,
		closable: true,
		header:   Header{Show: SideTop, Popout: true},
	}
	if ic.IsClosable != nil {
		n.closable = *ic.IsClosable
	}
	if ic.Header != nil {
		if ic.Header.Show != nil {
			if !ic.Header.Show.valid() {
				return nil, configErr(path+".header.show", "unknown side %q", *ic.Header.Show)
			}
			n.header.Show = *ic.Header.Show
		}
		if ic.Header.Popout != nil {
			n.header.Popout = *ic.Header.Popout
		}
	}

	if ic.Type == TypeComponent {
		if len(ic.Content) > 0 {
			return nil, configErr(path+".content", "component items cannot have content")
		}
		if ic.ComponentType == "" {
			return nil, configErr(path+".componentType", "missing component type")
		}
		if types != nil {
			if err := types.CheckType(ic.ComponentType); err != nil {
				return nil, &ConfigError{Path: path + ".componentType", Reason: "unresolvable component type", Err: err}
			}
		}
		state, err := normaliseState(ic.ComponentState)
		if err != nil {
			return nil, &ConfigError{Path: path + ".componentState", Reason: "not valid JSON", Err: err}
		}
		n.componentType = ic.ComponentType
		n.componentState = state
		if n.title == "" {
			n.title = ic.ComponentType
		}
		return n, nil
	}

	if ic.ComponentType != "" || len(ic.ComponentState) > 0 {
		return nil, configErr(path, "%s items cannot carry component fields", ic.Type)
	}

	specified := make([]*float64, len(ic.Content))
	for i, child := range ic.Content {
		childPath := fmt.Sprintf("%s.content[%d]", path, i)
		if ic.Type == TypeStack && child.Type != TypeComponent {
			return nil, configErr(childPath, "stacks may only contain components, got %q", child.Type)
		}
		c, err := resolveItem(child, childPath, types)
		if err != nil {
			return nil, err
		}
		c.parent = n
		n.children = append(n.children, c)
		if ic.Type == TypeColumn {
			specified[i] = child.Height
		} else {
			specified[i] = child.Width
		}
	}
	distributeWeights(n.children, specified)

	if ic.Type == TypeStack && ic.ActiveItemIndex != nil {
		n.active = clampIndex(*ic.ActiveItemIndex, len(n.children))
	}
	return n, nil
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ParseItemState is a convenience for hosts decoding a resolved item's state.
func ParseItemState(ri ResolvedItem, v any) (bool, error) {
	if len(ri.ComponentState) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(ri.ComponentState, v); err != nil {
		return false, fmt.Errorf("decode component state: %w", err)
	}
	return true, nil
}
