package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Config is a possibly partial layout configuration, the unit handed to
// Resolve. Pointer fields distinguish "not given" from zero values.
type Config struct {
	Root       *ItemConfig       `json:"root,omitempty"`
	Settings   *SettingsConfig   `json:"settings,omitempty"`
	Dimensions *DimensionsConfig `json:"dimensions,omitempty"`
}

type SettingsConfig struct {
	ResponsiveMode        *ResponsiveMode `json:"responsiveMode,omitempty"`
	TabOverlapAllowance   *float64        `json:"tabOverlapAllowance,omitempty"`
	ReorderOnTabMenuClick *bool           `json:"reorderOnTabMenuClick,omitempty"`
	TabControlOffset      *float64        `json:"tabControlOffset,omitempty"`
}

type DimensionsConfig struct {
	MinItemWidth  *int `json:"minItemWidth,omitempty"`
	MinItemHeight *int `json:"minItemHeight,omitempty"`
	BorderWidth   *int `json:"borderWidth,omitempty"`
	HeaderHeight  *int `json:"headerHeight,omitempty"`
}

type HeaderConfig struct {
	Show   *HeaderSide `json:"show,omitempty"`
	Popout *bool       `json:"popout,omitempty"`
}

// ItemConfig describes one node. Width is the weight used inside rows and
// stacks, Height the weight used inside columns; both are percentages.
type ItemConfig struct {
	Type            ItemType        `json:"type"`
	Content         []ItemConfig    `json:"content,omitempty"`
	Width           *float64        `json:"width,omitempty"`
	Height          *float64        `json:"height,omitempty"`
	ID              string          `json:"id,omitempty"`
	Title           string          `json:"title,omitempty"`
	IsClosable      *bool           `json:"isClosable,omitempty"`
	Header          *HeaderConfig   `json:"header,omitempty"`
	ActiveItemIndex *int            `json:"activeItemIndex,omitempty"`
	ComponentType   string          `json:"componentType,omitempty"`
	ComponentState  json.RawMessage `json:"componentState,omitempty"`
}

// ResolvedConfig is the fully defaulted snapshot produced by Save.
type ResolvedConfig struct {
	Root       *ResolvedItem `json:"root"`
	Settings   Settings      `json:"settings"`
	Dimensions Dimensions    `json:"dimensions"`
}

type ResolvedItem struct {
	Type            ItemType        `json:"type"`
	Content         []ResolvedItem  `json:"content"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	ID              string          `json:"id,omitempty"`
	Title           string          `json:"title"`
	IsClosable      bool            `json:"isClosable"`
	Header          Header          `json:"header"`
	ActiveItemIndex int             `json:"activeItemIndex"`
	ComponentType   string          `json:"componentType,omitempty"`
	ComponentState  json.RawMessage `json:"componentState,omitempty"`
}

// ParseConfig decodes a JSON layout config. Decoding failures are reported as
// *ConfigError so callers see one error type for bad input.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ConfigError{Path: "config", Reason: "malformed JSON", Err: err}
	}
	return cfg, nil
}

// MarshalConfig encodes a partial config, leaving out everything not given.
func MarshalConfig(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout config: %w", err)
	}
	return data, nil
}

func MarshalResolved(rc ResolvedConfig) ([]byte, error) {
	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resolved layout: %w", err)
	}
	return data, nil
}

// FromResolved turns a saved snapshot back into a loadable Config.
func FromResolved(rc ResolvedConfig) Config {
	settings := rc.Settings
	dims := rc.Dimensions
	cfg := Config{
		Settings: &SettingsConfig{
			ResponsiveMode:        &settings.ResponsiveMode,
			TabOverlapAllowance:   &settings.TabOverlapAllowance,
			ReorderOnTabMenuClick: &settings.ReorderOnTabMenuClick,
			TabControlOffset:      &settings.TabControlOffset,
		},
		Dimensions: &DimensionsConfig{
			MinItemWidth:  &dims.MinItemWidth,
			MinItemHeight: &dims.MinItemHeight,
			BorderWidth:   &dims.BorderWidth,
			HeaderHeight:  &dims.HeaderHeight,
		},
	}
	if rc.Root != nil {
		root := itemFromResolved(*rc.Root)
		cfg.Root = &root
	}
	return cfg
}

func itemFromResolved(ri ResolvedItem) ItemConfig {
	width, height := ri.Width, ri.Height
	closable := ri.IsClosable
	show, popout := ri.Header.Show, ri.Header.Popout
	active := ri.ActiveItemIndex
	ic := ItemConfig{
		Type:            ri.Type,
		Width:           &width,
		Height:          &height,
		ID:              ri.ID,
		Title:           ri.Title,
		IsClosable:      &closable,
		Header:          &HeaderConfig{Show: &show, Popout: &popout},
		ActiveItemIndex: &active,
		ComponentType:   ri.ComponentType,
		ComponentState:  cloneRaw(ri.ComponentState),
	}
	if len(ri.Content) > 0 {
		ic.Content = make([]ItemConfig, len(ri.Content))
		for i, child := range ri.Content {
			ic.Content[i] = itemFromResolved(child)
		}
	}
	return ic
}

// Component is shorthand for a component item config.
func Component(componentType string, state json.RawMessage) ItemConfig {
	return ItemConfig{Type: TypeComponent, ComponentType: componentType, ComponentState: state}
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// normaliseState compacts a state blob so equal values compare byte-equal.
// JSON null is treated as "no state".
func normaliseState(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}
