package layout

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func twoLeafRow(a, b *float64) Config {
	return Config{Root: &ItemConfig{
		Type: TypeRow,
		Content: []ItemConfig{
			{Type: TypeComponent, ComponentType: "Color", Width: a, ComponentState: json.RawMessage(`"gold"`)},
			{Type: TypeComponent, ComponentType: "Text", Width: b},
		},
	}}
}

type stubTypes map[string]bool

func (s stubTypes) CheckType(name string) error {
	if !s[name] {
		return errors.New("unknown")
	}
	return nil
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	tree, err := Resolve(twoLeafRow(f64(30), nil), DefaultDefaults(), nil)
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), tree.Settings())
	require.Equal(t, DefaultDimensions(), tree.Dimensions())

	root := tree.Root()
	require.Equal(t, TypeRow, root.Type())
	require.Equal(t, 2, root.ChildCount())
	leaves := tree.Leaves()
	require.InDelta(t, 30, leaves[0].Size(), WeightEpsilon)
	require.InDelta(t, 70, leaves[1].Size(), WeightEpsilon)
	require.Equal(t, "Color", leaves[0].Title(), "title defaults to the component type")
	require.True(t, leaves[0].IsClosable())
	require.Equal(t, Header{Show: SideTop, Popout: true}, leaves[0].Header())
	require.JSONEq(t, `"gold"`, string(leaves[0].ComponentState()))
	require.Nil(t, leaves[1].ComponentState())
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := map[string]Config{
		"unknown type": {Root: &ItemConfig{Type: "grid"}},
		"component with content": {Root: &ItemConfig{
			Type: TypeComponent, ComponentType: "Text",
			Content: []ItemConfig{{Type: TypeComponent, ComponentType: "Text"}},
		}},
		"missing component type": {Root: &ItemConfig{Type: TypeComponent}},
		"row inside stack": {Root: &ItemConfig{
			Type:    TypeStack,
			Content: []ItemConfig{{Type: TypeRow}},
		}},
		"weight above 100": twoLeafRow(f64(130), nil),
		"negative weight":  twoLeafRow(nil, f64(-1)),
		"bad responsive mode": {Settings: &SettingsConfig{
			ResponsiveMode: func() *ResponsiveMode { m := ResponsiveMode("sometimes"); return &m }(),
		}},
		"bad state": {Root: &ItemConfig{
			Type: TypeComponent, ComponentType: "Text", ComponentState: json.RawMessage(`{oops`),
		}},
	}
	for name, cfg := range cases {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tree, err := Resolve(cfg, DefaultDefaults(), nil)
			require.Nil(t, tree)
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
		})
	}
}

func TestResolveChecksComponentTypes(t *testing.T) {
	t.Parallel()

	_, err := Resolve(twoLeafRow(nil, nil), DefaultDefaults(), stubTypes{"Color": true})
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "root.content[1].componentType", cerr.Path)

	_, err = Resolve(twoLeafRow(nil, nil), DefaultDefaults(), stubTypes{"Color": true, "Text": true})
	require.NoError(t, err)
}

func TestResolveUnspecifiedWeightsShareRemainder(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: &ItemConfig{Type: TypeColumn, Content: []ItemConfig{
		{Type: TypeComponent, ComponentType: "A", Height: f64(40)},
		{Type: TypeComponent, ComponentType: "B"},
		{Type: TypeComponent, ComponentType: "C"},
	}}}
	tree, err := Resolve(cfg, DefaultDefaults(), nil)
	require.NoError(t, err)
	leaves := tree.Leaves()
	require.InDelta(t, 40, leaves[0].Size(), WeightEpsilon)
	require.InDelta(t, 30, leaves[1].Size(), WeightEpsilon)
	require.InDelta(t, 30, leaves[2].Size(), WeightEpsilon)

	// Over-allocated weights are scaled back to 100.
	cfg = twoLeafRow(f64(100), f64(100))
	tree, err = Resolve(cfg, DefaultDefaults(), nil)
	require.NoError(t, err)
	require.InDelta(t, 100, WeightSum(tree.Root()), WeightEpsilon)
	require.InDelta(t, 50, tree.Leaves()[0].Size(), WeightEpsilon)
}

func TestParseConfigHeaderFalse(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`{"root": {"type": "component", "componentType": "Text", "header": {"show": false}}}`))
	require.NoError(t, err)
	tree, err := Resolve(cfg, DefaultDefaults(), nil)
	require.NoError(t, err)
	require.Equal(t, SideNone, tree.Root().Header().Show)

	out, err := MarshalResolved(tree.Save(nil))
	require.NoError(t, err)
	require.Contains(t, string(out), `"show": false`)

	_, err = ParseConfig([]byte(`{"root": {"type": "row"}, "extra": 1}`))
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)

	for _, show := range []string{`"none"`, `true`, `"sideways"`} {
		_, err = ParseConfig([]byte(`{"root": {"type": "component", "componentType": "Text", "header": {"show": ` + show + `}}}`))
		require.ErrorAs(t, err, &cerr, show)
	}
}

func TestPredefinedLayoutsResolve(t *testing.T) {
	t.Parallel()

	layouts, err := Predefined()
	require.NoError(t, err)
	require.Len(t, layouts, len(PredefinedNames()))
	for name, cfg := range layouts {
		tree, err := Resolve(cfg, DefaultDefaults(), stubTypes{"Color": true, "Text": true, "Boolean": true})
		require.NoError(t, err, name)
		require.NotEmpty(t, tree.Leaves(), name)
	}
	require.Equal(t, ResponsiveAlways, mustResolve(t, layouts["responsive"]).Settings().ResponsiveMode)
	require.Equal(t, Settings{
		ResponsiveMode:        ResponsiveNone,
		TabOverlapAllowance:   25,
		ReorderOnTabMenuClick: false,
		TabControlOffset:      5,
	}, mustResolve(t, layouts["tabDropdown"]).Settings())
}

func mustResolve(t *testing.T, cfg Config) *Tree {
	t.Helper()
	tree, err := Resolve(cfg, DefaultDefaults(), nil)
	require.NoError(t, err)
	return tree
}
