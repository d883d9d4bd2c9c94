package layout

import "sort"

// predefinedLayouts are the sample layouts the library is seeded with.
var predefinedLayouts = map[string]string{
	"miniRow": `{
  "root": {
    "type": "row",
    "content": [
      {"type": "component", "id": "miniRow-golden", "title": "Golden", "header": {"show": "top"},
       "isClosable": false, "componentType": "Color", "width": 30, "componentState": "gold"},
      {"type": "component", "title": "Layout", "header": {"show": "top", "popout": false},
       "componentType": "Color"}
    ]
  }
}`,
	"miniStack": `{
  "root": {
    "type": "stack",
    "content": [
      {"type": "component", "title": "Golden", "header": {"show": "top"}, "isClosable": false,
       "componentType": "Color", "width": 30, "componentState": "white"},
      {"type": "component", "title": "Layout", "header": {"show": "top", "popout": false},
       "componentType": "Color", "componentState": "green"}
    ]
  }
}`,
	"standard": `{
  "root": {
    "type": "row",
    "content": [
      {"type": "column", "width": 80, "content": [
        {"type": "component", "title": "Fnts 100", "header": {"show": "bottom"}, "componentType": "Color"},
        {"type": "row", "content": [
          {"type": "component", "title": "Golden", "header": {"show": "right"}, "isClosable": false,
           "componentType": "Color", "width": 30, "componentState": "gold"},
          {"type": "component", "title": "Layout", "header": {"show": "left", "popout": false},
           "componentType": "Text", "componentState": {"text": "golden layout"}}
        ]},
        {"type": "stack", "content": [
          {"type": "component", "title": "Acme, inc.", "componentType": "Text", "componentState": {"text": "Stock X"}},
          {"type": "component", "title": "LexCorp plc.", "componentType": "Text", "componentState": {"text": "Stock Y"}},
          {"type": "component", "title": "Springshield plc.", "componentType": "Text", "componentState": {"text": "Stock Z"}}
        ]}
      ]},
      {"type": "column", "width": 20, "content": [
        {"type": "component", "title": "Flags", "componentType": "Boolean", "componentState": true},
        {"type": "component", "title": "Notes", "componentType": "Text"}
      ]}
    ]
  }
}`,
	"responsive": `{
  "settings": {"responsiveMode": "always"},
  "dimensions": {"minItemWidth": 25},
  "root": {
    "type": "row",
    "content": [
      {"type": "column", "width": 30, "content": [
        {"type": "component", "title": "Fnts 100", "componentType": "Color", "componentState": "teal"},
        {"type": "stack", "content": [
          {"type": "component", "title": "Acme, inc.", "componentType": "Text", "componentState": {"text": "Stock X"}},
          {"type": "component", "title": "LexCorp plc.", "componentType": "Text", "componentState": {"text": "Stock Y"}}
        ]}
      ]},
      {"type": "component", "width": 40, "title": "Layout", "componentType": "Color", "componentState": "pink"},
      {"type": "column", "content": [
        {"type": "component", "title": "Flags", "componentType": "Boolean", "componentState": false},
        {"type": "component", "title": "Notes", "componentType": "Text"}
      ]}
    ]
  }
}`,
	"tabDropdown": `{
  "settings": {"tabOverlapAllowance": 25, "reorderOnTabMenuClick": false, "tabControlOffset": 5},
  "root": {
    "type": "row",
    "content": [
      {"type": "column", "width": 30, "content": [
        {"type": "component", "title": "Fnts 100", "componentType": "Text"},
        {"type": "row", "content": [
          {"type": "component", "title": "Golden", "componentType": "Text", "width": 30,
           "componentState": {"text": "hello"}}
        ]},
        {"type": "stack", "content": [
          {"type": "component", "title": "Acme, inc.", "componentType": "Color", "componentState": "Stock X"},
          {"type": "component", "title": "LexCorp plc.", "componentType": "Color", "componentState": "Stock Y"},
          {"type": "component", "title": "Springshield plc.", "componentType": "Color", "componentState": "Stock Z"}
        ]}
      ]},
      {"type": "stack", "width": 20, "content": [
        {"type": "component", "title": "Market", "componentType": "Color"},
        {"type": "component", "title": "Performance", "componentType": "Color"},
        {"type": "component", "title": "Trend", "componentType": "Color"},
        {"type": "component", "title": "Balance", "componentType": "Color"},
        {"type": "component", "title": "Budget", "componentType": "Color"},
        {"type": "component", "title": "Curve", "componentType": "Color"},
        {"type": "component", "title": "Standing", "componentType": "Color"},
        {"type": "component", "title": "Lasting", "componentType": "Color", "componentState": "gold"},
        {"type": "component", "title": "Profile", "componentType": "Color"}
      ]},
      {"type": "component", "width": 30, "title": "Layout", "componentType": "Boolean", "componentState": true}
    ]
  }
}`,
}

// Predefined parses the built-in sample layouts.
func Predefined() (map[string]Config, error) {
	out := make(map[string]Config, len(predefinedLayouts))
	for name, raw := range predefinedLayouts {
		cfg, err := ParseConfig([]byte(raw))
		if err != nil {
			return nil, err
		}
		out[name] = cfg
	}
	return out, nil
}

func PredefinedNames() []string {
	names := make([]string, 0, len(predefinedLayouts))
	for name := range predefinedLayouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
