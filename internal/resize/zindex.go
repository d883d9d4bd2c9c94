package resize

// LogicalZIndex is the stacking layer of an item. The binding layer hands
// both the logical value and its default z-index string to virtual content.
type LogicalZIndex string

const (
	ZBase           LogicalZIndex = "base"
	ZDrag           LogicalZIndex = "drag"
	ZStackMaximised LogicalZIndex = "stackMaximised"
)

var defaultZIndexes = map[LogicalZIndex]string{
	ZBase:           "auto",
	ZDrag:           "32",
	ZStackMaximised: "41",
}

// Default maps the logical index to the z-index value content should use.
func (z LogicalZIndex) Default() string {
	if v, ok := defaultZIndexes[z]; ok {
		return v
	}
	return defaultZIndexes[ZBase]
}
