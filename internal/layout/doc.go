// Package layout holds the structural model of a docking layout: a tree of
// rows, columns and stacks whose leaves are components with host-owned
// content.
//
// The tree only knows structure and weights. Geometry lives in package
// resize and content lifecycle in package binding.
package layout
