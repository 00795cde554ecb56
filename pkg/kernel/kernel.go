// Package kernel defines the abstract geometry kernel used to preview
// modules and slots. The core packages never call into it.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a box of the given size centered at the origin.
	Box(x, y, z float64) Solid

	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
