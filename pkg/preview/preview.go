// Package preview meshes modules and slots with a geometry kernel so a host
// can display them. One mesh is produced per module and per slot.
package preview

import (
	"fmt"

	"github.com/chazu/cellwfc/pkg/kernel"
	"github.com/chazu/cellwfc/pkg/slot"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultInset is the fraction of a cell a previewed cell box fills, so
// neighboring cells stay visually separate.
const DefaultInset = 0.9

// minSlotScale is the size of a slot box with no candidates left, relative
// to the inset cell.
const minSlotScale = 0.15

// modulePalette assigns distinct colors to modules.
var modulePalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// CategoryColor returns the display color of a slot category.
func CategoryColor(c slot.Category) string {
	switch c {
	case slot.CategoryAny:
		return "#BDC3C7"
	case slot.CategoryContradiction:
		return "#C0392B"
	case slot.CategoryDeterministic:
		return "#27AE60"
	default:
		return "#F1C40F"
	}
}

// Options tune the previews.
type Options struct {
	// Inset is the fraction of a cell each box fills. Zero means DefaultInset.
	Inset float64
	// IncludeReserved also meshes the empty and out modules.
	IncludeReserved bool
}

func (o Options) inset() float64 {
	if o.Inset <= 0 || o.Inset > 1 {
		return DefaultInset
	}
	return o.Inset
}

// Modules produces one mesh per module: the union of its cell boxes,
// placed at the submodule centers. The module set is never mutated.
func Modules(k kernel.Kernel, modules *wfc.ModuleSet, opts Options) ([]*kernel.Mesh, error) {
	if modules == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for i, m := range modules.Modules() {
		if m.IsReserved() && !opts.IncludeReserved {
			continue
		}
		mesh, err := moduleMesh(k, m, opts.inset())
		if err != nil {
			return nil, fmt.Errorf("preview: module %q: %w", m.Name(), err)
		}
		mesh.Color = modulePalette[i%len(modulePalette)]
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func moduleMesh(k kernel.Kernel, m *wfc.Module, inset float64) (*kernel.Mesh, error) {
	size := m.CellSize().MulScalar(inset)

	var solid kernel.Solid
	for i := 0; i < m.SubmoduleCount(); i++ {
		cell := cellBox(k, size, m.SubmoduleCenter(i))
		if solid == nil {
			solid = cell
			continue
		}
		solid = k.Union(solid, cell)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	mesh.Name = m.Name()
	return mesh, nil
}

// Slots produces one mesh per slot. The box shrinks with the slot's
// entropy ratio and is colored by its category.
func Slots(k kernel.Kernel, slots []slot.Slot, opts Options) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(slots))
	for _, s := range slots {
		scale := minSlotScale + (1-minSlotScale)*s.EntropyRatio()
		size := s.CellSize().MulScalar(opts.inset() * scale)

		mesh, err := k.ToMesh(cellBox(k, size, s.Center()))
		if err != nil {
			return nil, fmt.Errorf("preview: slot %v: %w", s.RelativeCenter(), err)
		}
		mesh.Name = s.RelativeCenter().String()
		mesh.Color = CategoryColor(s.ColorCategory())
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// cellBox returns a box of the given size centered at center.
func cellBox(k kernel.Kernel, size, center v3.Vec) kernel.Solid {
	return k.Translate(k.Box(size.X, size.Y, size.Z), center.X, center.Y, center.Z)
}
