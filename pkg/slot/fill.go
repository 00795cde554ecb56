package slot

import (
	"errors"
	"fmt"

	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	ErrBounds        = errors.New("slot: min corner exceeds max corner")
	ErrUnknownModule = errors.New("slot: unknown module")
)

// Fill returns one slot allowing any module for every coordinate in the
// inclusive box [lo, hi], ordered x fastest, then y, then z.
func Fill(frame grid.Frame, cellSize v3.Vec, lo, hi grid.Coord) ([]Slot, error) {
	if err := checkBounds(lo, hi); err != nil {
		return nil, err
	}
	var out []Slot
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				s, err := Any(frame, grid.Coord{X: x, Y: y, Z: z}, cellSize)
				if err != nil {
					return nil, err
				}
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// Boundary returns the one-cell shell around the box [lo, hi], each slot
// restricted to the reserved out module. Placing it next to a Fill lets the
// solver treat the world edge like any other neighbor.
func Boundary(frame grid.Frame, cellSize v3.Vec, lo, hi grid.Coord) ([]Slot, error) {
	if err := checkBounds(lo, hi); err != nil {
		return nil, err
	}
	inside := func(c grid.Coord) bool {
		return c.X >= lo.X && c.X <= hi.X &&
			c.Y >= lo.Y && c.Y <= hi.Y &&
			c.Z >= lo.Z && c.Z <= hi.Z
	}
	var out []Slot
	for z := lo.Z - 1; z <= hi.Z+1; z++ {
		for y := lo.Y - 1; y <= hi.Y+1; y++ {
			for x := lo.X - 1; x <= hi.X+1; x++ {
				c := grid.Coord{X: x, Y: y, Z: z}
				if inside(c) {
					continue
				}
				s, err := New(frame, c, cellSize, false, []string{wfc.OutModuleName}, nil, 0)
				if err != nil {
					return nil, err
				}
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func checkBounds(lo, hi grid.Coord) error {
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return fmt.Errorf("%w: %v > %v", ErrBounds, lo, hi)
	}
	return nil
}

// Expand converts each slot's module-name candidates into submodule names
// using modules, and sets the universe size to every submodule modules
// knows. Slots that allow any module receive the whole universe. A name
// modules does not know is an error.
func Expand(slots []Slot, modules *wfc.ModuleSet) ([]Slot, error) {
	universe := modules.SubmoduleNames()
	out := make([]Slot, len(slots))
	for i, s := range slots {
		var names []string
		if s.AllowsAny() {
			names = universe
		} else {
			for _, name := range s.allowedModuleNames {
				m, ok := modules.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("slot %v: %w %q", s.center, ErrUnknownModule, name)
				}
				names = append(names, m.SubmoduleNames()...)
			}
		}
		expanded, err := s.WithAllowedSubmodules(names, len(universe))
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}
