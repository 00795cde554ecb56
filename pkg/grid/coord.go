package grid

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Coord is an integer point of the world lattice. It addresses submodules
// relative to their module and slots relative to the world.
type Coord struct {
	X int `json:"x" yaml:"x" toml:"x"`
	Y int `json:"y" yaml:"y" toml:"y"`
	Z int `json:"z" yaml:"z" toml:"z"`
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

// Neighbor returns the coordinate one cell away along d.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(d.Unit())
}

// IsNeighbor reports whether c and o share a face: exactly one component
// differs, and it differs by exactly one.
func (c Coord) IsNeighbor(o Coord) bool {
	_, ok := DirectionFromUnit(o.Sub(c))
	return ok
}

// Vec returns c as a float vector in lattice units.
func (c Coord) Vec() v3.Vec {
	return v3.Vec{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// ToCartesian maps the center of cell c into world space: the lattice point
// is scaled by cellSize and then placed with the frame.
func (c Coord) ToCartesian(frame Frame, cellSize v3.Vec) v3.Vec {
	return frame.ToWorld(c.Vec().Mul(cellSize))
}

// FromCartesian maps a world point back to the nearest lattice point. It
// undoes the frame placement first and the cell scale second.
func FromCartesian(p v3.Vec, frame Frame, cellSize v3.Vec) Coord {
	local := frame.ToLocal(p)
	return Coord{
		X: int(math.Round(local.X / cellSize.X)),
		Y: int(math.Round(local.Y / cellSize.Y)),
		Z: int(math.Round(local.Z / cellSize.Z)),
	}
}

// ValidateCellSize returns ErrCellSize unless every component is positive.
func ValidateCellSize(size v3.Vec) error {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return fmt.Errorf("%w: got (%g, %g, %g)", ErrCellSize, size.X, size.Y, size.Z)
	}
	return nil
}
