package grid

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Axis
// ---------------------------------------------------------------------------

// Axis is one of the three lattice axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is one of AxisX, AxisY, AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("grid: invalid axis %q, expected x, y, or z", s)
}

// MarshalText encodes the axis as its lowercase label.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("grid: cannot marshal invalid axis %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an axis label.
func (a *Axis) UnmarshalText(b []byte) error {
	parsed, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ---------------------------------------------------------------------------
// Orientation
// ---------------------------------------------------------------------------

// Orientation tells whether a direction points along or against its axis.
type Orientation int

const (
	Positive Orientation = iota
	Negative
)

func (o Orientation) String() string {
	switch o {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Flipped returns the other orientation.
func (o Orientation) Flipped() Orientation {
	if o == Positive {
		return Negative
	}
	return Positive
}

// sign is +1 for Positive and -1 for Negative.
func (o Orientation) sign() int {
	if o == Negative {
		return -1
	}
	return 1
}

// ---------------------------------------------------------------------------
// Direction
// ---------------------------------------------------------------------------

// Direction is one of the six canonical face normals of a unit cell.
// Directions compare with ==.
type Direction struct {
	Axis        Axis
	Orientation Orientation
}

// The six canonical directions.
var (
	PosX = Direction{AxisX, Positive}
	PosY = Direction{AxisY, Positive}
	PosZ = Direction{AxisZ, Positive}
	NegX = Direction{AxisX, Negative}
	NegY = Direction{AxisY, Negative}
	NegZ = Direction{AxisZ, Negative}
)

// FaceCount is the number of faces of a unit cell.
const FaceCount = 6

// Directions returns all six directions in face-index order:
// +X, +Y, +Z, -X, -Y, -Z.
func Directions() [FaceCount]Direction {
	return [FaceCount]Direction{PosX, PosY, PosZ, NegX, NegY, NegZ}
}

// FaceIndex returns the fixed position of d in Directions().
func (d Direction) FaceIndex() int {
	idx := int(d.Axis)
	if d.Orientation == Negative {
		idx += 3
	}
	return idx
}

// DirectionFromFaceIndex is the inverse of FaceIndex.
func DirectionFromFaceIndex(i int) (Direction, bool) {
	if i < 0 || i >= FaceCount {
		return Direction{}, false
	}
	return Directions()[i], true
}

// IsOpposite reports whether d and o share an axis but point opposite ways.
func (d Direction) IsOpposite(o Direction) bool {
	return d.Axis == o.Axis && d.Orientation != o.Orientation
}

// Flipped returns the opposite direction.
func (d Direction) Flipped() Direction {
	return Direction{Axis: d.Axis, Orientation: d.Orientation.Flipped()}
}

// Unit returns the lattice step one cell along d.
func (d Direction) Unit() Coord {
	var c Coord
	s := d.Orientation.sign()
	switch d.Axis {
	case AxisX:
		c.X = s
	case AxisY:
		c.Y = s
	case AxisZ:
		c.Z = s
	}
	return c
}

// Vec returns the unit vector of d in lattice space.
func (d Direction) Vec() v3.Vec {
	u := d.Unit()
	return v3.Vec{X: float64(u.X), Y: float64(u.Y), Z: float64(u.Z)}
}

// DirectionFromUnit returns the direction whose Unit() equals c.
func DirectionFromUnit(c Coord) (Direction, bool) {
	for _, d := range Directions() {
		if d.Unit() == c {
			return d, true
		}
	}
	return Direction{}, false
}

func (d Direction) String() string {
	if d.Orientation == Negative {
		return "-" + d.Axis.String()
	}
	return "+" + d.Axis.String()
}

// ParseDirection accepts the String form, e.g. "+x" or "-z".
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Direction{}, fmt.Errorf("grid: invalid direction %q", s)
	}
	var o Orientation
	switch s[0] {
	case '+':
		o = Positive
	case '-':
		o = Negative
	default:
		return Direction{}, fmt.Errorf("grid: invalid direction %q", s)
	}
	a, err := ParseAxis(s[1:])
	if err != nil {
		return Direction{}, fmt.Errorf("grid: invalid direction %q: %w", s, err)
	}
	return Direction{Axis: a, Orientation: o}, nil
}

// MarshalText encodes d as "+x", "-y", ...
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Axis.Valid() {
		return nil, fmt.Errorf("grid: cannot marshal invalid direction axis %d", int(d.Axis))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes the String form.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
