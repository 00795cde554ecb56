package grid

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrCellSize is returned when a cell size has a non-positive component.
var ErrCellSize = errors.New("grid: cell size components must be positive")

// ErrDegenerateFrame is returned when frame axes are zero or parallel.
var ErrDegenerateFrame = errors.New("grid: frame axes are degenerate")

// frameEpsilon is the length below which an axis is treated as zero.
const frameEpsilon = 1e-9

// Frame is a right-handed orthonormal coordinate system placed in world
// space. Frames compare with ==.
type Frame struct {
	Origin v3.Vec `json:"origin" yaml:"origin" toml:"origin"`
	XAxis  v3.Vec `json:"x_axis" yaml:"x_axis" toml:"x_axis"`
	YAxis  v3.Vec `json:"y_axis" yaml:"y_axis" toml:"y_axis"`
	ZAxis  v3.Vec `json:"z_axis" yaml:"z_axis" toml:"z_axis"`
}

// WorldXY is the world frame: origin at zero, axes along X, Y, Z.
var WorldXY = Frame{
	XAxis: v3.Vec{X: 1},
	YAxis: v3.Vec{Y: 1},
	ZAxis: v3.Vec{Z: 1},
}

// NewFrame builds a frame from an origin and two in-plane directions. The
// X axis keeps the direction of xAxis; the Y axis is re-orthogonalized
// against it and Z completes the right-handed system.
func NewFrame(origin, xAxis, yAxis v3.Vec) (Frame, error) {
	x, ok := unit(xAxis)
	if !ok {
		return Frame{}, fmt.Errorf("%w: zero x axis", ErrDegenerateFrame)
	}
	z, ok := unit(x.Cross(yAxis))
	if !ok {
		return Frame{}, fmt.Errorf("%w: x and y axes are parallel", ErrDegenerateFrame)
	}
	y := z.Cross(x)
	return Frame{Origin: origin, XAxis: x, YAxis: y, ZAxis: z}, nil
}

func unit(v v3.Vec) (v3.Vec, bool) {
	l := v.Length()
	if l < frameEpsilon {
		return v3.Vec{}, false
	}
	return v.MulScalar(1 / l), true
}

// ToWorld maps a point given in frame coordinates into world space.
func (f Frame) ToWorld(local v3.Vec) v3.Vec {
	return f.Origin.
		Add(f.XAxis.MulScalar(local.X)).
		Add(f.YAxis.MulScalar(local.Y)).
		Add(f.ZAxis.MulScalar(local.Z))
}

// ToLocal maps a world point into frame coordinates. It relies on the axes
// being orthonormal.
func (f Frame) ToLocal(world v3.Vec) v3.Vec {
	d := world.Sub(f.Origin)
	return v3.Vec{X: d.Dot(f.XAxis), Y: d.Dot(f.YAxis), Z: d.Dot(f.ZAxis)}
}

// ToWorldDirection rotates a frame-local direction into world space
// without translating it.
func (f Frame) ToWorldDirection(local v3.Vec) v3.Vec {
	return f.ToWorld(local).Sub(f.Origin)
}

// Moved returns a frame with the same axes and its origin at the given
// frame-local point.
func (f Frame) Moved(local v3.Vec) Frame {
	f.Origin = f.ToWorld(local)
	return f
}
