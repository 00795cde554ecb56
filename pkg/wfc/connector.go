package wfc

import (
	"fmt"

	"github.com/chazu/cellwfc/pkg/grid"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Valence tells whether a connector faces a sibling submodule or the
// outside of its module.
type Valence int

const (
	External Valence = iota // faces outside the module
	Internal                // faces another submodule of the same module
)

func (v Valence) String() string {
	switch v {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("Valence(%d)", int(v))
	}
}

// MarshalText encodes the valence as "external" or "internal".
func (v Valence) MarshalText() ([]byte, error) {
	switch v {
	case External, Internal:
		return []byte(v.String()), nil
	}
	return nil, fmt.Errorf("wfc: cannot marshal invalid valence %d", int(v))
}

// UnmarshalText decodes "external" or "internal".
func (v *Valence) UnmarshalText(b []byte) error {
	switch string(b) {
	case "external":
		*v = External
	case "internal":
		*v = Internal
	default:
		return fmt.Errorf("wfc: invalid valence %q", b)
	}
	return nil
}

// FaceShape describes the rectangular face a connector sits on, in world
// space. U and V span the face; Size holds its extent along U and V.
type FaceShape struct {
	Normal v3.Vec `json:"normal" yaml:"normal"`
	U      v3.Vec `json:"u" yaml:"u"`
	V      v3.Vec `json:"v" yaml:"v"`
	Size   v2.Vec `json:"size" yaml:"size"`
}

// Connector is one face of one submodule. Connectors only exist as part of
// a Module's derived list and compare with ==.
type Connector struct {
	ModuleName    string         `json:"module" yaml:"module"`
	SubmoduleName string         `json:"submodule" yaml:"submodule"`
	Index         int            `json:"index" yaml:"index"`
	Direction     grid.Direction `json:"direction" yaml:"direction"`
	Valence       Valence        `json:"valence" yaml:"valence"`
	Anchor        v3.Vec         `json:"anchor" yaml:"anchor"`
	Face          FaceShape      `json:"face" yaml:"face"`
}

// ConnectorIndex returns the index of the face of submodule k pointing
// along d.
func ConnectorIndex(submodule int, d grid.Direction) int {
	return submodule*grid.FaceCount + d.FaceIndex()
}

// SubmoduleIndex returns the submodule a connector index belongs to.
func SubmoduleIndex(connector int) int {
	return connector / grid.FaceCount
}

func (c Connector) String() string {
	return fmt.Sprintf("%s:%d (%s %s)", c.ModuleName, c.Index, c.Direction, c.Valence)
}

// faceAxes returns the two lattice axes spanning a face perpendicular to d,
// in cyclic order so that U x V points along the positive axis.
func faceAxes(d grid.Direction) (u, v grid.Axis) {
	switch d.Axis {
	case grid.AxisX:
		return grid.AxisY, grid.AxisZ
	case grid.AxisY:
		return grid.AxisZ, grid.AxisX
	default:
		return grid.AxisX, grid.AxisY
	}
}

func axisVec(a grid.Axis) v3.Vec {
	return grid.Direction{Axis: a, Orientation: grid.Positive}.Vec()
}

func component(v v3.Vec, a grid.Axis) float64 {
	switch a {
	case grid.AxisX:
		return v.X
	case grid.AxisY:
		return v.Y
	default:
		return v.Z
	}
}
