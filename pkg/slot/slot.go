package slot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chazu/cellwfc/pkg/grid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNegativeCount is returned when the submodule universe size is negative.
var ErrNegativeCount = errors.New("slot: submodule count must not be negative")

// Slot is the remaining candidate set of one world-grid cell. The zero value
// allows nothing. All fields are unexported and every With* method returns
// a new Slot; slices are copied on the way in and on the way out.
type Slot struct {
	frame                 grid.Frame
	center                grid.Coord
	cellSize              v3.Vec
	allowsAny             bool
	allowedModuleNames    []string
	allowedSubmoduleNames []string
	allSubmodulesCount    int
}

// New builds a slot at center, relative to frame. Every cellSize component
// must be positive and allSubmodulesCount must not be negative.
func New(frame grid.Frame, center grid.Coord, cellSize v3.Vec, allowsAny bool,
	moduleNames, submoduleNames []string, allSubmodulesCount int) (Slot, error) {
	if err := grid.ValidateCellSize(cellSize); err != nil {
		return Slot{}, fmt.Errorf("slot %v: %w", center, err)
	}
	if allSubmodulesCount < 0 {
		return Slot{}, fmt.Errorf("slot %v: %w (got %d)", center, ErrNegativeCount, allSubmodulesCount)
	}
	return Slot{
		frame:                 frame,
		center:                center,
		cellSize:              cellSize,
		allowsAny:             allowsAny,
		allowedModuleNames:    slices.Clone(moduleNames),
		allowedSubmoduleNames: slices.Clone(submoduleNames),
		allSubmodulesCount:    allSubmodulesCount,
	}, nil
}

// Any builds a slot that still allows every module.
func Any(frame grid.Frame, center grid.Coord, cellSize v3.Vec) (Slot, error) {
	return New(frame, center, cellSize, true, nil, nil, 0)
}

// Frame returns the base frame the center is relative to.
func (s Slot) Frame() grid.Frame { return s.frame }

// RelativeCenter returns the grid coordinate of the slot.
func (s Slot) RelativeCenter() grid.Coord { return s.center }

// CellSize returns the size of the cell.
func (s Slot) CellSize() v3.Vec { return s.cellSize }

// Center returns the world-space center of the cell.
func (s Slot) Center() v3.Vec { return s.center.ToCartesian(s.frame, s.cellSize) }

// Pivot returns a frame at the cell center oriented like the base frame.
func (s Slot) Pivot() grid.Frame { return s.frame.Moved(s.center.Vec().Mul(s.cellSize)) }

// AllowsAny reports whether no restriction has been applied yet.
func (s Slot) AllowsAny() bool { return s.allowsAny }

// AllowedModuleNames returns a copy of the allowed module names.
func (s Slot) AllowedModuleNames() []string { return slices.Clone(s.allowedModuleNames) }

// AllowedSubmoduleNames returns a copy of the allowed submodule names.
func (s Slot) AllowedSubmoduleNames() []string { return slices.Clone(s.allowedSubmoduleNames) }

// AllSubmodulesCount returns the size of the submodule universe.
func (s Slot) AllSubmodulesCount() int { return s.allSubmodulesCount }

// AllowsNothing reports a contradiction: the slot neither allows any module
// nor names one.
func (s Slot) AllowsNothing() bool {
	return !s.allowsAny && len(s.allowedModuleNames) == 0
}

// IsValid reports whether the slot is well-formed, i.e. not a contradiction.
func (s Slot) IsValid() bool { return !s.AllowsNothing() }

// IsDeterministic reports whether exactly one submodule remains.
func (s Slot) IsDeterministic() bool {
	return !s.allowsAny && len(s.allowedSubmoduleNames) == 1
}

// WithAllowedModuleNames returns a copy of s with names as the allowed
// module names. The allows-any flag is left as it is.
func (s Slot) WithAllowedModuleNames(names []string) Slot {
	s.allowedModuleNames = slices.Clone(names)
	return s
}

// WithAllowsAny returns a copy of s with the allows-any flag replaced.
// Clearing it on a slot that names no module yields a contradiction.
func (s Slot) WithAllowsAny(allowsAny bool) Slot {
	s.allowsAny = allowsAny
	return s
}

// WithAllSubmodulesCount returns a copy of s with a new universe size.
func (s Slot) WithAllSubmodulesCount(count int) (Slot, error) {
	if count < 0 {
		return Slot{}, fmt.Errorf("slot %v: %w (got %d)", s.center, ErrNegativeCount, count)
	}
	s.allSubmodulesCount = count
	return s, nil
}

// WithAllowedSubmodules replaces the allowed submodule names and the
// universe size together.
func (s Slot) WithAllowedSubmodules(names []string, count int) (Slot, error) {
	if count < 0 {
		return Slot{}, fmt.Errorf("slot %v: %w (got %d)", s.center, ErrNegativeCount, count)
	}
	s.allowedSubmoduleNames = slices.Clone(names)
	s.allSubmodulesCount = count
	return s, nil
}

// Equal reports whether s and o hold the same values.
func (s Slot) Equal(o Slot) bool {
	return s.frame == o.frame &&
		s.center == o.center &&
		s.cellSize == o.cellSize &&
		s.allowsAny == o.allowsAny &&
		slices.Equal(s.allowedModuleNames, o.allowedModuleNames) &&
		slices.Equal(s.allowedSubmoduleNames, o.allowedSubmoduleNames) &&
		s.allSubmodulesCount == o.allSubmodulesCount
}

func (s Slot) String() string {
	switch {
	case s.allowsAny:
		return fmt.Sprintf("slot %v: any", s.center)
	case s.AllowsNothing():
		return fmt.Sprintf("slot %v: contradiction", s.center)
	}
	return fmt.Sprintf("slot %v: %d/%d submodules of %v",
		s.center, len(s.allowedSubmoduleNames), s.allSubmodulesCount, s.allowedModuleNames)
}
