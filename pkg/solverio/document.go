package solverio

import (
	"fmt"
	"slices"

	"github.com/chazu/cellwfc/pkg/catalog"
	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/slot"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Version is the document schema version.
const Version = 1

// SlotRecord is the serialized candidate set of one slot.
type SlotRecord struct {
	At         grid.Coord `json:"at" yaml:"at" toml:"at"`
	AllowsAny  bool       `json:"allows_any,omitempty" yaml:"allows_any,omitempty" toml:"allows_any,omitempty"`
	Modules    []string   `json:"modules,omitempty" yaml:"modules,omitempty" toml:"modules,omitempty"`
	Submodules []string   `json:"submodules,omitempty" yaml:"submodules,omitempty" toml:"submodules,omitempty"`
}

// Document is the solver hand-off.
type Document struct {
	Version    int              `json:"version" yaml:"version" toml:"version"`
	CellSize   [3]float64       `json:"cell_size" yaml:"cell_size,flow" toml:"cell_size"`
	Submodules []string         `json:"submodules" yaml:"submodules" toml:"submodules"`
	Rules      []wfc.SolverRule `json:"rules" yaml:"rules" toml:"rules"`
	Slots      []SlotRecord     `json:"slots,omitempty" yaml:"slots,omitempty" toml:"slots,omitempty"`
}

// FromCompiled builds a document from a compiled catalog and the world
// slots. Slots are recorded in the given order.
func FromCompiled(c *catalog.Compiled, cellSize v3.Vec, slots []slot.Slot) Document {
	doc := Document{
		Version:  Version,
		CellSize: [3]float64{cellSize.X, cellSize.Y, cellSize.Z},
	}
	if c != nil {
		if c.Modules != nil {
			doc.Submodules = c.Modules.SubmoduleNames()
		}
		doc.Rules = slices.Clone(c.SolverRules)
	}
	for _, s := range slots {
		doc.Slots = append(doc.Slots, SlotRecord{
			At:         s.RelativeCenter(),
			AllowsAny:  s.AllowsAny(),
			Modules:    s.AllowedModuleNames(),
			Submodules: s.AllowedSubmoduleNames(),
		})
	}
	return doc
}

// ToSlots rebuilds the slots of d in frame. The universe size is the length
// of d.Submodules.
func (d Document) ToSlots(frame grid.Frame) ([]slot.Slot, error) {
	cellSize := v3.Vec{X: d.CellSize[0], Y: d.CellSize[1], Z: d.CellSize[2]}
	out := make([]slot.Slot, 0, len(d.Slots))
	for _, r := range d.Slots {
		s, err := slot.New(frame, r.At, cellSize, r.AllowsAny, r.Modules, r.Submodules, len(d.Submodules))
		if err != nil {
			return nil, fmt.Errorf("solverio: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks that every rule and slot only names known submodules.
func (d Document) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("%w: got %d, want %d", ErrVersion, d.Version, Version)
	}
	known := make(map[string]struct{}, len(d.Submodules))
	for _, name := range d.Submodules {
		known[name] = struct{}{}
	}
	for _, r := range d.Rules {
		for _, name := range []string{r.Lower, r.Higher} {
			if _, ok := known[name]; !ok {
				return fmt.Errorf("%w: rule %s names %q", ErrUnknownSubmodule, r, name)
			}
		}
	}
	for _, s := range d.Slots {
		for _, name := range s.Submodules {
			if _, ok := known[name]; !ok {
				return fmt.Errorf("%w: slot %v names %q", ErrUnknownSubmodule, s.At, name)
			}
		}
	}
	return nil
}
