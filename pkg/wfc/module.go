package wfc

import (
	"fmt"
	"strings"

	"github.com/chazu/cellwfc/pkg/grid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Module is a named rigid assembly of unit cells. Its connectors and
// internal rules are derived once, at construction, and never change.
type Module struct {
	name          string
	geometry      []any
	frame         grid.Frame
	pivot         grid.Frame
	cellSize      v3.Vec
	submodules    []grid.Coord
	connectors    []Connector
	internalRules []RuleExplicit
	continuous    bool
}

// NewModule builds a user module. The name is trimmed and lowercased and
// must not be one of the reserved module names. Submodule coordinates are
// relative to frame and must be non-empty and pairwise distinct; every
// cellSize component must be positive. The geometry payload is kept as
// given and never inspected.
func NewModule(name string, geometry []any, frame grid.Frame, submodules []grid.Coord, cellSize v3.Vec) (*Module, error) {
	name = normalizeName(name)
	if IsReservedModuleName(name) {
		return nil, fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return newModule(name, geometry, frame, submodules, cellSize)
}

func newModule(name string, geometry []any, frame grid.Frame, submodules []grid.Coord, cellSize v3.Vec) (*Module, error) {
	if name == "" {
		return nil, fmt.Errorf("module: %w", ErrEmptyName)
	}
	if len(submodules) == 0 {
		return nil, fmt.Errorf("module %q: %w", name, ErrNoSubmodules)
	}
	if err := grid.ValidateCellSize(cellSize); err != nil {
		return nil, fmt.Errorf("module %q: %w", name, err)
	}
	index, err := indexSubmodules(submodules)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", name, err)
	}

	m := &Module{
		name:       name,
		geometry:   append([]any(nil), geometry...),
		frame:      frame,
		pivot:      frame.Moved(submodules[0].Vec().Mul(cellSize)),
		cellSize:   cellSize,
		submodules: append([]grid.Coord(nil), submodules...),
	}
	m.connectors = deriveConnectors(m, index)
	m.internalRules = deriveInternalRules(m, index)
	m.continuous = isContinuous(m.submodules, index)
	return m, nil
}

// EmptyModule returns the reserved module that leaves a slot empty.
func EmptyModule(frame grid.Frame, cellSize v3.Vec) (*Module, error) {
	return newModule(EmptyModuleName, nil, frame, []grid.Coord{{}}, cellSize)
}

// OutModule returns the reserved module that stands for space outside the
// world.
func OutModule(frame grid.Frame, cellSize v3.Vec) (*Module, error) {
	return newModule(OutModuleName, nil, frame, []grid.Coord{{}}, cellSize)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name returns the lowercase module name.
func (m *Module) Name() string { return m.name }

// Geometry returns a copy of the opaque geometry payload.
func (m *Module) Geometry() []any { return append([]any(nil), m.geometry...) }

// Frame returns the base frame the submodule coordinates are relative to.
func (m *Module) Frame() grid.Frame { return m.frame }

// Pivot returns the frame at the center of the first submodule, oriented
// like the base frame.
func (m *Module) Pivot() grid.Frame { return m.pivot }

// CellSize returns the size of one submodule.
func (m *Module) CellSize() v3.Vec { return m.cellSize }

// Submodules returns a copy of the submodule coordinates in construction
// order.
func (m *Module) Submodules() []grid.Coord {
	return append([]grid.Coord(nil), m.submodules...)
}

// SubmoduleCount returns the number of submodules.
func (m *Module) SubmoduleCount() int { return len(m.submodules) }

// SubmoduleName returns the name of submodule k, e.g. "corner_1".
func (m *Module) SubmoduleName(k int) string {
	return SubmoduleName(m.name, k)
}

// SubmoduleNames returns the names of all submodules in order.
func (m *Module) SubmoduleNames() []string {
	names := make([]string, len(m.submodules))
	for k := range m.submodules {
		names[k] = m.SubmoduleName(k)
	}
	return names
}

// SubmoduleName names submodule k of the module called module.
func SubmoduleName(module string, k int) string {
	return fmt.Sprintf("%s_%d", module, k)
}

// SubmoduleCenter returns the world-space center of submodule k.
func (m *Module) SubmoduleCenter(k int) v3.Vec {
	return m.submodules[k].ToCartesian(m.frame, m.cellSize)
}

// Connectors returns a copy of the derived connectors, ordered by index.
func (m *Module) Connectors() []Connector {
	return append([]Connector(nil), m.connectors...)
}

// ConnectorCount returns the number of connectors (six per submodule).
func (m *Module) ConnectorCount() int { return len(m.connectors) }

// ConnectorAt returns the connector with the given index.
func (m *Module) ConnectorAt(index int) (Connector, bool) {
	if index < 0 || index >= len(m.connectors) {
		return Connector{}, false
	}
	return m.connectors[index], true
}

// ExternalConnectors returns the connectors facing outside the module.
func (m *Module) ExternalConnectors() []Connector {
	var out []Connector
	for _, c := range m.connectors {
		if c.Valence == External {
			out = append(out, c)
		}
	}
	return out
}

// ConnectorsFacing returns the external connectors pointing along d.
func (m *Module) ConnectorsFacing(d grid.Direction) []Connector {
	var out []Connector
	for _, c := range m.connectors {
		if c.Valence == External && c.Direction == d {
			out = append(out, c)
		}
	}
	return out
}

// InternalRules returns a copy of the rules joining adjacent submodules.
func (m *Module) InternalRules() []RuleExplicit {
	return append([]RuleExplicit(nil), m.internalRules...)
}

// Continuous reports whether every submodule touches at least one sibling.
// Single-cell modules are always continuous.
func (m *Module) Continuous() bool { return m.continuous }

// IsReserved reports whether m is one of the reserved modules.
func (m *Module) IsReserved() bool { return IsReservedModuleName(m.name) }

// IsValid reports whether m can hold together when placed.
func (m *Module) IsValid() bool { return m.continuous }

// Explain describes why m is invalid, or returns "" for a valid module.
func (m *Module) Explain() string {
	if !m.continuous {
		return fmt.Sprintf("module %q is not continuous: some submodules have no face-adjacent sibling", m.name)
	}
	return ""
}

// TypedRules tags every external connector of m with connectorType.
func (m *Module) TypedRules(connectorType string) ([]RuleTyped, error) {
	var rules []RuleTyped
	for _, c := range m.connectors {
		if c.Valence != External {
			continue
		}
		r, err := NewRuleTyped(m.name, c.Index, connectorType)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (m *Module) String() string {
	return fmt.Sprintf("module %q (%d submodules)", m.name, len(m.submodules))
}
