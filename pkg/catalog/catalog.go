package catalog

import (
	"strings"

	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultCellSize is used when a script never sets a cell size.
var DefaultCellSize = v3.Vec{X: 1, Y: 1, Z: 1}

// ModuleSpec declares a module before it is built.
type ModuleSpec struct {
	Name     string       `json:"name" yaml:"name"`
	Origin   v3.Vec       `json:"origin" yaml:"origin"` // base frame origin in world space
	Cells    []grid.Coord `json:"cells" yaml:"cells"`
	Geometry []any        `json:"-" yaml:"-"`
}

// Frame returns the base frame of the module: world axes at Origin.
func (s ModuleSpec) Frame() grid.Frame {
	return grid.WorldXY.Moved(s.Origin)
}

// Catalog is the result of evaluating a rule script. It is never mutated
// after evaluation; each evaluation produces a new catalog.
type Catalog struct {
	CellSize v3.Vec `json:"cell_size" yaml:"cell_size"`

	// CellSizeSet is true once the script declared a cell size, even one
	// equal to DefaultCellSize.
	CellSizeSet bool         `json:"cell_size_set" yaml:"cell_size_set"`
	Modules     []ModuleSpec `json:"modules" yaml:"modules"`
	Rules       []wfc.Rule   `json:"-" yaml:"-"`
}

// New creates an empty catalog with the default cell size.
func New() *Catalog {
	return &Catalog{CellSize: DefaultCellSize}
}

// SetCellSize records a declared cell size.
func (c *Catalog) SetCellSize(size v3.Vec) {
	c.CellSize = size
	c.CellSizeSet = true
}

// AddModule appends a module declaration. It does not check for duplicates.
func (c *Catalog) AddModule(spec ModuleSpec) {
	c.Modules = append(c.Modules, spec)
}

// AddRule appends a rule.
func (c *Catalog) AddRule(r wfc.Rule) {
	c.Rules = append(c.Rules, r)
}

// Lookup returns the declaration with the given name (case-insensitive).
func (c *Catalog) Lookup(name string) (ModuleSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range c.Modules {
		if strings.ToLower(strings.TrimSpace(m.Name)) == name {
			return m, true
		}
	}
	return ModuleSpec{}, false
}

// ModuleCount returns the number of declared modules.
func (c *Catalog) ModuleCount() int { return len(c.Modules) }

// RuleCount returns the number of declared rules.
func (c *Catalog) RuleCount() int { return len(c.Rules) }
