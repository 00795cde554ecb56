package wfc

import (
	"fmt"

	"github.com/chazu/cellwfc/pkg/grid"
)

// RuleExplicit allows one specific connector to touch another. Equality is
// symmetric: (A,i,B,j) equals (B,j,A,i).
type RuleExplicit struct {
	SourceModule    string `json:"source_module" yaml:"source_module" toml:"source_module"`
	SourceConnector int    `json:"source_connector" yaml:"source_connector" toml:"source_connector"`
	TargetModule    string `json:"target_module" yaml:"target_module" toml:"target_module"`
	TargetConnector int    `json:"target_connector" yaml:"target_connector" toml:"target_connector"`
}

// NewRuleExplicit lowercases both module names and rejects empty names and
// negative connector indices.
func NewRuleExplicit(sourceModule string, sourceConnector int, targetModule string, targetConnector int) (RuleExplicit, error) {
	sourceModule = normalizeName(sourceModule)
	targetModule = normalizeName(targetModule)
	if sourceModule == "" || targetModule == "" {
		return RuleExplicit{}, fmt.Errorf("explicit rule: %w", ErrEmptyName)
	}
	if sourceConnector < 0 || targetConnector < 0 {
		return RuleExplicit{}, fmt.Errorf("explicit rule %s:%d -> %s:%d: %w",
			sourceModule, sourceConnector, targetModule, targetConnector, ErrNegativeIndex)
	}
	return RuleExplicit{
		SourceModule:    sourceModule,
		SourceConnector: sourceConnector,
		TargetModule:    targetModule,
		TargetConnector: targetConnector,
	}, nil
}

// Reversed swaps source and target.
func (r RuleExplicit) Reversed() RuleExplicit {
	return RuleExplicit{
		SourceModule:    r.TargetModule,
		SourceConnector: r.TargetConnector,
		TargetModule:    r.SourceModule,
		TargetConnector: r.SourceConnector,
	}
}

// Equal reports whether r and o describe the same connector pair, in
// either order.
func (r RuleExplicit) Equal(o RuleExplicit) bool {
	return r == o || r == o.Reversed()
}

// Normalized returns the endpoint order with the smaller (module, index)
// first. Equal rules have identical normalized forms, which makes them
// usable as map keys.
func (r RuleExplicit) Normalized() RuleExplicit {
	if r.TargetModule < r.SourceModule ||
		(r.TargetModule == r.SourceModule && r.TargetConnector < r.SourceConnector) {
		return r.Reversed()
	}
	return r
}

// IsValid is the context-free structural check: a connector may not
// connect to itself.
func (r RuleExplicit) IsValid() bool {
	return !(r.SourceModule == r.TargetModule && r.SourceConnector == r.TargetConnector)
}

// IsValidXOR reproduces the legacy predicate that accepted a rule only when
// exactly one of "same module" and "same connector index" held. Note that
// it rejects rules such as a:0 -> b:3; prefer IsValid.
func (r RuleExplicit) IsValidXOR() bool {
	return (r.SourceModule == r.TargetModule) != (r.SourceConnector == r.TargetConnector)
}

// IsValidWithModules reports whether both endpoints resolve to real
// connectors that face opposite directions.
func (r RuleExplicit) IsValidWithModules(modules ConnectorResolver) bool {
	return r.Explain(modules) == ""
}

// Explain returns why r is not valid against modules, or "".
func (r RuleExplicit) Explain(modules ConnectorResolver) string {
	if !r.IsValid() {
		return fmt.Sprintf("%s connects a connector to itself", r)
	}
	src, ok := modules.Connector(r.SourceModule, r.SourceConnector)
	if !ok {
		return fmt.Sprintf("%s: source connector %s:%d does not exist", r, r.SourceModule, r.SourceConnector)
	}
	dst, ok := modules.Connector(r.TargetModule, r.TargetConnector)
	if !ok {
		return fmt.Sprintf("%s: target connector %s:%d does not exist", r, r.TargetModule, r.TargetConnector)
	}
	if !src.Direction.IsOpposite(dst.Direction) {
		return fmt.Sprintf("%s: connectors face %s and %s, not opposite directions", r, src.Direction, dst.Direction)
	}
	return ""
}

// ToSolverRule canonicalizes r. Each endpoint is resolved against its own
// module. The submodule owning the positive-facing connector becomes the
// lower side, so A->B and B->A yield the same SolverRule. It returns false
// when r is not valid against modules.
func (r RuleExplicit) ToSolverRule(modules ConnectorResolver) (SolverRule, bool) {
	if !r.IsValidWithModules(modules) {
		return SolverRule{}, false
	}
	src, _ := modules.Connector(r.SourceModule, r.SourceConnector)
	dst, _ := modules.Connector(r.TargetModule, r.TargetConnector)
	if src.Direction.Orientation == grid.Positive {
		return SolverRule{Axis: src.Direction.Axis, Lower: src.SubmoduleName, Higher: dst.SubmoduleName}, true
	}
	return SolverRule{Axis: dst.Direction.Axis, Lower: dst.SubmoduleName, Higher: src.SubmoduleName}, true
}

func (r RuleExplicit) String() string {
	return fmt.Sprintf("%s:%d -> %s:%d", r.SourceModule, r.SourceConnector, r.TargetModule, r.TargetConnector)
}
