package wfc

import (
	"fmt"
	"sort"

	"github.com/chazu/cellwfc/pkg/grid"
)

// SolverRule is the canonical adjacency consumed by the solver: the
// submodule Lower sits directly below Higher along Axis.
type SolverRule struct {
	Axis   grid.Axis `json:"axis" yaml:"axis" toml:"axis"`
	Lower  string    `json:"lower" yaml:"lower" toml:"lower"`
	Higher string    `json:"higher" yaml:"higher" toml:"higher"`
}

// NewSolverRule builds a SolverRule from an axis label ("x", "y" or "z").
func NewSolverRule(axisLabel, lower, higher string) (SolverRule, error) {
	var axis grid.Axis
	switch axisLabel {
	case "x":
		axis = grid.AxisX
	case "y":
		axis = grid.AxisY
	case "z":
		axis = grid.AxisZ
	default:
		return SolverRule{}, fmt.Errorf("%w: got %q", ErrAxisLabel, axisLabel)
	}
	if lower == "" || higher == "" {
		return SolverRule{}, fmt.Errorf("solver rule: %w", ErrEmptyName)
	}
	return SolverRule{Axis: axis, Lower: lower, Higher: higher}, nil
}

// AxisLabel returns "x", "y" or "z".
func (r SolverRule) AxisLabel() string { return r.Axis.String() }

func (r SolverRule) String() string {
	return fmt.Sprintf("%s: %s < %s", r.Axis, r.Lower, r.Higher)
}

// SortSolverRules orders rules by axis, then lower, then higher.
func SortSolverRules(rules []SolverRule) {
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Axis != b.Axis {
			return a.Axis < b.Axis
		}
		if a.Lower != b.Lower {
			return a.Lower < b.Lower
		}
		return a.Higher < b.Higher
	})
}

// DedupSolverRules returns rules without duplicates, sorted.
func DedupSolverRules(rules []SolverRule) []SolverRule {
	seen := make(map[SolverRule]struct{}, len(rules))
	out := make([]SolverRule, 0, len(rules))
	for _, r := range rules {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	SortSolverRules(out)
	return out
}
