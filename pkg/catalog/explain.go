package catalog

import (
	"fmt"

	"github.com/chazu/cellwfc/pkg/wfc"
)

// ExplainRule returns a human-readable reason r would be excluded from the
// solver input, or "" if r is usable. Unlike wfc.Explain it tells an
// unknown module apart from an out-of-range connector, and reports rules
// that touch a module Compile drops as discontinuous.
func ExplainRule(r wfc.Rule, modules *wfc.ModuleSet) string {
	switch v := r.(type) {
	case wfc.RuleExplicit:
		if !v.IsValid() {
			return "connector is paired with itself"
		}
		if reason := explainEndpoint(v.SourceModule, v.SourceConnector, modules); reason != "" {
			return "source " + reason
		}
		if reason := explainEndpoint(v.TargetModule, v.TargetConnector, modules); reason != "" {
			return "target " + reason
		}
		src, _ := modules.Connector(v.SourceModule, v.SourceConnector)
		dst, _ := modules.Connector(v.TargetModule, v.TargetConnector)
		if !src.Direction.IsOpposite(dst.Direction) {
			return fmt.Sprintf("connectors face %s and %s, not opposite directions", src.Direction, dst.Direction)
		}
		return ""
	case wfc.RuleTyped:
		return explainEndpoint(v.Module, v.Connector, modules)
	}
	return "rule is empty"
}

func explainEndpoint(module string, index int, modules *wfc.ModuleSet) string {
	m, ok := modules.Lookup(module)
	if !ok {
		return fmt.Sprintf("module %q does not exist", module)
	}
	if !m.IsValid() {
		return fmt.Sprintf("module %q is excluded as discontinuous", m.Name())
	}
	if _, ok := m.ConnectorAt(index); !ok {
		return fmt.Sprintf("connector %d is out of range (module %q has %d connectors)",
			index, m.Name(), m.ConnectorCount())
	}
	return ""
}
