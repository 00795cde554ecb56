package wfc

import "fmt"

// RuleTyped tags one connector with a connector type. Two typed rules with
// the same type whose connectors face opposite directions imply an
// explicit rule between those connectors.
type RuleTyped struct {
	Module    string `json:"module" yaml:"module" toml:"module"`
	Connector int    `json:"connector" yaml:"connector" toml:"connector"`
	Type      string `json:"type" yaml:"type" toml:"type"`
}

// NewRuleTyped lowercases the module name and type and rejects an empty
// name, a negative index or an empty type.
func NewRuleTyped(module string, connector int, connectorType string) (RuleTyped, error) {
	module = normalizeName(module)
	connectorType = normalizeName(connectorType)
	if module == "" {
		return RuleTyped{}, fmt.Errorf("typed rule: %w", ErrEmptyName)
	}
	if connector < 0 {
		return RuleTyped{}, fmt.Errorf("typed rule %s:%d: %w", module, connector, ErrNegativeIndex)
	}
	if connectorType == "" {
		return RuleTyped{}, fmt.Errorf("typed rule %s:%d: %w", module, connector, ErrEmptyType)
	}
	return RuleTyped{Module: module, Connector: connector, Type: connectorType}, nil
}

// IsValid is always true: the constructor already rejects malformed input.
func (r RuleTyped) IsValid() bool { return true }

// IsValidWithModules reports whether the tagged connector exists.
func (r RuleTyped) IsValidWithModules(modules ConnectorResolver) bool {
	_, ok := modules.Connector(r.Module, r.Connector)
	return ok
}

// Explain returns why r is not valid against modules, or "".
func (r RuleTyped) Explain(modules ConnectorResolver) string {
	if r.IsValidWithModules(modules) {
		return ""
	}
	return fmt.Sprintf("%s: connector %s:%d does not exist", r, r.Module, r.Connector)
}

// ToRuleExplicit pairs r with every rule in others that carries the same
// type and whose connector faces the opposite direction. Rules that do not
// resolve are skipped, so the result may be empty.
func (r RuleTyped) ToRuleExplicit(others []RuleTyped, modules ConnectorResolver) []RuleExplicit {
	src, ok := modules.Connector(r.Module, r.Connector)
	if !ok {
		return nil
	}
	var out []RuleExplicit
	for _, o := range others {
		if o.Type != r.Type {
			continue
		}
		dst, ok := modules.Connector(o.Module, o.Connector)
		if !ok || !src.Direction.IsOpposite(dst.Direction) {
			continue
		}
		out = append(out, RuleExplicit{
			SourceModule:    r.Module,
			SourceConnector: r.Connector,
			TargetModule:    o.Module,
			TargetConnector: o.Connector,
		})
	}
	return out
}

func (r RuleTyped) String() string {
	return fmt.Sprintf("%s:%d = %s", r.Module, r.Connector, r.Type)
}
