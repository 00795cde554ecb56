package wfc

// Rule is either a RuleExplicit or a RuleTyped. A nil Rule is the invalid
// default; no value can be both.
type Rule interface {
	rule() // marker method restricting implementations to this package
	String() string
}

func (RuleExplicit) rule() {}
func (RuleTyped) rule()    {}

// IsExplicit reports whether r holds an explicit rule.
func IsExplicit(r Rule) bool {
	_, ok := r.(RuleExplicit)
	return ok
}

// IsTyped reports whether r holds a typed rule.
func IsTyped(r Rule) bool {
	_, ok := r.(RuleTyped)
	return ok
}

// SplitRules separates a mixed rule list into its explicit and typed parts.
// Nil entries are dropped.
func SplitRules(rules []Rule) (explicit []RuleExplicit, typed []RuleTyped) {
	for _, r := range rules {
		switch v := r.(type) {
		case RuleExplicit:
			explicit = append(explicit, v)
		case RuleTyped:
			typed = append(typed, v)
		}
	}
	return explicit, typed
}

// IsValidWithModules checks r against real connectors. A nil rule is
// never valid.
func IsValidWithModules(r Rule, modules ConnectorResolver) bool {
	switch v := r.(type) {
	case RuleExplicit:
		return v.IsValidWithModules(modules)
	case RuleTyped:
		return v.IsValidWithModules(modules)
	}
	return false
}

// Explain returns why r is not valid against modules, or "" if it is.
func Explain(r Rule, modules ConnectorResolver) string {
	switch v := r.(type) {
	case RuleExplicit:
		return v.Explain(modules)
	case RuleTyped:
		return v.Explain(modules)
	}
	return "rule is empty"
}
