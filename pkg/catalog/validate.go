package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/wfc"
)

// ValidationSeverity indicates whether a finding blocks compilation or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks compilation
	SeverityWarning                           // the subject is excluded, compilation continues
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // module name or rule text ("" if catalog-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// ValidationWarning describes a non-blocking finding.
type ValidationWarning struct {
	Subject string
	Message string
}

func (w ValidationWarning) String() string {
	if w.Subject == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Subject, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory) from
// all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking error was found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// add files e under errors or warnings by severity.
func (r *ValidationResult) add(e ValidationError) {
	if e.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, ValidationWarning{Subject: e.Subject, Message: e.Message})
		return
	}
	r.Errors = append(r.Errors, e)
}

// Validate runs the Tier 1 structural checks on the declarations alone.
// It never builds modules and never mutates c.
func Validate(c *Catalog) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateCellSize(c)...)
	errs = append(errs, validateModuleNames(c)...)
	errs = append(errs, validateCells(c)...)
	errs = append(errs, validateRuleReferences(c)...)
	errs = append(errs, validateDuplicateRules(c)...)
	return errs
}

// ValidateAll runs the structural tier and, when it passes, builds the
// modules and runs the Tier 2 checks against real connectors.
func ValidateAll(ctx context.Context, c *Catalog, opts Options) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(c) {
		result.add(e)
	}
	if !result.OK() {
		return result
	}

	modules, err := Build(ctx, c, opts)
	if err != nil {
		result.add(ValidationError{Message: err.Error(), Severity: SeverityError})
		return result
	}
	for _, e := range validateBuilt(c, modules) {
		result.add(e)
	}
	return result
}

func validateCellSize(c *Catalog) []ValidationError {
	if err := grid.ValidateCellSize(c.CellSize); err != nil {
		return []ValidationError{{Message: err.Error(), Severity: SeverityError}}
	}
	return nil
}

// validateModuleNames checks that names are non-empty, not reserved, and
// unique ignoring case.
func validateModuleNames(c *Catalog) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, m := range c.Modules {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		switch {
		case name == "":
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("module #%d has an empty name", i+1),
				Severity: SeverityError,
			})
			continue
		case wfc.IsReservedModuleName(name):
			errs = append(errs, ValidationError{
				Subject:  name,
				Message:  "module name is reserved",
				Severity: SeverityError,
			})
		}
		if first, ok := seen[name]; ok {
			errs = append(errs, ValidationError{
				Subject:  name,
				Message:  fmt.Sprintf("duplicate module name (first declared as module #%d)", first+1),
				Severity: SeverityError,
			})
			continue
		}
		seen[name] = i
	}
	return errs
}

// validateCells checks that every module has cells and no cell twice.
func validateCells(c *Catalog) []ValidationError {
	var errs []ValidationError
	for _, m := range c.Modules {
		if len(m.Cells) == 0 {
			errs = append(errs, ValidationError{
				Subject:  m.Name,
				Message:  "module has no cells",
				Severity: SeverityError,
			})
			continue
		}
		seen := make(map[grid.Coord]bool, len(m.Cells))
		for _, cell := range m.Cells {
			if seen[cell] {
				errs = append(errs, ValidationError{
					Subject:  m.Name,
					Message:  fmt.Sprintf("cell %v declared twice", cell),
					Severity: SeverityError,
				})
			}
			seen[cell] = true
		}
	}
	return errs
}

// validateRuleReferences warns about rules naming modules that are neither
// declared nor reserved. Such rules are dropped at compile time.
func validateRuleReferences(c *Catalog) []ValidationError {
	known := func(name string) bool {
		if wfc.IsReservedModuleName(name) {
			return true
		}
		_, ok := c.Lookup(name)
		return ok
	}
	var errs []ValidationError
	for _, r := range c.Rules {
		switch v := r.(type) {
		case wfc.RuleExplicit:
			for _, name := range []string{v.SourceModule, v.TargetModule} {
				if !known(name) {
					errs = append(errs, ValidationError{
						Subject:  v.String(),
						Message:  fmt.Sprintf("unknown module %q", name),
						Severity: SeverityWarning,
					})
				}
			}
		case wfc.RuleTyped:
			if !known(v.Module) {
				errs = append(errs, ValidationError{
					Subject:  v.String(),
					Message:  fmt.Sprintf("unknown module %q", v.Module),
					Severity: SeverityWarning,
				})
			}
		case nil:
			errs = append(errs, ValidationError{
				Message:  "empty rule",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDuplicateRules warns when the same explicit rule (in either
// direction) or the same typed tag is declared more than once.
func validateDuplicateRules(c *Catalog) []ValidationError {
	var errs []ValidationError
	explicit, typed := wfc.SplitRules(c.Rules)

	seen := make(map[wfc.RuleExplicit]bool, len(explicit))
	for _, r := range explicit {
		key := r.Normalized()
		if seen[key] {
			errs = append(errs, ValidationError{
				Subject:  r.String(),
				Message:  "duplicate explicit rule",
				Severity: SeverityWarning,
			})
		}
		seen[key] = true
	}

	seenTyped := make(map[wfc.RuleTyped]bool, len(typed))
	for _, r := range typed {
		if seenTyped[r] {
			errs = append(errs, ValidationError{
				Subject:  r.String(),
				Message:  "duplicate typed rule",
				Severity: SeverityWarning,
			})
		}
		seenTyped[r] = true
	}
	return errs
}

// validateBuilt runs the Tier 2 checks: discontinuous modules, rules that
// do not resolve or pair same-facing connectors, and connector types that
// never find an opposite partner.
func validateBuilt(c *Catalog, modules *wfc.ModuleSet) []ValidationError {
	var errs []ValidationError
	for _, m := range modules.Modules() {
		if !m.IsValid() {
			errs = append(errs, ValidationError{
				Subject:  m.Name(),
				Message:  m.Explain() + "; excluded",
				Severity: SeverityWarning,
			})
		}
	}
	for _, r := range c.Rules {
		if r == nil {
			continue
		}
		if reason := ExplainRule(r, modules); reason != "" {
			errs = append(errs, ValidationError{
				Subject:  r.String(),
				Message:  reason + "; excluded",
				Severity: SeverityWarning,
			})
		}
	}
	if valid, err := validModules(modules); err == nil {
		errs = append(errs, validateTypePairs(c, valid)...)
	}
	return errs
}

// validateTypePairs warns about typed tags that cannot produce any
// explicit rule.
func validateTypePairs(c *Catalog, modules *wfc.ModuleSet) []ValidationError {
	_, typed := wfc.SplitRules(c.Rules)
	typed = append(typed, reservedRules(modules)...)

	var errs []ValidationError
	for _, r := range typed {
		if wfc.IsReservedModuleName(r.Module) || !r.IsValidWithModules(modules) {
			continue
		}
		if len(r.ToRuleExplicit(typed, modules)) == 0 {
			errs = append(errs, ValidationError{
				Subject:  r.String(),
				Message:  fmt.Sprintf("no opposite-facing connector carries type %q", r.Type),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
