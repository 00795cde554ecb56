package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/cellwfc/pkg/wfc"
	"golang.org/x/sync/errgroup"
)

// ErrInvalid is returned by Compile when validation finds blocking errors.
var ErrInvalid = errors.New("catalog: validation failed")

// Compiled is the solver-ready form of a catalog.
type Compiled struct {
	// Modules holds every valid module, reserved ones included.
	Modules *wfc.ModuleSet
	// Explicit holds every usable explicit rule: declared, expanded from
	// typed rules, and internal. Each physical pairing appears once.
	Explicit []wfc.RuleExplicit
	// SolverRules is the deduplicated canonical form of Explicit.
	SolverRules []wfc.SolverRule
	// Validation holds the findings; Errors is always empty on success.
	Validation ValidationResult
}

// Compile validates c, builds its modules, expands typed rules, and
// canonicalizes the result. Modules and rules that fail validation are
// excluded and reported as warnings; structural errors abort with
// ErrInvalid.
func Compile(ctx context.Context, c *Catalog, opts Options) (*Compiled, error) {
	var result ValidationResult
	for _, e := range Validate(c) {
		result.add(e)
	}
	if !result.OK() {
		return &Compiled{Validation: result}, fmt.Errorf("%w: %s", ErrInvalid, result.Errors[0])
	}

	all, err := Build(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	for _, e := range validateBuilt(c, all) {
		result.add(e)
	}

	modules, err := validModules(all)
	if err != nil {
		return nil, err
	}

	explicit, typed := wfc.SplitRules(c.Rules)
	typed = append(typed, reservedRules(modules)...)

	expanded, err := expandTyped(ctx, typed, modules, opts)
	if err != nil {
		return nil, err
	}
	explicit = append(explicit, expanded...)
	for _, m := range modules.Modules() {
		explicit = append(explicit, m.InternalRules()...)
	}
	explicit = dedupExplicit(explicit, modules)

	solver := make([]wfc.SolverRule, 0, len(explicit))
	for _, r := range explicit {
		if sr, ok := r.ToSolverRule(modules); ok {
			solver = append(solver, sr)
		}
	}

	return &Compiled{
		Modules:     modules,
		Explicit:    explicit,
		SolverRules: wfc.DedupSolverRules(solver),
		Validation:  result,
	}, nil
}

// validModules drops modules that fail Module.IsValid.
func validModules(all *wfc.ModuleSet) (*wfc.ModuleSet, error) {
	var keep []*wfc.Module
	for _, m := range all.Modules() {
		if m.IsValid() {
			keep = append(keep, m)
		}
	}
	return wfc.NewModuleSet(keep...)
}

// expandTyped expands every typed rule against all others concurrently.
// Each expansion only reads the finished module set.
func expandTyped(ctx context.Context, typed []wfc.RuleTyped, modules *wfc.ModuleSet, opts Options) ([]wfc.RuleExplicit, error) {
	results := make([][]wfc.RuleExplicit, len(typed))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, r := range typed {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.ToRuleExplicit(typed, modules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("expand typed rules: %w", err)
	}

	var out []wfc.RuleExplicit
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out, nil
}

// dedupExplicit keeps one rule per physical pairing, drops rules that are
// not valid against modules, and sorts the result.
func dedupExplicit(rules []wfc.RuleExplicit, modules *wfc.ModuleSet) []wfc.RuleExplicit {
	seen := make(map[wfc.RuleExplicit]bool, len(rules))
	out := make([]wfc.RuleExplicit, 0, len(rules))
	for _, r := range rules {
		key := r.Normalized()
		if seen[key] || !r.IsValidWithModules(modules) {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SourceModule != b.SourceModule {
			return a.SourceModule < b.SourceModule
		}
		if a.SourceConnector != b.SourceConnector {
			return a.SourceConnector < b.SourceConnector
		}
		if a.TargetModule != b.TargetModule {
			return a.TargetModule < b.TargetModule
		}
		return a.TargetConnector < b.TargetConnector
	})
	return out
}
