package catalog

import (
	"context"
	"fmt"

	"github.com/chazu/cellwfc/pkg/wfc"
	"golang.org/x/sync/errgroup"
)

// Options tune Build and Compile.
type Options struct {
	// Workers limits parallel module construction and rule expansion.
	// Zero or negative means no limit.
	Workers int
}

// Build constructs every declared module concurrently, followed by the
// reserved empty and out modules. The first construction error aborts the
// build.
func Build(ctx context.Context, c *Catalog, opts Options) (*wfc.ModuleSet, error) {
	built := make([]*wfc.Module, len(c.Modules))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, spec := range c.Modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := wfc.NewModule(spec.Name, spec.Geometry, spec.Frame(), spec.Cells, c.CellSize)
			if err != nil {
				return err
			}
			built[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build modules: %w", err)
	}

	reserved, err := reservedModules(c)
	if err != nil {
		return nil, err
	}
	return wfc.NewModuleSet(append(built, reserved...)...)
}

// reservedModules builds the single-cell empty and out modules at the
// world origin.
func reservedModules(c *Catalog) ([]*wfc.Module, error) {
	empty, err := wfc.EmptyModule(ModuleSpec{}.Frame(), c.CellSize)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", wfc.EmptyModuleName, err)
	}
	out, err := wfc.OutModule(ModuleSpec{}.Frame(), c.CellSize)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", wfc.OutModuleName, err)
	}
	return []*wfc.Module{empty, out}, nil
}

// reservedRules tags every face of the reserved modules as indifferent.
func reservedRules(modules *wfc.ModuleSet) []wfc.RuleTyped {
	var rules []wfc.RuleTyped
	for _, name := range []string{wfc.EmptyModuleName, wfc.OutModuleName} {
		m, ok := modules.Lookup(name)
		if !ok {
			continue
		}
		typed, err := m.TypedRules(wfc.IndifferentType)
		if err != nil {
			continue
		}
		rules = append(rules, typed...)
	}
	return rules
}
