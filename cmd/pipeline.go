package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/chazu/cellwfc/internal/config"
	"github.com/chazu/cellwfc/pkg/catalog"
	"github.com/chazu/cellwfc/pkg/engine"
	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/slot"
	"github.com/chazu/cellwfc/pkg/solverio"
)

// evaluateScript reads and evaluates the rule script at path. Script
// errors are logged with their positions. The configured cell size applies
// only when the script never declares one.
func evaluateScript(path string, cfg config.Config, logger *log.Logger) (*catalog.Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine()
	eng.SetTimeout(cfg.EvalTimeout)
	cat, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("script error", "file", path, "line", e.Line, "col", e.Col, "msg", e.Message)
		}
		return nil, fmt.Errorf("evaluate %s: %d script error(s)", path, len(evalErrs))
	}

	if !cat.CellSizeSet {
		size, err := cfg.CellSizeVec()
		if err != nil {
			return nil, err
		}
		withSize := *cat
		withSize.CellSize = size
		cat = &withSize
	}
	logger.Debug("evaluated script", "file", path, "modules", cat.ModuleCount(), "rules", cat.RuleCount())
	return cat, nil
}

// compileScript evaluates and compiles the script at path, logging
// validation findings.
func compileScript(ctx context.Context, path string, cfg config.Config, logger *log.Logger) (*catalog.Catalog, *catalog.Compiled, error) {
	cat, err := evaluateScript(path, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	compiled, err := catalog.Compile(ctx, cat, catalog.Options{Workers: cfg.Workers})
	if compiled != nil {
		for _, w := range compiled.Validation.Warnings {
			logger.Warn(w.Message, "subject", w.Subject)
		}
	}
	if err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			for _, e := range compiled.Validation.Errors {
				logger.Error(e.Message, "subject", e.Subject)
			}
		}
		return nil, nil, err
	}
	logger.Debug("compiled", "modules", compiled.Modules.Len(),
		"explicit", len(compiled.Explicit), "solver_rules", len(compiled.SolverRules))
	return cat, compiled, nil
}

// worldDocument fills the configured slot box, surrounds it with the out
// boundary and expands every slot against the compiled modules.
func worldDocument(cat *catalog.Catalog, compiled *catalog.Compiled, cfg config.Config) (solverio.Document, error) {
	lo, hi, err := cfg.SlotBox()
	if err != nil {
		return solverio.Document{}, err
	}
	slots, err := slot.Fill(grid.WorldXY, cat.CellSize, lo, hi)
	if err != nil {
		return solverio.Document{}, err
	}
	boundary, err := slot.Boundary(grid.WorldXY, cat.CellSize, lo, hi)
	if err != nil {
		return solverio.Document{}, err
	}
	expanded, err := slot.Expand(append(slots, boundary...), compiled.Modules)
	if err != nil {
		return solverio.Document{}, err
	}
	return solverio.FromCompiled(compiled, cat.CellSize, expanded), nil
}
