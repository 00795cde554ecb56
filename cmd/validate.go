package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/cellwfc/pkg/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script.wfc>",
	Short: "Report errors and warnings in a rule script",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := evaluateScript(args[0], cfg, logger)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	ctx := commandContext(cmd)
	result := catalog.ValidateAll(ctx, cat, catalog.Options{Workers: cfg.Workers})

	out := cmd.OutOrStdout()
	for _, e := range result.Errors {
		fmt.Fprintln(out, e.Error())
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "[warning] %s\n", w)
	}
	if !result.OK() {
		return &ExitError{Code: 1, Err: fmt.Errorf("validation failed with %d error(s)", len(result.Errors))}
	}
	fmt.Fprintf(out, "%s: %d module(s), %d rule(s), %d warning(s)\n",
		args[0], cat.ModuleCount(), cat.RuleCount(), len(result.Warnings))
	return nil
}
