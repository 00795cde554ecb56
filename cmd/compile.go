package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/cellwfc/internal/config"
	"github.com/chazu/cellwfc/pkg/solverio"
)

var compileCmd = &cobra.Command{
	Use:   "compile <script.wfc>",
	Short: "Compile a rule script into a solver document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return compileAndWrite(cmd, args[0], cfg, logger)
}

func compileAndWrite(cmd *cobra.Command, path string, cfg config.Config, logger *log.Logger) error {
	ctx := commandContext(cmd)
	cat, compiled, err := compileScript(ctx, path, cfg, logger)
	if err != nil {
		return err
	}
	doc, err := worldDocument(cat, compiled, cfg)
	if err != nil {
		return err
	}

	format := cfg.OutputFormat()
	if cfg.Output == "-" {
		return solverio.Encode(cmd.OutOrStdout(), doc, format)
	}
	if err := solverio.WriteFile(cfg.Output, doc, format); err != nil {
		return err
	}
	logger.Info("wrote solver document", "path", cfg.Output, "format", format,
		"rules", len(doc.Rules), "slots", len(doc.Slots))
	return nil
}
