// Package cmd contains the cellwfc CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chazu/cellwfc/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "cellwfc",
	Short: "Compile cell-based module rules for a wave-function-collapse solver",
	Long: `cellwfc evaluates a rule script that declares modules made of grid cells
and the rules that let their faces touch, and compiles them into the
canonical adjacency rules and slot candidates an external solver consumes.`,
	SilenceUsage: true,
}

// Execute runs the root command. An *ExitError sets the exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .cellwfc.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.StringP("output", "o", "", "solver document path, - for stdout (default solver.yaml)")
	flags.String("format", "", "solver document format: yaml, toml or json (default from output extension)")

	for _, key := range []string{"verbose", "output", "format"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".cellwfc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CELLWFC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig loads the configuration and a logger writing to the command's
// error stream.
func loadConfig(cmd *cobra.Command) (config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg), nil
}

func newLogger(w io.Writer, cfg config.Config) *log.Logger {
	level := cfg.Level()
	return log.NewWithOptions(w, log.Options{
		Prefix:          "cellwfc",
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
	})
}

// commandContext returns the command's context, or Background when the
// command was run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
