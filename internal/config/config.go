package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/solverio"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/viper"
)

// SlotsConfig is the world box, in grid coordinates, filled with slots.
type SlotsConfig struct {
	Min []int `mapstructure:"min"`
	Max []int `mapstructure:"max"`
}

// Config holds all runtime configuration for a cellwfc run.
// Values are populated from .cellwfc.yaml, CELLWFC_* env vars, and CLI flags.
type Config struct {
	CellSize    []float64     `mapstructure:"cell_size"`
	Output      string        `mapstructure:"output"`
	Format      string        `mapstructure:"format"`
	LogLevel    string        `mapstructure:"log_level"`
	Verbose     bool          `mapstructure:"verbose"`
	Workers     int           `mapstructure:"workers"`
	EvalTimeout time.Duration `mapstructure:"eval_timeout"`
	Slots       SlotsConfig   `mapstructure:"slots"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("cell_size", []float64{1, 1, 1})
	viper.SetDefault("output", "solver.yaml")
	viper.SetDefault("format", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("verbose", false)
	viper.SetDefault("workers", 0)
	viper.SetDefault("eval_timeout", 5*time.Second)
	viper.SetDefault("slots.min", []int{0, 0, 0})
	viper.SetDefault("slots.max", []int{4, 4, 4})

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot type-check.
func (c Config) Validate() error {
	if _, err := c.CellSizeVec(); err != nil {
		return err
	}
	if c.Format != "" {
		if _, err := solverio.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("config: format: %w", err)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.EvalTimeout < 0 {
		return fmt.Errorf("config: eval_timeout must not be negative, got %s", c.EvalTimeout)
	}
	if _, _, err := c.SlotBox(); err != nil {
		return err
	}
	return nil
}

// CellSizeVec returns the cell size. A single value is used on every axis.
func (c Config) CellSizeVec() (v3.Vec, error) {
	var size v3.Vec
	switch len(c.CellSize) {
	case 1:
		size = v3.Vec{X: c.CellSize[0], Y: c.CellSize[0], Z: c.CellSize[0]}
	case 3:
		size = v3.Vec{X: c.CellSize[0], Y: c.CellSize[1], Z: c.CellSize[2]}
	default:
		return v3.Vec{}, fmt.Errorf("config: cell_size needs 1 or 3 values, got %d", len(c.CellSize))
	}
	if err := grid.ValidateCellSize(size); err != nil {
		return v3.Vec{}, fmt.Errorf("config: %w", err)
	}
	return size, nil
}

// SlotBox returns the corners of the slot box.
func (c Config) SlotBox() (lo, hi grid.Coord, err error) {
	if lo, err = coord("slots.min", c.Slots.Min); err != nil {
		return
	}
	if hi, err = coord("slots.max", c.Slots.Max); err != nil {
		return
	}
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		err = fmt.Errorf("config: slots.min %v exceeds slots.max %v", lo, hi)
	}
	return
}

func coord(key string, v []int) (grid.Coord, error) {
	if len(v) != 3 {
		return grid.Coord{}, fmt.Errorf("config: %s needs 3 values, got %d", key, len(v))
	}
	return grid.Coord{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Level returns the log level, lowered to debug when Verbose is set.
func (c Config) Level() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// OutputFormat returns the configured format, or the one implied by the
// output file extension.
func (c Config) OutputFormat() solverio.Format {
	if f, err := solverio.ParseFormat(c.Format); err == nil {
		return f
	}
	return solverio.FormatFromPath(c.Output, solverio.FormatYAML)
}
