// Package config loads generator settings from defaults, an optional config
// file and ATTACKGEN_* environment variables.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"

	"github.com/hailam/attackgen/internal/board"
)

// Config holds the settings of one generation run.
type Config struct {
	OutDir         string   `mapstructure:"out_dir"`
	Workers        int      `mapstructure:"workers"`
	Magics         bool     `mapstructure:"magics"`
	MagicSeed      uint64   `mapstructure:"magic_seed"`
	StoreDir       string   `mapstructure:"store_dir"` // "" disables, "default" is the per-user store
	Diagrams       bool     `mapstructure:"diagrams"`
	DiagramSquares []string `mapstructure:"diagram_squares"`
	DiagramSize    int      `mapstructure:"diagram_size"`
	LogLevel       string   `mapstructure:"log_level"`
}

const envPrefix = "ATTACKGEN"

func setDefaults(v *viper.Viper) {
	v.SetDefault("out_dir", "data")
	v.SetDefault("workers", runtime.GOMAXPROCS(0))
	v.SetDefault("magics", false)
	v.SetDefault("magic_seed", 1)
	v.SetDefault("store_dir", "")
	v.SetDefault("diagrams", false)
	v.SetDefault("diagram_squares", []string{"a1", "d4"})
	v.SetDefault("diagram_size", 320)
	v.SetDefault("log_level", "info")
}

// New returns a viper instance with defaults and environment binding. When
// path is not empty the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is New followed by Decode.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate checks the settings for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("config: out_dir is empty")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Diagrams {
		if c.DiagramSize < 8 {
			return fmt.Errorf("config: diagram_size %d is too small", c.DiagramSize)
		}
		if _, err := c.Squares(); err != nil {
			return err
		}
	}
	return nil
}

// Squares parses DiagramSquares.
func (c *Config) Squares() ([]board.Square, error) {
	squares := make([]board.Square, 0, len(c.DiagramSquares))
	for _, s := range c.DiagramSquares {
		sq, err := board.ParseSquare(s)
		if err != nil {
			return nil, fmt.Errorf("config: diagram_squares: %w", err)
		}
		squares = append(squares, sq)
	}
	return squares, nil
}
