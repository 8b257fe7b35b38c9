// Package config loads the TOML configuration of the command line driver.
// It configures driver behavior only; allocator semantics never come from a
// file.
package config

import (
	"bytes"
	"os"

	"github.com/eh-steve/jitmem"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// FileName is the configuration file the driver looks for when no --config
// flag is given.
const FileName = "jitmem.toml"

// Config drives cmd/jitmem.
type Config struct {
	Run RunConfig `toml:"run"`
	Log LogConfig `toml:"log"`
}

// RunConfig configures the run subcommand.
type RunConfig struct {
	// Align is the entry alignment for images that do not ask for one.
	Align int `toml:"align"`

	// Freeze flips every pool to read-only after the images ran.
	Freeze bool `toml:"freeze"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is the minimum level logged: debug, info, warn or error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Run: RunConfig{Align: jitmem.FuncAlign},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML configuration file on top of the defaults. Unknown
// keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if a := c.Run.Align; a < jitmem.MinAlign || a > jitmem.MaxAlign || a&(a-1) != 0 {
		return errors.Errorf("run.align %d is not a power of two between %d and %d",
			a, jitmem.MinAlign, jitmem.MaxAlign)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
