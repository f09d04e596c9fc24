// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/lib/config"
)

// Globals holds the flags accepted by every command. The zero value
// uses the builtin configuration and info-level logging.
type Globals struct {
	// ConfigPath is the run config file. Empty falls back to the
	// TOOLHIERARCHY_CONFIG environment variable, then to the builtin
	// defaults.
	ConfigPath string

	// LogLevel overrides the config's log_level when set.
	LogLevel string

	config *config.Config
	logger *slog.Logger
}

// AddFlags binds --config and --log-level. Current values become the
// flag defaults, so binding again after a parse keeps what was parsed.
func (g *Globals) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&g.ConfigPath, "config", "c", g.ConfigPath,
		"run config file (default: $"+config.EnvVar+", then builtin defaults)")
	flagSet.StringVar(&g.LogLevel, "log-level", g.LogLevel,
		"log level: debug, info, warn, error (default: the config's log_level)")
}

// Config loads and validates the run configuration once per
// invocation.
func (g *Globals) Config() (*config.Config, error) {
	if g.config != nil {
		return g.config, nil
	}

	var cfg *config.Config
	var err error
	switch {
	case g.ConfigPath != "":
		cfg, err = config.LoadFile(g.ConfigPath)
	case os.Getenv(config.EnvVar) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid config: %w", err)
	}
	g.config = cfg
	return cfg, nil
}

// Logger returns the command logger at the effective level: --log-level
// if given, else the config's log_level, else info. A config that fails
// to load is not an error here; the command reports it when it loads
// the config itself.
func (g *Globals) Logger() (*slog.Logger, error) {
	if g.logger != nil {
		return g.logger, nil
	}
	name := g.LogLevel
	if name == "" {
		if cfg, err := g.Config(); err == nil {
			name = cfg.LogLevel
		}
	}
	level, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	g.logger = NewCommandLogger(level)
	return g.logger, nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, Validation("unknown log level %q (want debug, info, warn, or error)", name)
}

// String describes where the configuration comes from, for log lines.
func (g *Globals) String() string {
	switch {
	case g.ConfigPath != "":
		return g.ConfigPath
	case os.Getenv(config.EnvVar) != "":
		return fmt.Sprintf("$%s (%s)", config.EnvVar, os.Getenv(config.EnvVar))
	}
	return "builtin defaults"
}
