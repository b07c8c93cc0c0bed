package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/workbench/internal/parse"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	defaults *Defaults
	parser   parse.Parser
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger. A nil
// parser means the default build-file parser rooted at the configured
// repository; tests inject their own.
func NewApp(outW io.Writer, config *Config, parser parse.Parser) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	defaults, err := LoadDefaults(config.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("loading project defaults: %w", err)
	}
	logger.Debug("Project defaults loaded.", "ide", defaults.Ide, "initial_targets", len(defaults.InitialTargets))

	if parser == nil {
		parser, err = parse.NewHCL(config.RepoRoot, config.Cell, config.Workers)
		if err != nil {
			return nil, err
		}
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		defaults: defaults,
		parser:   parser,
	}, nil
}

// Defaults returns the loaded project defaults. This is primarily for
// testing.
func (a *App) Defaults() *Defaults {
	return a.defaults
}
