package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/workbench/internal/project"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RepoRoot string
	Cell     string
	Ide      string
	Targets  []string

	WithTests             bool
	WithDependencyTests   bool
	CombinedProject       bool
	BuildWithExternalTool bool
	ExternalToolFlags     []string
	ReadOnly              bool
	CombineTestBundles    bool
	DryRun                bool
	Profiling             bool

	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates a Config and returns it ready for use.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RepoRoot == "" {
		return nil, errors.New("RepoRoot is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Ide != "" {
		if _, err := project.ParseKind(cfg.Ide); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
