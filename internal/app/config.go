package app

import (
	"errors"
	"fmt"

	"github.com/packfold/packfold/internal/config"
)

// Config holds everything an App instance needs to run one planning pass.
type Config struct {
	// ProjectPath is the .hcl project file or a directory of them.
	ProjectPath string
	// PlanPath is where the YAML build plan is written; empty means the
	// app's output writer.
	PlanPath string

	LogFormat string
	LogLevel  string

	// SkipHostCheck tolerates a project without a host bundle.
	SkipHostCheck bool

	// Env is the per-invocation environment option snapshot handed to the
	// resolution engine.
	Env config.EnvOptions
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	switch cfg.Env.Target {
	case config.TargetFile, config.TargetServer:
	default:
		return nil, fmt.Errorf("invalid target %q: must be %q or %q", cfg.Env.Target, config.TargetFile, config.TargetServer)
	}
	return &cfg, nil
}
