// Package app wires the loader, the configuration engine, and the plan
// writer into the packfold application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/configuration"
	"github.com/packfold/packfold/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one planning invocation.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	project *config.Project
}

// NewApp constructs the application: it builds an isolated logger and loads
// the project model through the given loader. A failure to load the project
// is a fatal startup error and panics; the caller's run loop recovers it
// into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, err := loader.Load(ctx, appConfig.ProjectPath)
	if err != nil {
		panic(fmt.Errorf("failed to load project configuration: %w", err))
	}
	logger.Debug("Project configuration loaded.", "bundles", len(project.Bundles))

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		project: project,
	}
}

// Project returns the loaded project model. Primarily for testing.
func (a *App) Project() *config.Project { return a.project }

// Configuration builds a fresh resolution engine over the loaded project.
func (a *App) Configuration() *configuration.Configuration {
	return configuration.New(a.project, a.config.Env)
}
