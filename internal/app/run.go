package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/packfold/packfold/internal/configuration"
	"github.com/packfold/packfold/internal/ctxlog"
	"github.com/packfold/packfold/internal/manifest"
)

// Run resolves the project into an ordered build plan and writes it out.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cfg := a.Configuration()
	defaults := cfg.Defaults()
	a.logger.Info("Project defaults resolved.",
		"platforms", defaults.Platforms,
		"server", fmt.Sprintf("%s:%d", defaults.Server.Host, defaults.Server.Port),
		"bundles", len(defaults.BundleNames))

	sorted, err := cfg.CreateBundlesSorted(ctx, nil, configuration.SortOptions{
		SkipHostCheck: a.config.SkipHostCheck,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve build plan: %w", err)
	}
	a.logger.Info("Build plan resolved.",
		"owned", len(cfg.OwnedBundles()),
		"external", len(cfg.ExternalBundles()))

	plan := manifest.FromBundles(a.config.Env, time.Now().UTC(), sorted)

	if a.config.PlanPath == "" {
		if err := plan.Write(a.outW); err != nil {
			return err
		}
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	f, err := os.Create(a.config.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()
	if err := plan.Write(f); err != nil {
		return err
	}
	a.logger.Info("Build plan written.", "path", a.config.PlanPath, "bundles", len(plan.Bundles))

	a.logger.Debug("App.Run method finished.")
	return nil
}
