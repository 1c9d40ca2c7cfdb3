package configuration

import (
	"context"
	"fmt"
	"slices"

	"github.com/packfold/packfold/internal/bundle"
	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/ctxlog"
	"github.com/packfold/packfold/internal/envprobe"
	"github.com/packfold/packfold/internal/resolver"
)

// Synthesizer produces the opaque bundler configuration for one owned
// bundle. It is treated as a black box: whatever it returns is attached to
// the bundle unmodified (unless a user transform replaces it).
type Synthesizer func(rt any, env config.EnvOptions, bundleName string, project *config.Project) (config.BundlerConfig, error)

// DefaultSynthesizer builds a minimal bundler config from the environment
// options. Callers with a real bundler inject their own via
// WithSynthesizer.
func DefaultSynthesizer(rt any, env config.EnvOptions, bundleName string, project *config.Project) (config.BundlerConfig, error) {
	return config.BundlerConfig{
		"bundle":   bundleName,
		"platform": env.Platform,
		"dev":      env.Dev,
	}, nil
}

// Configuration holds the resolved project-wide settings and, after
// CreateBundles has run, the registries of constructed bundle entities.
type Configuration struct {
	project  *config.Project
	env      config.EnvOptions
	defaults config.Defaults
	probe    envprobe.Environment
	synth    Synthesizer

	owned    []*bundle.Owned
	external []*bundle.External
}

// Option configures optional collaborators of a Configuration.
type Option func(*Configuration)

// WithSynthesizer injects the bundler config synthesizer.
func WithSynthesizer(s Synthesizer) Option {
	return func(c *Configuration) { c.synth = s }
}

// WithEnvProbe injects a fixed environment snapshot instead of probing the
// process environment. Used by tests and by callers that probe once.
func WithEnvProbe(probe envprobe.Environment) Option {
	return func(c *Configuration) { c.probe = probe }
}

// New resolves the project-wide defaults and returns a Configuration ready
// to create bundles.
func New(project *config.Project, env config.EnvOptions, opts ...Option) *Configuration {
	c := &Configuration{
		project:  project,
		env:      env,
		defaults: config.ResolveProjectDefaults(project, env),
		probe:    envprobe.Detect(),
		synth:    DefaultSynthesizer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Defaults returns the resolved project-wide settings.
func (c *Configuration) Defaults() config.Defaults { return c.defaults }

// OwnedBundles returns the owned bundles from the latest CreateBundles call.
func (c *Configuration) OwnedBundles() []*bundle.Owned {
	return slices.Clone(c.owned)
}

// ExternalBundles returns the external bundles from the latest
// CreateBundles call.
func (c *Configuration) ExternalBundles() []*bundle.External {
	return slices.Clone(c.external)
}

// CreateBundles resolves every declared bundle into an entity, in
// declaration order. The owned/external registries are cleared and rebuilt;
// a failure aborts the whole plan.
func (c *Configuration) CreateBundles(ctx context.Context, rt any) ([]bundle.Bundle, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating bundle entities.", "declared", len(c.project.Bundles))

	c.owned = nil
	c.external = nil

	bundles := make([]bundle.Bundle, 0, len(c.project.Bundles))
	for _, entry := range c.project.Bundles {
		b, err := c.createBundle(ctx, rt, entry)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}

	logger.Debug("Bundle entities created.", "owned", len(c.owned), "external", len(c.external))
	return bundles, nil
}

// createBundle materializes one declaration (invoking its builder function
// if needed) into an Owned or External entity and registers it.
func (c *Configuration) createBundle(ctx context.Context, rt any, entry *config.BundleEntry) (bundle.Bundle, error) {
	decl := entry.Decl
	if decl == nil {
		if entry.Builder == nil {
			return nil, fmt.Errorf("bundle %q: entry has neither a declaration nor a builder", entry.Name)
		}
		built, err := entry.Builder(c.env, rt)
		if err != nil {
			return nil, fmt.Errorf("bundle %q: builder failed: %w", entry.Name, err)
		}
		decl = built
	}

	switch decl.Variant {
	case config.DeclExternal:
		ext := bundle.NewExternal(entry.Name, decl.External)
		c.external = append(c.external, ext)
		return ext, nil

	case config.DeclOwned:
		props, err := resolver.Resolve(entry.Name, decl.Owned, c.env, c.defaults, c.probe)
		if err != nil {
			return nil, err
		}
		// Server-target builds run with an empty platform sentinel during
		// initial config loading, so the gate only applies to file builds.
		if c.env.Target != config.TargetServer && !slices.Contains(c.defaults.Platforms, props.Platform) {
			return nil, &bundle.UnsupportedPlatformError{
				Bundle:   entry.Name,
				Platform: props.Platform,
				Allowed:  c.defaults.Platforms,
			}
		}
		cfg, err := c.synth(rt, c.env, entry.Name, c.project)
		if err != nil {
			return nil, fmt.Errorf("bundle %q: config synthesis failed: %w", entry.Name, err)
		}
		if decl.Owned.Transform != nil {
			cfg = decl.Owned.Transform(config.TransformArgs{
				BundleName: entry.Name,
				Runtime:    rt,
				Env:        c.env,
				Config:     cfg,
			})
		}
		owned := bundle.NewOwned(entry.Name, props, cfg)
		c.owned = append(c.owned, owned)
		return owned, nil

	default:
		return nil, fmt.Errorf("bundle %q: unknown declaration variant %d", entry.Name, decl.Variant)
	}
}

// SortOptions tunes CreateBundlesSorted.
type SortOptions struct {
	// SkipHostCheck suppresses the error when no host bundle is declared.
	SkipHostCheck bool
}

// CreateBundlesSorted creates all bundle entities and returns them in a
// dependency-correct build order: shared-library bundles (with their
// hoisted dependency closure) first, then the host bundle, then application
// bundles in declaration order.
func (c *Configuration) CreateBundlesSorted(ctx context.Context, rt any, opts SortOptions) ([]bundle.Bundle, error) {
	bundles, err := c.CreateBundles(ctx, rt)
	if err != nil {
		return nil, err
	}
	sorted, err := sortBundles(bundles, opts.SkipHostCheck)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Bundles sorted for build.", "count", len(sorted))
	return sorted, nil
}
