package configuration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packfold/packfold/internal/bundle"
	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/configuration"
	"github.com/packfold/packfold/internal/envprobe"
)

func owned(name string, mutate func(*config.OwnedDecl)) *config.BundleEntry {
	decl := &config.OwnedDecl{
		Entry: config.Entry{Kind: config.EntrySingle, Single: name + ".js"},
	}
	if mutate != nil {
		mutate(decl)
	}
	return &config.BundleEntry{
		Name: name,
		Decl: &config.BundleDecl{Variant: config.DeclOwned, Owned: decl},
	}
}

func external(name string, mutate func(*config.ExternalDecl)) *config.BundleEntry {
	decl := &config.ExternalDecl{BundlePath: "dist/" + name + ".bundle"}
	if mutate != nil {
		mutate(decl)
	}
	return &config.BundleEntry{
		Name: name,
		Decl: &config.BundleDecl{Variant: config.DeclExternal, External: decl},
	}
}

func newConfiguration(project *config.Project, env config.EnvOptions, opts ...configuration.Option) *configuration.Configuration {
	opts = append([]configuration.Option{
		configuration.WithEnvProbe(envprobe.Environment{CI: false, NumCPU: 4}),
	}, opts...)
	return configuration.New(project, env, opts...)
}

func names(bundles []bundle.Bundle) []string {
	out := make([]string, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, b.Name())
	}
	return out
}

var iosEnv = config.EnvOptions{Platform: "ios"}

func TestCreateBundlesSorted_DLLClosureOrdering(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", func(d *config.OwnedDecl) { d.DependsOn = []string{"B"} }),
		owned("app1", nil),
		owned("B", func(d *config.OwnedDecl) { d.DLL = true; d.DependsOn = []string{"A"} }),
		owned("A", func(d *config.OwnedDecl) { d.DLL = true }),
	}}

	sorted, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "index", "app1"}, names(sorted))
}

func TestCreateBundlesSorted_HoistsNonDLLDependencies(t *testing.T) {
	t.Parallel()

	// "shared" is not a dll itself, but a dll depends on it, so it is
	// hoisted into the shared-library tier and must not reappear later.
	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", nil),
		owned("shared", nil),
		owned("lib", func(d *config.OwnedDecl) { d.DLL = true; d.DependsOn = []string{"shared"} }),
		owned("app1", nil),
	}}

	sorted, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "lib", "index", "app1"}, names(sorted))
}

func TestCreateBundlesSorted_MissingHost(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("app1", nil),
		owned("app2", nil),
	}}

	t.Run("fails without a reserved host name", func(t *testing.T) {
		_, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
		var hostErr *bundle.MissingHostBundleError
		require.ErrorAs(t, err, &hostErr)
		assert.Equal(t, []string{"app1", "app2"}, hostErr.Declared)
	})

	t.Run("skip-host-check tolerates it", func(t *testing.T) {
		sorted, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil,
			configuration.SortOptions{SkipHostCheck: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"app1", "app2"}, names(sorted))
	})
}

func TestCreateBundles_PlatformGate(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", func(d *config.OwnedDecl) { d.Platform = "web" }),
	}}

	t.Run("unsupported platform fails a file-target run", func(t *testing.T) {
		_, err := newConfiguration(project, config.EnvOptions{Target: config.TargetFile}).
			CreateBundles(context.Background(), nil)
		var platErr *bundle.UnsupportedPlatformError
		require.ErrorAs(t, err, &platErr)
		assert.Equal(t, "web", platErr.Platform)
		assert.Equal(t, []string{"ios", "android"}, platErr.Allowed)
	})

	t.Run("server target skips the gate", func(t *testing.T) {
		_, err := newConfiguration(project, config.EnvOptions{Target: config.TargetServer}).
			CreateBundles(context.Background(), nil)
		require.NoError(t, err)
	})
}

func TestCreateBundlesSorted_CyclicDependency(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", nil),
		owned("A", func(d *config.OwnedDecl) { d.DLL = true; d.DependsOn = []string{"B"} }),
		owned("B", func(d *config.OwnedDecl) { d.DLL = true; d.DependsOn = []string{"A"} }),
	}}

	_, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
	var cycleErr *bundle.CyclicDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "B", "A"}, cycleErr.Chain)
}

func TestCreateBundlesSorted_UnresolvedDependency(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", func(d *config.OwnedDecl) { d.DependsOn = []string{"ghost"} }),
	}}

	_, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
	var depErr *bundle.UnresolvedDependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "index", depErr.Bundle)
	assert.Equal(t, "ghost", depErr.Dependency)
}

func TestCreateBundles_IdempotentShapeFreshIdentity(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", nil),
		external("base_dll", func(d *config.ExternalDecl) { d.DLL = true }),
	}}
	cfg := newConfiguration(project, iosEnv)

	first, err := cfg.CreateBundles(context.Background(), nil)
	require.NoError(t, err)
	second, err := cfg.CreateBundles(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].Name(), second[i].Name())
		assert.Equal(t, first[i].Kind(), second[i].Kind())
		assert.NotSame(t, first[i], second[i], "each call must mint fresh entity instances")
	}

	ownedFirst := first[0].(*bundle.Owned)
	ownedSecond := second[0].(*bundle.Owned)
	assert.Equal(t, ownedFirst.Properties(), ownedSecond.Properties())

	// Registries reflect only the latest call.
	assert.Len(t, cfg.OwnedBundles(), 1)
	assert.Len(t, cfg.ExternalBundles(), 1)
	assert.Same(t, second[0], cfg.OwnedBundles()[0])
}

func TestCreateBundles_BuilderFunction(t *testing.T) {
	t.Parallel()

	type runtimeHandle struct{ tag string }
	rt := &runtimeHandle{tag: "run-1"}

	var gotEnv config.EnvOptions
	var gotRT any
	project := &config.Project{Bundles: []*config.BundleEntry{
		{
			Name: "index",
			Builder: func(env config.EnvOptions, rt any) (*config.BundleDecl, error) {
				gotEnv, gotRT = env, rt
				return &config.BundleDecl{
					Variant: config.DeclOwned,
					Owned: &config.OwnedDecl{
						Entry: config.Entry{Kind: config.EntrySingle, Single: "index.js"},
					},
				}, nil
			},
		},
	}}

	bundles, err := newConfiguration(project, iosEnv).CreateBundles(context.Background(), rt)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, iosEnv, gotEnv)
	assert.Same(t, rt, gotRT)

	t.Run("builder failure aborts the plan", func(t *testing.T) {
		failing := &config.Project{Bundles: []*config.BundleEntry{
			{
				Name: "broken",
				Builder: func(config.EnvOptions, any) (*config.BundleDecl, error) {
					return nil, errors.New("boom")
				},
			},
		}}
		_, err := newConfiguration(failing, iosEnv).CreateBundles(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `bundle "broken"`)
	})
}

func TestCreateBundles_SynthesisAndTransform(t *testing.T) {
	t.Parallel()

	synth := func(rt any, env config.EnvOptions, name string, project *config.Project) (config.BundlerConfig, error) {
		return config.BundlerConfig{"bundle": name, "synthesized": true}, nil
	}

	var gotArgs config.TransformArgs
	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", func(d *config.OwnedDecl) {
			d.Transform = func(args config.TransformArgs) config.BundlerConfig {
				gotArgs = args
				return config.BundlerConfig{"replaced": true}
			}
		}),
		owned("app1", nil),
	}}

	bundles, err := newConfiguration(project, iosEnv, configuration.WithSynthesizer(synth)).
		CreateBundles(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	transformed := bundles[0].(*bundle.Owned)
	assert.Equal(t, config.BundlerConfig{"replaced": true}, transformed.BundlerConfig(),
		"transform output replaces the synthesized config wholesale")
	assert.Equal(t, "index", gotArgs.BundleName)
	assert.Equal(t, iosEnv, gotArgs.Env)
	assert.Equal(t, config.BundlerConfig{"bundle": "index", "synthesized": true}, gotArgs.Config)

	untouched := bundles[1].(*bundle.Owned)
	assert.Equal(t, config.BundlerConfig{"bundle": "app1", "synthesized": true}, untouched.BundlerConfig())
}

func TestCreateBundlesSorted_ExternalDLLParticipates(t *testing.T) {
	t.Parallel()

	project := &config.Project{Bundles: []*config.BundleEntry{
		owned("index", func(d *config.OwnedDecl) { d.DependsOn = []string{"base_dll"} }),
		external("base_dll", func(d *config.ExternalDecl) { d.DLL = true }),
		owned("app1", nil),
	}}

	sorted, err := newConfiguration(project, iosEnv).CreateBundlesSorted(context.Background(), nil, configuration.SortOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"base_dll", "index", "app1"}, names(sorted))

	ext, ok := sorted[0].(*bundle.External)
	require.True(t, ok)
	assert.Equal(t, "dist/base_dll.bundle", ext.BundlePath())
	assert.Equal(t, "dist", ext.AssetsPath(), "assets default to the artifact's directory")
	assert.False(t, ext.ShouldCopy())
}

func TestIsHostName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"index", "main", "host"} {
		assert.True(t, configuration.IsHostName(name), name)
	}
	assert.False(t, configuration.IsHostName("app1"))
}
