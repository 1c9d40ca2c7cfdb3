package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServerConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil override yields all defaults", func(t *testing.T) {
		cfg := NewServerConfig(nil)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8081, cfg.Port)
	})

	t.Run("partial override keeps unset fields at defaults", func(t *testing.T) {
		cfg := NewServerConfig(&ServerConfig{Port: 9000})
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 9000, cfg.Port)

		cfg = NewServerConfig(&ServerConfig{Host: "0.0.0.0"})
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 8081, cfg.Port)
	})
}

func TestNewTemplates(t *testing.T) {
	t.Parallel()

	t.Run("nil override yields platform defaults", func(t *testing.T) {
		cfg := NewTemplates(nil)
		assert.Equal(t, "[bundleName].jsbundle", cfg.Filename["ios"])
		assert.Equal(t, "[bundleName].[platform].bundle", cfg.Filename["android"])
	})

	t.Run("override merges per platform", func(t *testing.T) {
		cfg := NewTemplates(&Templates{Filename: map[string]string{
			"ios": "[bundleName].custom",
			"web": "[bundleName].js",
		}})
		assert.Equal(t, "[bundleName].custom", cfg.Filename["ios"])
		assert.Equal(t, "[bundleName].[platform].bundle", cfg.Filename["android"])
		assert.Equal(t, "[bundleName].js", cfg.Filename["web"])
	})
}

func TestNewFeatures(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewFeatures(nil).MultiBundle)
	assert.Equal(t, 2, NewFeatures(&Features{MultiBundle: 2}).MultiBundle)
}

func TestResolveProjectDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty project resolves all defaults", func(t *testing.T) {
		d := ResolveProjectDefaults(&Project{}, EnvOptions{})
		assert.Equal(t, []string{"ios", "android"}, d.Platforms)
		assert.Equal(t, "localhost", d.Server.Host)
		assert.Equal(t, 1, d.Features.MultiBundle)
		assert.Empty(t, d.BundleNames)
	})

	t.Run("declared sections and bundle order survive", func(t *testing.T) {
		project := &Project{
			Server:    &ServerConfig{Port: 3000},
			Platforms: []string{"ios"},
			Bundles: []*BundleEntry{
				{Name: "base_dll"},
				{Name: "index"},
				{Name: "app1"},
			},
		}
		d := ResolveProjectDefaults(project, EnvOptions{})
		assert.Equal(t, []string{"ios"}, d.Platforms)
		assert.Equal(t, 3000, d.Server.Port)
		assert.Equal(t, []string{"base_dll", "index", "app1"}, d.BundleNames)
	})
}
