package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packfold/packfold/internal/config"
)

func TestNewExternal_AssetsPathResolution(t *testing.T) {
	t.Parallel()

	t.Run("absent assets path defaults to the artifact directory", func(t *testing.T) {
		b := NewExternal("base", &config.ExternalDecl{BundlePath: "/dist/dll/base.bundle"})
		assert.Equal(t, "/dist/dll", b.AssetsPath())
	})

	t.Run("relative assets path resolves against the artifact directory", func(t *testing.T) {
		b := NewExternal("base", &config.ExternalDecl{
			BundlePath: "/dist/dll/base.bundle",
			AssetsPath: "assets",
		})
		assert.Equal(t, "/dist/dll/assets", b.AssetsPath())
	})

	t.Run("absolute assets path passes through", func(t *testing.T) {
		b := NewExternal("base", &config.ExternalDecl{
			BundlePath: "/dist/dll/base.bundle",
			AssetsPath: "/srv/assets",
		})
		assert.Equal(t, "/srv/assets", b.AssetsPath())
	})
}

func TestNewExternal_Defaults(t *testing.T) {
	t.Parallel()

	b := NewExternal("base", &config.ExternalDecl{BundlePath: "dist/base.bundle", DLL: true})
	assert.Equal(t, "base", b.Name())
	assert.Equal(t, config.KindDLL, b.Kind())
	assert.False(t, b.ShouldCopy())
	assert.Empty(t, b.ManifestPath())
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	platErr := &UnsupportedPlatformError{Bundle: "index", Platform: "web", Allowed: []string{"ios", "android"}}
	assert.Contains(t, platErr.Error(), `"web"`)
	assert.Contains(t, platErr.Error(), "ios, android")

	hostErr := &MissingHostBundleError{HostNames: []string{"index", "main", "host"}, Declared: []string{"app1"}}
	assert.Contains(t, hostErr.Error(), "index, main, host")
	assert.Contains(t, hostErr.Error(), "app1")

	cycleErr := &CyclicDependencyError{Chain: []string{"a", "b", "a"}}
	assert.Equal(t, "cyclic bundle dependency: a -> b -> a", cycleErr.Error())

	depErr := &UnresolvedDependencyError{Bundle: "index", Dependency: "ghost"}
	assert.Contains(t, depErr.Error(), `"ghost"`)
}
