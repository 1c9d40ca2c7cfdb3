// Package bundle defines the resolved build units produced by the planner:
// owned bundles built from entry modules, and external bundles that
// reference a prebuilt artifact. Entities are immutable after construction.
package bundle

import (
	"path/filepath"

	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/resolver"
)

// Bundle is the common view the sorter needs over both bundle variants.
type Bundle interface {
	// Name is the bundle's unique name within one planning run.
	Name() string
	// Kind classifies the bundle for build ordering.
	Kind() config.BundleKind
	// DependsOn lists the names of bundles this one depends on. The names
	// are lookup keys resolved at sort time, never entity references.
	DependsOn() []string
}

// Owned is a bundle built by this system from declared entry modules.
type Owned struct {
	name   string
	props  *resolver.Properties
	config config.BundlerConfig
}

// NewOwned constructs an owned bundle from its resolved properties and the
// synthesized bundler config.
func NewOwned(name string, props *resolver.Properties, cfg config.BundlerConfig) *Owned {
	return &Owned{name: name, props: props, config: cfg}
}

func (b *Owned) Name() string { return b.name }

func (b *Owned) Kind() config.BundleKind { return b.props.Kind }

func (b *Owned) DependsOn() []string { return b.props.DependsOn }

// Properties returns the resolved property record.
func (b *Owned) Properties() *resolver.Properties { return b.props }

// BundlerConfig returns the synthesized (and possibly user-transformed)
// build configuration for the downstream executor.
func (b *Owned) BundlerConfig() config.BundlerConfig { return b.config }

// External is a bundle whose artifact already exists on disk.
type External struct {
	name         string
	kind         config.BundleKind
	dependsOn    []string
	bundlePath   string
	manifestPath string
	assetsPath   string
	shouldCopy   bool
}

// NewExternal constructs an external bundle from its declaration. A
// relative assets path resolves against the directory containing the
// artifact; an absent one defaults to that directory.
func NewExternal(name string, decl *config.ExternalDecl) *External {
	artifactDir := filepath.Dir(decl.BundlePath)
	assetsPath := decl.AssetsPath
	switch {
	case assetsPath == "":
		assetsPath = artifactDir
	case !filepath.IsAbs(assetsPath):
		assetsPath = filepath.Join(artifactDir, assetsPath)
	}
	return &External{
		name:         name,
		kind:         decl.Kind(),
		dependsOn:    append([]string(nil), decl.DependsOn...),
		bundlePath:   decl.BundlePath,
		manifestPath: decl.ManifestPath,
		assetsPath:   assetsPath,
		shouldCopy:   decl.CopyBundle,
	}
}

func (b *External) Name() string { return b.name }

func (b *External) Kind() config.BundleKind { return b.kind }

func (b *External) DependsOn() []string { return b.dependsOn }

// BundlePath returns the path to the prebuilt artifact.
func (b *External) BundlePath() string { return b.bundlePath }

// ManifestPath returns the path to the artifact's module manifest, or "".
func (b *External) ManifestPath() string { return b.manifestPath }

// AssetsPath returns the resolved assets location.
func (b *External) AssetsPath() string { return b.assetsPath }

// ShouldCopy reports whether the artifact is copied into the output.
func (b *External) ShouldCopy() bool { return b.shouldCopy }
