package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Target selects what the planned bundles are built for.
type Target string

const (
	// TargetFile plans bundles written to disk.
	TargetFile Target = "file"
	// TargetServer plans bundles served by the development server.
	TargetServer Target = "server"
)

// BundleKind classifies a bundle for build ordering.
type BundleKind string

const (
	// KindDefault is an ordinary bundle with no ordering privileges.
	KindDefault BundleKind = "default"
	// KindDLL is a shared-library bundle loaded by other bundles at
	// runtime; it and its dependency closure build first.
	KindDLL BundleKind = "dll"
	// KindApp is an on-demand application bundle.
	KindApp BundleKind = "app"
)

// Project is the root declaration of a multi-bundle project. It is
// constructed once by a Loader and read-only thereafter.
type Project struct {
	// Server overrides the development server settings; nil means all
	// defaults.
	Server *ServerConfig
	// Platforms is the platform allow-list; empty means the default set.
	Platforms []string
	// Templates overrides the per-platform output filename templates.
	Templates *Templates
	// Features overrides the project feature flags.
	Features *Features
	// Bundles holds the declared bundles in declaration order. Order is
	// load-bearing: the sorter emits application bundles in this order.
	Bundles []*BundleEntry
}

// Bundle returns the entry declared under the given name, or nil.
func (p *Project) Bundle(name string) *BundleEntry {
	for _, b := range p.Bundles {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// BundleNames returns the declared bundle names in declaration order.
func (p *Project) BundleNames() []string {
	names := make([]string, 0, len(p.Bundles))
	for _, b := range p.Bundles {
		names = append(names, b.Name)
	}
	return names
}

// DeclBuilder produces a bundle declaration from the environment options
// and an opaque runtime handle. It lets Go callers declare bundles whose
// shape depends on the invocation.
type DeclBuilder func(env EnvOptions, rt any) (*BundleDecl, error)

// BundleEntry names one declared bundle. Exactly one of Decl or Builder is
// set: Decl for a static declaration, Builder for one computed per run.
type BundleEntry struct {
	Name    string
	Decl    *BundleDecl
	Builder DeclBuilder
}

// DeclVariant discriminates the two bundle declaration shapes.
type DeclVariant int

const (
	// DeclOwned declares a bundle built by this system from entry modules.
	DeclOwned DeclVariant = iota
	// DeclExternal declares a prebuilt artifact that is only referenced.
	DeclExternal
)

// BundleDecl is the tagged union of the two declaration shapes. The variant
// is decided once at parse time; consumers switch on Variant instead of
// probing for field presence.
type BundleDecl struct {
	Variant  DeclVariant
	Owned    *OwnedDecl
	External *ExternalDecl
}

// EntryKind discriminates the accepted entry shapes of an owned bundle.
type EntryKind int

const (
	// EntrySingle is a bare module path.
	EntrySingle EntryKind = iota
	// EntryList is a list of module paths.
	EntryList
	// EntryStructured splits entry modules from setup (preload) modules.
	EntryStructured
)

// Entry is the declared entry point of an owned bundle in one of its three
// accepted shapes. Normalization into input and preload module lists is the
// resolver's job.
type Entry struct {
	Kind       EntryKind
	Single     string
	Files      []string
	SetupFiles []string
}

// OwnedDecl declares a bundle built from source. Pointer fields distinguish
// "explicitly set" from "absent" so the resolver can apply its layered
// precedence; zero-valued non-pointer fields simply mean unset.
type OwnedDecl struct {
	Entry      Entry
	Platform   string
	Root       string
	Dev        *bool
	AssetsDest string
	BundleType string

	Minify        *bool
	MinifyOptions map[string]cty.Value

	SourceMap     *bool
	SourceMapDest string
	LooseMode     *bool

	DLL bool
	App bool

	DependsOn []string

	ProvidesModuleNodeModules []string
	HasteOptions              map[string]cty.Value

	MaxWorkers int

	// Transform, when set, post-processes the synthesized bundler config.
	Transform Transform
}

// Kind derives the bundle kind from the dll/app flags.
func (d *OwnedDecl) Kind() BundleKind {
	switch {
	case d.DLL:
		return KindDLL
	case d.App:
		return KindApp
	default:
		return KindDefault
	}
}

// ExternalDecl declares a prebuilt bundle artifact.
type ExternalDecl struct {
	DLL bool
	App bool

	DependsOn []string

	// BundlePath is the path to the prebuilt artifact. Required.
	BundlePath string
	// ManifestPath points at the artifact's module manifest, if any.
	ManifestPath string
	// AssetsPath points at the artifact's assets. A relative path resolves
	// against the directory containing BundlePath; absent defaults to that
	// directory.
	AssetsPath string
	// CopyBundle requests copying the artifact into the output directory.
	CopyBundle bool
}

// Kind derives the bundle kind from the dll/app flags.
func (d *ExternalDecl) Kind() BundleKind {
	switch {
	case d.DLL:
		return KindDLL
	case d.App:
		return KindApp
	default:
		return KindDefault
	}
}

// EnvOptions is the immutable, per-invocation snapshot of environment and
// CLI sourced overrides. Declaration values take precedence over these;
// these take precedence over computed defaults.
type EnvOptions struct {
	Platform   string
	Dev        bool
	Target     Target
	OutputPath string
	BundleType string
	AssetsDest string
	Root       string
	Minify     bool
	MaxWorkers int
}

// BundlerConfig is the opaque build configuration synthesized for an owned
// bundle. This layer never interprets it; it only threads it through to the
// downstream executor.
type BundlerConfig map[string]any

// TransformArgs is the payload handed to a user transform callback.
type TransformArgs struct {
	BundleName string
	Runtime    any
	Env        EnvOptions
	Config     BundlerConfig
}

// Transform post-processes a synthesized bundler config. Its return value
// replaces the config wholesale.
type Transform func(args TransformArgs) BundlerConfig
