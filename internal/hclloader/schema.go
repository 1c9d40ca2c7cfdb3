package hclloader

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes all top-level blocks a project file may carry.
type fileRoot struct {
	Platforms []string         `hcl:"platforms,optional"`
	Server    *serverBlock     `hcl:"server,block"`
	Templates *templatesBlock  `hcl:"templates,block"`
	Features  *featuresBlock   `hcl:"features,block"`
	Bundles   []*bundleBlock   `hcl:"bundle,block"`
	Externals []*externalBlock `hcl:"external_bundle,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// serverBlock is the `server` block: development server overrides.
type serverBlock struct {
	Host string `hcl:"host,optional"`
	Port int    `hcl:"port,optional"`
}

// templatesBlock is the `templates` block: per-platform output filename
// templates.
type templatesBlock struct {
	Filename map[string]string `hcl:"filename,optional"`
}

// featuresBlock is the `features` block: project feature flags.
type featuresBlock struct {
	MultiBundle int `hcl:"multi_bundle,optional"`
}

// bundleBlock is a `bundle "<name>"` block declaring an owned bundle. The
// entry attribute stays an expression because it is shape-discriminated: a
// bare string, a list of strings, or an object with entry_files and
// setup_files.
type bundleBlock struct {
	Name string `hcl:"name,label"`

	Entry      hcl.Expression `hcl:"entry"`
	Platform   string         `hcl:"platform,optional"`
	Root       string         `hcl:"root,optional"`
	Dev        *bool          `hcl:"dev,optional"`
	AssetsDest string         `hcl:"assets_dest,optional"`
	BundleType string         `hcl:"bundle_type,optional"`

	Minify        *bool          `hcl:"minify,optional"`
	MinifyOptions hcl.Expression `hcl:"minify_options,optional"`

	SourceMap     *bool  `hcl:"source_map,optional"`
	SourceMapDest string `hcl:"source_map_dest,optional"`
	LooseMode     *bool  `hcl:"loose_mode,optional"`

	DLL bool `hcl:"dll,optional"`
	App bool `hcl:"app,optional"`

	DependsOn []string `hcl:"depends_on,optional"`

	ProvidesModuleNodeModules []string       `hcl:"provides_module_node_modules,optional"`
	HasteOptions              hcl.Expression `hcl:"haste_options,optional"`

	MaxWorkers int `hcl:"max_workers,optional"`
}

// externalBlock is an `external_bundle "<name>"` block referencing a
// prebuilt artifact.
type externalBlock struct {
	Name string `hcl:"name,label"`

	BundlePath   string `hcl:"bundle_path"`
	ManifestPath string `hcl:"manifest_path,optional"`
	AssetsPath   string `hcl:"assets_path,optional"`
	CopyBundle   bool   `hcl:"copy_bundle,optional"`

	DLL bool `hcl:"dll,optional"`
	App bool `hcl:"app,optional"`

	DependsOn []string `hcl:"depends_on,optional"`
}
