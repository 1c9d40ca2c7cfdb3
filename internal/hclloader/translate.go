package hclloader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/ctxlog"
)

// translateBundle converts an owned `bundle` block into the agnostic model.
func (l *Loader) translateBundle(ctx context.Context, block *bundleBlock) (*config.BundleDecl, error) {
	logger := ctxlog.FromContext(ctx).With("bundle", block.Name)
	logger.Debug("Translating bundle block.")

	entry, err := translateEntry(block.Name, block.Entry)
	if err != nil {
		return nil, err
	}
	minifyOpts, err := translateOptionMap(block.Name, "minify_options", block.MinifyOptions)
	if err != nil {
		return nil, err
	}
	hasteOpts, err := translateOptionMap(block.Name, "haste_options", block.HasteOptions)
	if err != nil {
		return nil, err
	}

	return &config.BundleDecl{
		Variant: config.DeclOwned,
		Owned: &config.OwnedDecl{
			Entry:      entry,
			Platform:   block.Platform,
			Root:       block.Root,
			Dev:        block.Dev,
			AssetsDest: block.AssetsDest,
			BundleType: block.BundleType,

			Minify:        block.Minify,
			MinifyOptions: minifyOpts,

			SourceMap:     block.SourceMap,
			SourceMapDest: block.SourceMapDest,
			LooseMode:     block.LooseMode,

			DLL: block.DLL,
			App: block.App,

			DependsOn: block.DependsOn,

			ProvidesModuleNodeModules: block.ProvidesModuleNodeModules,
			HasteOptions:              hasteOpts,

			MaxWorkers: block.MaxWorkers,
		},
	}, nil
}

// translateExternal converts an `external_bundle` block into the agnostic
// model.
func (l *Loader) translateExternal(block *externalBlock) *config.BundleDecl {
	return &config.BundleDecl{
		Variant: config.DeclExternal,
		External: &config.ExternalDecl{
			DLL:          block.DLL,
			App:          block.App,
			DependsOn:    block.DependsOn,
			BundlePath:   block.BundlePath,
			ManifestPath: block.ManifestPath,
			AssetsPath:   block.AssetsPath,
			CopyBundle:   block.CopyBundle,
		},
	}
}

// translateEntry discriminates the entry attribute by the shape of its
// value: a string, a list of strings, or an object carrying entry_files
// and setup_files.
func translateEntry(name string, expr hcl.Expression) (config.Entry, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Entry{}, fmt.Errorf("bundle %q: invalid entry: %w", name, diags)
	}

	ty := val.Type()
	switch {
	case ty.Equals(cty.String):
		return config.Entry{Kind: config.EntrySingle, Single: val.AsString()}, nil

	case ty.IsTupleType() || ty.IsListType():
		files, err := stringList(val)
		if err != nil {
			return config.Entry{}, fmt.Errorf("bundle %q: entry: %w", name, err)
		}
		return config.Entry{Kind: config.EntryList, Files: files}, nil

	case ty.IsObjectType() || ty.IsMapType():
		attrs := val.AsValueMap()
		entry := config.Entry{Kind: config.EntryStructured}
		for key, attr := range attrs {
			switch key {
			case "entry_files":
				files, err := stringList(attr)
				if err != nil {
					return config.Entry{}, fmt.Errorf("bundle %q: entry_files: %w", name, err)
				}
				entry.Files = files
			case "setup_files":
				files, err := stringList(attr)
				if err != nil {
					return config.Entry{}, fmt.Errorf("bundle %q: setup_files: %w", name, err)
				}
				entry.SetupFiles = files
			default:
				return config.Entry{}, fmt.Errorf("bundle %q: entry object has unknown key %q", name, key)
			}
		}
		return entry, nil

	default:
		return config.Entry{}, fmt.Errorf("bundle %q: entry must be a string, a list of strings, or an object, got %s",
			name, ty.FriendlyName())
	}
}

// translateOptionMap evaluates an optional object attribute into a map of
// cty values, which the planner carries opaquely to the bundler.
func translateOptionMap(name, attr string, expr hcl.Expression) (map[string]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("bundle %q: invalid %s: %w", name, attr, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("bundle %q: %s must be an object, got %s", name, attr, val.Type().FriendlyName())
	}
	return val.AsValueMap(), nil
}

func stringList(val cty.Value) ([]string, error) {
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if !el.Type().Equals(cty.String) {
			return nil, fmt.Errorf("expected a string element, got %s", el.Type().FriendlyName())
		}
		out = append(out, el.AsString())
	}
	return out, nil
}
