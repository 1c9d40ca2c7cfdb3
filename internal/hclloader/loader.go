// Package hclloader implements config.Loader for HCL project files. It
// parses every discovered .hcl file, decodes the schema blocks, and
// translates them into the format-agnostic config model.
package hclloader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/ctxlog"
	"github.com/packfold/packfold/internal/fsutil"
)

// Loader is the HCL-specific implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses all .hcl files reachable from the given paths and merges
// them into a single project model. Project-wide sections are last-writer
// wins across files; bundle declarations accumulate in file order and must
// have unique names.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl project files found under %v", paths)
	}
	logger.Debug("Discovered project files.", "count", len(files))

	project := &config.Project{}
	declared := make(map[string]string) // bundle name -> file, for duplicate reporting
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		if len(root.Platforms) > 0 {
			project.Platforms = root.Platforms
		}
		if root.Server != nil {
			project.Server = &config.ServerConfig{Host: root.Server.Host, Port: root.Server.Port}
		}
		if root.Templates != nil {
			project.Templates = &config.Templates{Filename: root.Templates.Filename}
		}
		if root.Features != nil {
			project.Features = &config.Features{MultiBundle: root.Features.MultiBundle}
		}

		for _, block := range root.Bundles {
			if prev, dup := declared[block.Name]; dup {
				return nil, fmt.Errorf("bundle %q in %s already declared in %s", block.Name, file, prev)
			}
			declared[block.Name] = file

			decl, err := l.translateBundle(ctx, block)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			project.Bundles = append(project.Bundles, &config.BundleEntry{Name: block.Name, Decl: decl})
		}
		for _, block := range root.Externals {
			if prev, dup := declared[block.Name]; dup {
				return nil, fmt.Errorf("bundle %q in %s already declared in %s", block.Name, file, prev)
			}
			declared[block.Name] = file

			project.Bundles = append(project.Bundles, &config.BundleEntry{
				Name: block.Name,
				Decl: l.translateExternal(block),
			})
		}
	}

	logger.Debug("Project model loaded.", "bundles", len(project.Bundles))
	return project, nil
}
