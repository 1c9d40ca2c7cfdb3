// Package manifest serializes a resolved build plan into a YAML document
// that downstream build executors and humans consume. One plan corresponds
// to one CreateBundlesSorted invocation.
package manifest

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/packfold/packfold/internal/bundle"
	"github.com/packfold/packfold/internal/config"
)

// Plan describes one resolved, ordered build plan.
type Plan struct {
	// ID uniquely identifies this planning run.
	ID string `yaml:"id"`
	// GeneratedAt is when the plan was produced.
	GeneratedAt time.Time `yaml:"generatedAt"`
	// Platform is the platform the run targeted, if any.
	Platform string `yaml:"platform,omitempty"`
	// Target is the build target (file or server).
	Target string `yaml:"target"`
	// Bundles lists every bundle in build order.
	Bundles []Entry `yaml:"bundles"`
}

// Entry is one bundle in the plan, in build order.
type Entry struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Origin    string   `yaml:"origin"` // "owned" or "external"
	DependsOn []string `yaml:"dependsOn,omitempty"`

	// Owned bundles only.
	Platform   string `yaml:"platform,omitempty"`
	Mode       string `yaml:"mode,omitempty"`
	Format     string `yaml:"format,omitempty"`
	OutputPath string `yaml:"outputPath,omitempty"`
	Workers    int    `yaml:"workers,omitempty"`

	// External bundles only.
	BundlePath string `yaml:"bundlePath,omitempty"`
	AssetsPath string `yaml:"assetsPath,omitempty"`
	Copy       bool   `yaml:"copy,omitempty"`
}

// Builder accumulates bundles into a Plan.
type Builder struct {
	plan Plan
}

// NewBuilder starts a plan for the given run options, stamped with a fresh
// ID and the given timestamp.
func NewBuilder(env config.EnvOptions, ts time.Time) *Builder {
	target := config.TargetFile
	if env.Target == config.TargetServer {
		target = config.TargetServer
	}
	return &Builder{
		plan: Plan{
			ID:          uuid.NewString(),
			GeneratedAt: ts,
			Platform:    env.Platform,
			Target:      string(target),
			Bundles:     []Entry{},
		},
	}
}

// Add appends one bundle entity, preserving call order as build order.
func (b *Builder) Add(bnd bundle.Bundle) {
	entry := Entry{
		Name:      bnd.Name(),
		Kind:      string(bnd.Kind()),
		DependsOn: bnd.DependsOn(),
	}
	switch v := bnd.(type) {
	case *bundle.Owned:
		props := v.Properties()
		entry.Origin = "owned"
		entry.Platform = props.Platform
		entry.Mode = string(props.Mode)
		entry.Format = props.Format
		entry.OutputPath = props.OutputPath
		entry.Workers = props.MaxWorkers
	case *bundle.External:
		entry.Origin = "external"
		entry.BundlePath = v.BundlePath()
		entry.AssetsPath = v.AssetsPath()
		entry.Copy = v.ShouldCopy()
	}
	b.plan.Bundles = append(b.plan.Bundles, entry)
}

// Build returns the accumulated plan.
func (b *Builder) Build() Plan {
	return b.plan
}

// FromBundles builds a plan for an already ordered bundle list.
func FromBundles(env config.EnvOptions, ts time.Time, bundles []bundle.Bundle) Plan {
	builder := NewBuilder(env, ts)
	for _, bnd := range bundles {
		builder.Add(bnd)
	}
	return builder.Build()
}

// Write encodes the plan as YAML.
func (p Plan) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode build plan: %w", err)
	}
	return enc.Close()
}
