// Package configuration orchestrates bundle resolution for one planning
// run: it resolves the project-wide defaults, turns every declared bundle
// into an owned or external entity via the resolver, validates platform
// support, and produces a dependency-correct build order.
//
// A Configuration is created once per run. Its owned/external registries
// are rebuilt wholesale on every CreateBundles call: the resulting shape is
// idempotent for identical inputs, but each call yields fresh entity
// instances.
package configuration
