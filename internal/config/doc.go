// Package config defines the format-agnostic model of a packfold project:
// the project-wide settings, the per-bundle declarations, and the
// environment options that accompany a single planning run.
//
// The model is the single source of truth for the resolver and the
// configuration packages. Concrete loaders (such as the HCL one in
// internal/hclloader) translate their source format into this model behind
// the Loader interface and never leak format details past it.
package config
