package config

// Every project-wide section has an explicit, total constructor: it accepts
// an optional partial override and returns a fully populated record. No
// generic deep-merge is involved, so each field's default is named here and
// testable in isolation.

// ServerConfig holds the development server settings.
type ServerConfig struct {
	Host string
	Port int
}

// NewServerConfig returns a fully populated server config, taking any
// explicitly set fields from the override.
func NewServerConfig(override *ServerConfig) ServerConfig {
	cfg := ServerConfig{
		Host: "localhost",
		Port: 8081,
	}
	if override == nil {
		return cfg
	}
	if override.Host != "" {
		cfg.Host = override.Host
	}
	if override.Port != 0 {
		cfg.Port = override.Port
	}
	return cfg
}

// Templates holds the per-platform output filename templates. The
// "[bundleName]" and "[platform]" placeholders are substituted by the
// downstream artifact writer.
type Templates struct {
	Filename map[string]string
}

// NewTemplates returns fully populated templates, merging any per-platform
// overrides over the defaults.
func NewTemplates(override *Templates) Templates {
	cfg := Templates{
		Filename: map[string]string{
			"ios":     "[bundleName].jsbundle",
			"android": "[bundleName].[platform].bundle",
		},
	}
	if override == nil {
		return cfg
	}
	for platform, tmpl := range override.Filename {
		if tmpl != "" {
			cfg.Filename[platform] = tmpl
		}
	}
	return cfg
}

// Features holds the project feature flags.
type Features struct {
	// MultiBundle selects the multi-bundle packaging generation. 0 means
	// unset in an override.
	MultiBundle int
}

// NewFeatures returns fully populated feature flags.
func NewFeatures(override *Features) Features {
	cfg := Features{
		MultiBundle: 1,
	}
	if override == nil {
		return cfg
	}
	if override.MultiBundle != 0 {
		cfg.MultiBundle = override.MultiBundle
	}
	return cfg
}

// DefaultPlatforms returns the platform allow-list used when the project
// declares none.
func DefaultPlatforms() []string {
	return []string{"ios", "android"}
}

// Defaults is the resolved view of all project-wide settings.
type Defaults struct {
	Platforms   []string
	Server      ServerConfig
	Templates   Templates
	Features    Features
	BundleNames []string
}

// ResolveProjectDefaults resolves every project-wide section of the given
// project against its defaults. Pure; always succeeds on a well-formed
// project.
func ResolveProjectDefaults(project *Project, env EnvOptions) Defaults {
	platforms := project.Platforms
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}
	return Defaults{
		Platforms:   platforms,
		Server:      NewServerConfig(project.Server),
		Templates:   NewTemplates(project.Templates),
		Features:    NewFeatures(project.Features),
		BundleNames: project.BundleNames(),
	}
}
