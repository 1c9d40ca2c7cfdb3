// Package resolver merges one owned bundle declaration with the run's
// environment options and the project defaults into a fully resolved
// property record. Resolution is a pure function: all environment facts
// (CI detection, core count) arrive as inputs, never get probed here.
//
// The precedence for every overridable field, highest first, is: explicit
// declaration value, then environment option, then computed default. The
// documented exceptions (mode, minify, format, output type, maxWorkers) are
// policy and called out on the code that implements them.
package resolver

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/packfold/packfold/internal/config"
	"github.com/packfold/packfold/internal/envprobe"
)

// Mode is the build mode of a bundle.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

// OutputType says where a built bundle goes.
type OutputType string

const (
	OutputServer OutputType = "server"
	OutputFile   OutputType = "file"
)

// BundlingMode distinguishes a standalone bundle from one participating in
// a multi-bundle (dll/app) packaging scheme.
type BundlingMode string

const (
	SingleBundle BundlingMode = "single-bundle"
	MultiBundle  BundlingMode = "multi-bundle"
)

// Supported bundle output formats.
const (
	FormatBasic      = "basic-bundle"
	FormatIndexedRAM = "indexed-ram-bundle"
	FormatFileRAM    = "file-ram-bundle"

	// ServerFormat is forced whenever the run targets the development
	// server, regardless of what the declaration asks for.
	ServerFormat = FormatBasic
)

// ciWorkerCap bounds the default worker count on CI runners, which commonly
// misreport usable cores or throttle sharply.
const ciWorkerCap = 7

// defaultFrameworkPackage seeds providesModuleNodeModules when the
// declaration leaves it unset.
const defaultFrameworkPackage = "react-native"

// Properties is the fully merged, immutable property record of one owned
// bundle. Invariants: MaxWorkers >= 1 and len(InputModules) >= 1.
type Properties struct {
	Mode         Mode
	Platform     string
	BundlingMode BundlingMode
	OutputType   OutputType
	OutputPath   string
	Format       string
	Kind         config.BundleKind
	Root         string

	InputModules   []string
	PreloadModules []string

	AssetsDest    string
	Minify        bool
	MinifyOptions map[string]cty.Value
	SourceMap     bool
	SourceMapDest string
	LooseMode     bool

	DependsOn                 []string
	ProvidesModuleNodeModules []string
	HasteOptions              map[string]cty.Value

	MaxWorkers int
}

// Resolve merges the declaration, environment options, and project defaults
// for the named bundle into a Properties record. It fails only when the
// declared entry normalizes to zero input modules.
func Resolve(name string, decl *config.OwnedDecl, env config.EnvOptions, defaults config.Defaults, probe envprobe.Environment) (*Properties, error) {
	inputs, preloads, err := normalizeEntry(name, decl.Entry)
	if err != nil {
		return nil, err
	}

	kind := decl.Kind()
	platform := firstNonEmpty(decl.Platform, env.Platform)

	props := &Properties{
		// Policy: dev wins if either side asks for it.
		Mode:         resolveMode(decl.Dev, env.Dev),
		Platform:     platform,
		BundlingMode: resolveBundlingMode(kind),
		OutputType:   resolveOutputType(env.Target),
		OutputPath:   resolveOutputPath(name, platform, env, defaults),
		Format:       resolveFormat(decl.BundleType, env),
		Kind:         kind,
		Root:         firstNonEmpty(decl.Root, env.Root, "."),

		InputModules:   inputs,
		PreloadModules: preloads,

		AssetsDest: firstNonEmpty(decl.AssetsDest, env.AssetsDest),
		// Policy: minification is requested if either side asks for it.
		Minify:        (decl.Minify != nil && *decl.Minify) || env.Minify,
		MinifyOptions: decl.MinifyOptions,
		SourceMap:     boolOr(decl.SourceMap, true),
		SourceMapDest: decl.SourceMapDest,
		LooseMode:     boolOr(decl.LooseMode, false),

		DependsOn:                 append([]string(nil), decl.DependsOn...),
		ProvidesModuleNodeModules: resolveProvidedModules(decl.ProvidesModuleNodeModules),
		HasteOptions:              decl.HasteOptions,

		MaxWorkers: resolveMaxWorkers(decl.MaxWorkers, env.MaxWorkers, probe),
	}
	return props, nil
}

// normalizeEntry flattens the three accepted entry shapes into input and
// preload module lists.
func normalizeEntry(name string, entry config.Entry) (inputs, preloads []string, err error) {
	switch entry.Kind {
	case config.EntrySingle:
		if entry.Single != "" {
			inputs = []string{entry.Single}
		}
	case config.EntryList:
		inputs = append([]string(nil), entry.Files...)
	case config.EntryStructured:
		inputs = append([]string(nil), entry.Files...)
		preloads = append([]string(nil), entry.SetupFiles...)
	default:
		return nil, nil, fmt.Errorf("bundle %q: unknown entry kind %d", name, entry.Kind)
	}
	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("bundle %q: entry declares no input modules", name)
	}
	return inputs, preloads, nil
}

func resolveMode(declDev *bool, envDev bool) Mode {
	if (declDev != nil && *declDev) || envDev {
		return ModeDev
	}
	return ModeProd
}

func resolveBundlingMode(kind config.BundleKind) BundlingMode {
	if kind == config.KindDLL || kind == config.KindApp {
		return MultiBundle
	}
	return SingleBundle
}

func resolveOutputType(target config.Target) OutputType {
	if target == config.TargetServer {
		return OutputServer
	}
	return OutputFile
}

// resolveFormat applies the server-target override: when the run targets
// the development server, the format is forced to ServerFormat even over an
// explicit declaration value.
func resolveFormat(declType string, env config.EnvOptions) string {
	if env.Target == config.TargetServer {
		return ServerFormat
	}
	return firstNonEmpty(declType, env.BundleType, FormatBasic)
}

// resolveOutputPath falls back to the platform's filename template when no
// explicit output path is given. Unknown platforms (including the empty
// server sentinel) resolve to "<name>.bundle".
func resolveOutputPath(name, platform string, env config.EnvOptions, defaults config.Defaults) string {
	if env.OutputPath != "" {
		return env.OutputPath
	}
	tmpl, ok := defaults.Templates.Filename[platform]
	if !ok {
		return name + ".bundle"
	}
	out := strings.ReplaceAll(tmpl, "[bundleName]", name)
	out = strings.ReplaceAll(out, "[platform]", platform)
	return out
}

func resolveProvidedModules(declared []string) []string {
	if len(declared) > 0 {
		return append([]string(nil), declared...)
	}
	return []string{defaultFrameworkPackage}
}

// resolveMaxWorkers applies the three-tier fallback: declaration value,
// environment value, then a computed default of cores-1 capped at
// ciWorkerCap on CI. Every tier is floored at one worker.
func resolveMaxWorkers(declWorkers, envWorkers int, probe envprobe.Environment) int {
	if declWorkers != 0 {
		return max(declWorkers, 1)
	}
	if envWorkers != 0 {
		return max(envWorkers, 1)
	}
	workers := probe.NumCPU - 1
	if probe.CI {
		workers = min(workers, ciWorkerCap)
	}
	return max(workers, 1)
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
