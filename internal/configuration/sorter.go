package configuration

import (
	"slices"

	"github.com/packfold/packfold/internal/bundle"
	"github.com/packfold/packfold/internal/config"
)

// hostBundleNames are the reserved names that mark a bundle as the single
// host: the distinguished entry point built after all shared libraries and
// before application bundles.
var hostBundleNames = []string{"index", "main", "host"}

// IsHostName reports whether the given bundle name is reserved for the
// host bundle.
func IsHostName(name string) bool {
	return slices.Contains(hostBundleNames, name)
}

// walk states for the closure traversal.
const (
	unvisited = iota
	visiting
	visited
)

// sortBundles emits a dependency-correct build order over the given
// bundles. Shared-library (dll) bundles come first, each preceded by its
// full dependency closure: any bundle reachable from a dll via dependsOn is
// hoisted into the shared-library tier regardless of its own kind. The host
// bundle follows, then every remaining bundle in declaration order.
func sortBundles(bundles []bundle.Bundle, skipHostCheck bool) ([]bundle.Bundle, error) {
	byName := make(map[string]bundle.Bundle, len(bundles))
	for _, b := range bundles {
		byName[b.Name()] = b
	}

	// Every dependsOn name must resolve to a declared bundle. This used to
	// be a silent drop; an unresolved name now fails the plan.
	for _, b := range bundles {
		for _, dep := range b.DependsOn() {
			if _, ok := byName[dep]; !ok {
				return nil, &bundle.UnresolvedDependencyError{Bundle: b.Name(), Dependency: dep}
			}
		}
	}

	// Hoist each dll and its transitive dependencies into the
	// shared-library tier, dependencies first. The visited set turns a
	// dependency cycle into an error instead of unbounded recursion.
	state := make(map[string]int, len(bundles))
	var libNames []string

	var walk func(name string, chain []string) error
	walk = func(name string, chain []string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return &bundle.CyclicDependencyError{Chain: append(slices.Clone(chain), name)}
		}
		state[name] = visiting
		chain = append(chain, name)
		for _, dep := range byName[name].DependsOn() {
			if err := walk(dep, chain); err != nil {
				return err
			}
		}
		state[name] = visited
		libNames = append(libNames, name)
		return nil
	}

	hostName := ""
	var appNames []string
	for _, b := range bundles {
		switch {
		case b.Kind() == config.KindDLL:
			if err := walk(b.Name(), nil); err != nil {
				return nil, err
			}
		case hostName == "" && IsHostName(b.Name()):
			hostName = b.Name()
		default:
			appNames = append(appNames, b.Name())
		}
	}

	if hostName == "" && !skipHostCheck {
		names := make([]string, 0, len(bundles))
		for _, b := range bundles {
			names = append(names, b.Name())
		}
		return nil, &bundle.MissingHostBundleError{
			HostNames: slices.Clone(hostBundleNames),
			Declared:  names,
		}
	}

	// Concatenate the tiers and drop duplicates, keeping first occurrence:
	// a bundle hoisted into the shared-library tier must not reappear in a
	// later tier.
	ordered := libNames
	if hostName != "" {
		ordered = append(ordered, hostName)
	}
	ordered = append(ordered, appNames...)

	seen := make(map[string]struct{}, len(ordered))
	sorted := make([]bundle.Bundle, 0, len(bundles))
	for _, name := range ordered {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		sorted = append(sorted, byName[name])
	}
	return sorted, nil
}
