package bundle

import (
	"fmt"
	"strings"
)

// UnsupportedPlatformError reports a bundle resolved to a platform outside
// the project's allow-list.
type UnsupportedPlatformError struct {
	Bundle   string
	Platform string
	Allowed  []string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("bundle %q: platform %q is not supported by this project (allowed: %s)",
		e.Bundle, e.Platform, strings.Join(e.Allowed, ", "))
}

// MissingHostBundleError reports that no bundle carries one of the reserved
// host names and the host check was not skipped.
type MissingHostBundleError struct {
	HostNames []string
	Declared  []string
}

func (e *MissingHostBundleError) Error() string {
	return fmt.Sprintf("no host bundle declared: expected one bundle named %s, got %s",
		strings.Join(e.HostNames, ", "), strings.Join(e.Declared, ", "))
}

// CyclicDependencyError reports a dependency cycle among shared-library
// bundles. Chain lists the names along the cycle, ending where it closes.
type CyclicDependencyError struct {
	Chain []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic bundle dependency: %s", strings.Join(e.Chain, " -> "))
}

// UnresolvedDependencyError reports a dependsOn name that matches no
// declared bundle.
type UnresolvedDependencyError struct {
	Bundle     string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("bundle %q depends on %q, which is not declared", e.Bundle, e.Dependency)
}
