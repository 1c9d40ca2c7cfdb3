// Package envprobe reads the facts about the execution environment that
// the property resolver needs but must not own: whether the process runs
// under a continuous-integration service, and how many logical cores the
// machine exposes. Both are captured once into an Environment value so the
// resolver stays a pure function of its inputs.
package envprobe

import (
	"os"
	"runtime"
)

// Environment is an immutable snapshot of the probed execution environment.
type Environment struct {
	// CI reports whether a continuous-integration service is detected.
	CI bool
	// NumCPU is the number of logical cores available to the process.
	NumCPU int
}

// ciVars are the environment variables commonly exported by CI services.
var ciVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"RUN_ID",
}

// Detect probes the process environment and returns a snapshot.
func Detect() Environment {
	return Environment{
		CI:     detectCI(),
		NumCPU: runtime.NumCPU(),
	}
}

func detectCI() bool {
	for _, name := range ciVars {
		if v, ok := os.LookupEnv(name); ok && v != "" && v != "false" {
			return true
		}
	}
	return false
}
