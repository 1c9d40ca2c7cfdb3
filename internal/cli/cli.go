// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/packfold/packfold/internal/app"
	"github.com/packfold/packfold/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("packfold", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
packfold - multi-bundle build planner.

Usage:
  packfold [options] [PROJECT_PATH]

Arguments:
  PROJECT_PATH
    Path to a single .hcl project file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	projectFlag := flagSet.String("project", "", "Path to the project file or directory.")
	pFlag := flagSet.String("p", "", "Path to the project file or directory (shorthand).")
	planFlag := flagSet.String("plan-output", "", "File to write the YAML build plan to. Empty writes to stdout.")
	platformFlag := flagSet.String("platform", "", "Platform to build bundles for (e.g. 'ios' or 'android').")
	devFlag := flagSet.Bool("dev", false, "Build bundles in development mode.")
	targetFlag := flagSet.String("target", "file", "Build target. Options: 'file' or 'server'.")
	outputFlag := flagSet.String("output", "", "Output path override for built bundles.")
	bundleTypeFlag := flagSet.String("bundle-type", "", "Bundle format override (e.g. 'basic-bundle', 'indexed-ram-bundle').")
	assetsDestFlag := flagSet.String("assets-dest", "", "Destination directory for bundled assets.")
	rootFlag := flagSet.String("root", "", "Project context root override.")
	minifyFlag := flagSet.Bool("minify", false, "Minify bundle output.")
	workersFlag := flagSet.Int("max-workers", 0, "Maximum worker count for the downstream bundler. 0 uses the computed default.")
	skipHostFlag := flagSet.Bool("skip-host-check", false, "Do not require a host bundle in the project.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *projectFlag != "" {
		path = *projectFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Project path determined.", "path", path)

	if path == "" {
		slog.Debug("No project path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	target := config.Target(strings.ToLower(*targetFlag))
	slog.Debug("CLI parameter validation complete.")

	appConfig, err := app.NewConfig(app.Config{
		ProjectPath:   path,
		PlanPath:      *planFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		SkipHostCheck: *skipHostFlag,
		Env: config.EnvOptions{
			Platform:   *platformFlag,
			Dev:        *devFlag,
			Target:     target,
			OutputPath: *outputFlag,
			BundleType: *bundleTypeFlag,
			AssetsDest: *assetsDestFlag,
			Root:       *rootFlag,
			Minify:     *minifyFlag,
			MaxWorkers: *workersFlag,
		},
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return appConfig, false, nil
}
