package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packfold/packfold/internal/config"
)

func TestParse_FullFlagSet(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"--platform", "android",
		"--dev",
		"--target", "server",
		"--output", "/out/bundle",
		"--bundle-type", "indexed-ram-bundle",
		"--minify",
		"--max-workers", "6",
		"--skip-host-check",
		"--log-level", "debug",
		"--log-format", "json",
		"project.hcl",
	}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "project.hcl", cfg.ProjectPath)
	assert.True(t, cfg.SkipHostCheck)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	assert.Equal(t, "android", cfg.Env.Platform)
	assert.True(t, cfg.Env.Dev)
	assert.Equal(t, config.TargetServer, cfg.Env.Target)
	assert.Equal(t, "/out/bundle", cfg.Env.OutputPath)
	assert.Equal(t, "indexed-ram-bundle", cfg.Env.BundleType)
	assert.True(t, cfg.Env.Minify)
	assert.Equal(t, 6, cfg.Env.MaxWorkers)
}

func TestParse_ProjectFlagPrecedence(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"--project", "a.hcl", "b.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "a.hcl", cfg.ProjectPath)

	cfg, _, err = Parse([]string{"-p", "short.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "short.hcl", cfg.ProjectPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad log format", []string{"--log-format", "xml", "p.hcl"}, "invalid log-format"},
		{"bad log level", []string{"--log-level", "verbose", "p.hcl"}, "invalid log-level"},
		{"bad target", []string{"--target", "cloud", "p.hcl"}, "invalid target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
