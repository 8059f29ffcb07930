// Package helpers provides shared utilities for integration tests.
package helpers

import (
	"bytes"
	"testing"

	"github.com/ecotrack/ecotrack/internal/cli"
	"github.com/ecotrack/ecotrack/internal/config"
)

// CLIHelper drives the ecotrack root command against an isolated home
// directory. Each helper owns its own temp home, so tests never touch
// the real user configuration or activity database.
type CLIHelper struct {
	t    *testing.T
	home string
}

// NewCLIHelper creates a helper with a fresh temp home. The global
// config cache is reset now and again at cleanup so state cannot leak
// between tests.
func NewCLIHelper(t *testing.T) *CLIHelper {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ECOTRACK_HOME", home)
	t.Setenv("ECOTRACK_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return &CLIHelper{t: t, home: home}
}

// Home returns the temp directory acting as the ecotrack home.
func (h *CLIHelper) Home() string {
	return h.home
}

// Execute runs the CLI with the given args and returns combined stdout
// and stderr.
func (h *CLIHelper) Execute(args ...string) (string, error) {
	h.t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("integration-test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// MustExecute runs the CLI and fails the test immediately on error.
func (h *CLIHelper) MustExecute(args ...string) string {
	h.t.Helper()
	out, err := h.Execute(args...)
	if err != nil {
		h.t.Fatalf("command %v failed: %v\noutput:\n%s", args, err, out)
	}
	return out
}
