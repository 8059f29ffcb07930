package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/cli"
	"github.com/ecotrack/ecotrack/internal/config"
)

// setupCLITest isolates the test from the real home directory and quiets
// logging. Returns the temporary ecotrack home.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ECOTRACK_HOME", home)
	t.Setenv("ECOTRACK_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCommand runs the root command with args and returns combined
// stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_SubcommandTree(t *testing.T) {
	setupCLITest(t)

	root := cli.NewRootCmd("1.2.3")
	require.NotNil(t, root)
	assert.Equal(t, "ecotrack", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"log", "footprint", "profile", "train", "predict",
		"recommend", "report", "config", "setup",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_Help(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "ecotrack")
	assert.Contains(t, output, "footprint")
}

func TestRootCmd_Version(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, output, "test")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "definitely-not-a-command")
	assert.Error(t, err)
}
