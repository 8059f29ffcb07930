package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate_DefaultsValid(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration is valid")
	assert.NotContains(t, output, "Configuration details:")
}

func TestConfigValidate_Verbose(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration is valid")
	assert.Contains(t, output, "Configuration details:")
	assert.Contains(t, output, "Output format: table")
	assert.Contains(t, output, "Output precision: 2")
	assert.Contains(t, output, "Factor table: built-in")
	assert.Contains(t, output, "Feature window: 30 days")
	assert.Contains(t, output, "Training: min 50 samples, 5-fold CV, 20% holdout")
	assert.Contains(t, output, "gradient_boosting")
}

func TestConfigValidate_InvalidValues(t *testing.T) {
	home := setupCLITest(t)

	configPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  default_format: table\n  precision: 99\n"), 0o600))

	_, err := executeCommand(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "output.precision")
}

func TestConfigValidate_CustomFactorTable(t *testing.T) {
	home := setupCLITest(t)

	factorsPath := filepath.Join(home, "factors.yaml")
	factorsYAML := `factors:
  - category: transport
    subtype: gasoline_car
    unit: mile
    kg_co2_per_unit: 0.404
  - category: energy
    subtype: electricity
    unit: kwh
    kg_co2_per_unit: 0.92
`
	require.NoError(t, os.WriteFile(factorsPath, []byte(factorsYAML), 0o600))

	configPath := filepath.Join(home, "config.yaml")
	configYAML := "factors:\n  path: " + factorsPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))

	output, err := executeCommand(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration is valid")
	assert.Contains(t, output, factorsPath)
	assert.Contains(t, output, "(2 factors)")
}

func TestConfigValidate_BrokenFactorTable(t *testing.T) {
	home := setupCLITest(t)

	factorsPath := filepath.Join(home, "factors.yaml")
	require.NoError(t, os.WriteFile(factorsPath, []byte("factors: []\n"), 0o600))

	configPath := filepath.Join(home, "config.yaml")
	configYAML := "factors:\n  path: " + factorsPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))

	_, err := executeCommand(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emission factor validation failed")
	assert.Contains(t, err.Error(), "defines no factors")
}
