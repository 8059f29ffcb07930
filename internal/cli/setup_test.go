package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Buffered command output means stdin is never a TTY, so setup always
// runs in its non-interactive mode here.

func TestSetup_Basic(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "setup")
	require.NoError(t, err)
	assert.Contains(t, output, "[OK] EcoTrack v")
	assert.Contains(t, output, "[OK] Initialized config")
	assert.Contains(t, output, "[SKIP] Skipped demo data seeding (use --demo)")
	assert.Contains(t, output, "[SKIP] Skipped model training (use --train)")
	assert.Contains(t, output, "Setup complete! Run 'ecotrack log add' to log your first activity.")
}

func TestSetup_Idempotent(t *testing.T) {
	setupCLITest(t)

	_, err := executeCommand(t, "setup")
	require.NoError(t, err)

	output, err := executeCommand(t, "setup")
	require.NoError(t, err)
	assert.Contains(t, output, "Config already exists")
	assert.Contains(t, output, "Directory exists:")
	assert.Contains(t, output, "Setup complete!")
}

func TestSetup_WithDemo(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "setup", "--demo")
	require.NoError(t, err)
	assert.Contains(t, output, "[OK] Seeded")
	assert.Contains(t, output, "across 90 day(s)")
	assert.Contains(t, output, "Setup complete! Run 'ecotrack report' to explore the seeded history.")

	// The seeded history is queryable afterwards.
	reportOut, err := executeCommand(t, "report", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, reportOut, "7 day(s) with data")
}

func TestSetup_WithTrain(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "setup", "--train")
	require.NoError(t, err)
	assert.Contains(t, output, "[OK] Trained starter model")
	assert.Contains(t, output, "2000 samples")
}

func TestSetup_ExplicitNonInteractive(t *testing.T) {
	setupCLITest(t)

	output, err := executeCommand(t, "setup", "--non-interactive")
	require.NoError(t, err)
	assert.Contains(t, output, "[OK]")
	assert.NotContains(t, output, "✓")
}
