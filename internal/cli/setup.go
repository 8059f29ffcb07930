package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/forecast"
	"github.com/ecotrack/ecotrack/internal/ingest"
	"github.com/ecotrack/ecotrack/internal/logging"
	"github.com/ecotrack/ecotrack/pkg/version"
)

// setupDemoDays is the history length seeded by the demo step.
const setupDemoDays = 90

// setupSyntheticSamples is the synthetic dataset size for the training step.
const setupSyntheticSamples = 2000

// StepStatus represents the outcome of a single setup step.
type StepStatus int

const (
	// StepSuccess indicates the step completed successfully.
	StepSuccess StepStatus = iota
	// StepWarning indicates the step completed with a non-fatal issue.
	StepWarning
	// StepSkipped indicates the step was intentionally skipped via flag.
	StepSkipped
	// StepError indicates the step failed.
	StepError
)

// StepResult describes the outcome of executing a single setup step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// SetupOptions holds the configuration for the setup command, derived from CLI flags.
type SetupOptions struct {
	Demo           bool
	Train          bool
	NonInteractive bool
}

// SetupResult is the aggregate outcome of all setup steps.
type SetupResult struct {
	Steps       []StepResult
	HasErrors   bool
	HasWarnings bool
}

// dirPermBase is the permission mode for the created directories.
const dirPermBase = 0o700

// formatStatus returns a status marker appropriate for the output mode.
func formatStatus(status StepStatus, nonInteractive bool) string {
	if nonInteractive {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepError:
			return "[ERR]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "✓" // ✓
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepError:
		return "✗" // ✗
	default:
		return "?"
	}
}

// NewSetupCmd creates the top-level setup command that bootstraps the
// EcoTrack environment.
func NewSetupCmd() *cobra.Command {
	var opts SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the EcoTrack environment",
		Long: `Sets up the EcoTrack environment by creating directories and
initializing configuration, optionally seeding demo data and training an
initial forecast model.

This command is idempotent. Existing configuration files are preserved and
already-present directories are detected without modification.`,
		Example: `  # Basic setup
  ecotrack setup

  # Setup with demo data and a trained starter model
  ecotrack setup --demo --train

  # CI/CD setup (no TTY-dependent output)
  ecotrack setup --non-interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false,
		"Disable TTY-dependent output (status symbols, color)")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false,
		"Seed the database with generated sample activities")
	cmd.Flags().BoolVar(&opts.Train, "train", false,
		"Train an initial forecast model on a synthetic dataset")

	return cmd
}

// runSetup orchestrates all setup steps using a collect-and-continue
// pattern. Failures in one step do not prevent subsequent steps from
// running; the function returns an error only if a critical step fails.
func runSetup(cmd *cobra.Command, opts *SetupOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logging.FromContext(ctx)

	// Auto-detect non-interactive mode when stdin is not a TTY
	if !opts.NonInteractive && !isTerminal(os.Stdin) {
		opts.NonInteractive = true
	}

	result := &SetupResult{}

	// Step 1: Display version
	step := stepDisplayVersion()
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	// Step 2: Create directories
	dirSteps := stepCreateDirectories()
	for _, s := range dirSteps {
		printStep(cmd, s, opts.NonInteractive)
		result.Steps = append(result.Steps, s)
	}

	// Step 3: Initialize config
	step = stepInitConfig()
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	// Step 4: Seed demo data
	if opts.Demo {
		step = stepSeedDemo(ctx)
	} else {
		step = StepResult{
			Name:    "Demo data",
			Status:  StepSkipped,
			Message: "Skipped demo data seeding (use --demo)",
		}
	}
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	// Step 5: Train starter model
	if opts.Train {
		step = stepTrainModel(ctx)
	} else {
		step = StepResult{
			Name:    "Model training",
			Status:  StepSkipped,
			Message: "Skipped model training (use --train)",
		}
	}
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	// Compute aggregate status
	for _, s := range result.Steps {
		if s.Status == StepError && s.Critical {
			result.HasErrors = true
		}
		if s.Status == StepWarning {
			result.HasWarnings = true
		}
	}

	printSummary(cmd, result, opts)

	if result.HasErrors {
		log.Error().
			Ctx(ctx).
			Str("component", "setup").
			Msg("setup completed with critical errors")
		return errors.New("setup failed: one or more critical steps failed")
	}

	return nil
}

// printStep outputs a single step's status line.
func printStep(cmd *cobra.Command, step StepResult, nonInteractive bool) {
	marker := formatStatus(step.Status, nonInteractive)
	cmd.Printf("%s %s\n", marker, step.Message)
}

// printSummary outputs the final completion message.
func printSummary(cmd *cobra.Command, result *SetupResult, opts *SetupOptions) {
	cmd.Println()
	switch {
	case result.HasErrors:
		cmd.Println("Setup completed with errors. Review the messages above for remediation steps.")
	case opts.Demo:
		cmd.Println("Setup complete! Run 'ecotrack report' to explore the seeded history.")
	default:
		cmd.Println("Setup complete! Run 'ecotrack log add' to log your first activity.")
	}
}

// stepDisplayVersion prints the EcoTrack version and Go runtime info.
func stepDisplayVersion() StepResult {
	ver := version.GetVersion()
	goVer := runtime.Version()
	msg := fmt.Sprintf("EcoTrack v%s (%s)", ver, goVer)
	return StepResult{
		Name:    "Version display",
		Status:  StepSuccess,
		Message: msg,
	}
}

// stepCreateDirectories creates the required EcoTrack directories.
// Returns one StepResult per directory.
func stepCreateDirectories() []StepResult {
	cfg := config.GetGlobalConfig()

	baseDir, err := config.GetConfigDir()
	if err != nil {
		return []StepResult{{
			Name:     "Directory creation",
			Status:   StepError,
			Message:  fmt.Sprintf("Cannot resolve home directory: %v", err),
			Critical: true,
			Err:      err,
		}}
	}

	dirs := []string{
		baseDir,
		cfg.Storage.ModelDir,
		filepath.Dir(cfg.Storage.DatabasePath),
	}
	if cfg.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.File))
	}

	var results []StepResult
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true

		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			results = append(results, StepResult{
				Name:     "Directory creation",
				Status:   StepSuccess,
				Message:  fmt.Sprintf("Directory exists: %s", dir),
				Critical: true,
			})
			continue
		}

		if mkErr := os.MkdirAll(dir, dirPermBase); mkErr != nil {
			results = append(results, StepResult{
				Name:   "Directory creation",
				Status: StepError,
				Message: fmt.Sprintf(
					"Failed to create %s: %v\n  Try: export ECOTRACK_HOME=/path/to/writable/directory",
					dir,
					mkErr,
				),
				Critical: true,
				Err:      mkErr,
			})
			continue
		}

		results = append(results, StepResult{
			Name:     "Directory creation",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Created %s", dir),
			Critical: true,
		})
	}

	return results
}

// stepInitConfig initializes the default config file if one does not exist.
func stepInitConfig() StepResult {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Cannot resolve config path: %v", err),
			Critical: true,
			Err:      err,
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Config already exists (%s)", configPath),
			Critical: true,
		}
	}

	cfg := config.New()
	if err := cfg.Save(configPath); err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to initialize config: %v", err),
			Critical: true,
			Err:      err,
		}
	}

	return StepResult{
		Name:     "Config initialization",
		Status:   StepSuccess,
		Message:  fmt.Sprintf("Initialized config (%s)", configPath),
		Critical: true,
	}
}

// stepSeedDemo seeds the database with generated sample history.
func stepSeedDemo(ctx context.Context) StepResult {
	store, err := openStore()
	if err != nil {
		return StepResult{
			Name:    "Demo data",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to open database: %v\n  Try later: ecotrack log demo", err),
			Err:     err,
		}
	}
	defer store.Close()

	catalog, err := loadCatalog()
	if err != nil {
		return StepResult{
			Name:    "Demo data",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to load factors: %v", err),
			Err:     err,
		}
	}

	records := ingest.DemoDays(setupDemoDays, time.Now(), ingest.DemoSeed)
	importer, err := ingest.NewImporter(store, catalog, 0)
	if err != nil {
		return StepResult{
			Name:    "Demo data",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to seed demo data: %v\n  Try later: ecotrack log demo", err),
			Err:     err,
		}
	}
	summary, err := importer.ImportRecords(ctx, records, nil)
	if err != nil {
		return StepResult{
			Name:    "Demo data",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to seed demo data: %v\n  Try later: ecotrack log demo", err),
			Err:     err,
		}
	}

	return StepResult{
		Name:   "Demo data",
		Status: StepSuccess,
		Message: fmt.Sprintf("Seeded %d activities across %d day(s)",
			summary.Imported, len(summary.Days)),
	}
}

// stepTrainModel trains a starter model on a synthetic dataset.
func stepTrainModel(ctx context.Context) StepResult {
	mgr, err := newManager()
	if err != nil {
		return StepResult{
			Name:    "Model training",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to create forecast manager: %v", err),
			Err:     err,
		}
	}

	cfg := config.GetGlobalConfig()
	samples := forecast.Synthesize(setupSyntheticSamples, cfg.Training.Seed)

	trainReport, err := mgr.Train(ctx, samples)
	if err != nil {
		return StepResult{
			Name:    "Model training",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to train model: %v\n  Try later: ecotrack train --synthetic %d", err, setupSyntheticSamples),
			Err:     err,
		}
	}

	return StepResult{
		Name:   "Model training",
		Status: StepSuccess,
		Message: fmt.Sprintf("Trained starter model (%s, %d samples)",
			trainReport.Algorithm, trainReport.SampleCount),
	}
}
