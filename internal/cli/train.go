package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/forecast"
	"github.com/ecotrack/ecotrack/internal/report"
)

// TrainParams holds the parameters for the train command execution.
// Exported for testing.
type TrainParams struct {
	Synthetic int
	Days      int
	Output    string
}

// NewTrainCmd creates the train command that fits and selects a forecast
// model.
func newTrainCmd() *cobra.Command {
	var params TrainParams

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the annual footprint forecast model",
		Long: `Trains every configured candidate algorithm, compares them by
cross-validation, and persists the winner as the active model.

By default training samples are derived from logged daily history. With
--synthetic, a generated lifestyle dataset is used instead, which lets a
fresh installation train a model before any real history accumulates.`,
		Example: `  # Train on logged history (last 365 days)
  ecotrack train

  # Train on a generated dataset
  ecotrack train --synthetic 2000

  # Train on a shorter history window
  ecotrack train --days 120`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeTrain(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.Synthetic, "synthetic", 0, "Train on N generated samples instead of logged history")
	cmd.Flags().IntVar(&params.Days, "days", 365, "Days of history to train on")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// executeTrain assembles the training set, runs the pipeline, and renders
// the report.
func executeTrain(cmd *cobra.Command, params TrainParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	var samples []forecast.TrainingSample
	source := "history"
	if params.Synthetic > 0 {
		source = "synthetic"
		samples = forecast.Synthesize(params.Synthetic, cfg.Training.Seed)
	} else {
		samples, err = historySamples(cmd, params.Days)
		if err != nil {
			return err
		}
	}

	logger.Info().
		Ctx(ctx).
		Str("source", source).
		Int("samples", len(samples)).
		Msg("training forecast model")

	trainReport, err := mgr.Train(ctx, samples)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			return fmt.Errorf("%w (have %d samples, need %d); log more history or use --synthetic",
				err, len(samples), cfg.Training.MinSamples)
		}
		return fmt.Errorf("training failed: %w", err)
	}

	return renderTrainReport(cmd, trainReport, source, params.Output)
}

// historySamples builds training samples from logged daily footprints.
func historySamples(cmd *cobra.Command, days int) ([]forecast.TrainingSample, error) {
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", days)
	}

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ctx := cmd.Context()
	to, err := parseDay("", time.Now())
	if err != nil {
		return nil, err
	}
	from := to.AddDate(0, 0, -(days - 1))

	history, err := store.History(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	profile, err := loadProfile(ctx, store)
	if err != nil {
		return nil, err
	}

	builder, err := newBuilder()
	if err != nil {
		return nil, err
	}

	samples, err := forecast.SamplesFromHistory(builder, profile, history)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			return nil, fmt.Errorf("%w: %d day(s) of history in range; log more days or use --synthetic",
				forecast.ErrInsufficientData, len(history))
		}
		return nil, err
	}
	return samples, nil
}

// trainReportJSON wraps the training report with its sample source.
type trainReportJSON struct {
	Source string `json:"source"`
	*forecast.Report
}

// renderTrainReport prints the training outcome with per-candidate metrics.
func renderTrainReport(cmd *cobra.Command, trainReport *forecast.Report, source, format string) error {
	if format == outputJSON {
		data, err := json.MarshalIndent(trainReportJSON{Source: source, Report: trainReport}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal training report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "TRAINING REPORT")
	fmt.Fprintln(w, "---------------")
	fmt.Fprintf(w, "Samples: %d (%s), %d training / %d validation\n",
		trainReport.SampleCount, source, trainReport.TrainingCount, trainReport.ValidationCount)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tCV RMSE\tCV MAE\tCV R2\tHOLDOUT RMSE\tHOLDOUT R2\tSELECTED")
	fmt.Fprintln(tw, "---------\t-------\t------\t-----\t------------\t----------\t--------")
	for _, c := range trainReport.Candidates {
		marker := ""
		if c.Selected {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.3f\t%.1f\t%.3f\t%s\n",
			c.Algorithm,
			c.CrossValidation.RMSE, c.CrossValidation.MAE, c.CrossValidation.R2,
			c.Holdout.RMSE, c.Holdout.R2, marker)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nSelected %s (model %s)\n", trainReport.Algorithm, trainReport.ModelID)
	fmt.Fprintf(w, "Residual std: %s kg\n", report.FormatFloat(trainReport.ResidualStd, 1))
	return nil
}
