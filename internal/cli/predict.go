package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/forecast"
	"github.com/ecotrack/ecotrack/internal/report"
)

// PredictParams holds the parameters for the predict command execution.
// Exported for testing.
type PredictParams struct {
	Date   string
	Output string
}

// NewPredictCmd creates the predict command serving annual footprint
// forecasts.
func newPredictCmd() *cobra.Command {
	var params PredictParams

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the annual carbon footprint",
		Long: `Builds a feature vector from recent history and the household profile,
runs it through the active forecast model, and reports the projected
annual footprint with its confidence interval and benchmark comparisons.`,
		Example: `  # Predict from history up to today
  ecotrack predict

  # Predict as of a past date
  ecotrack predict --date 2026-06-30 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executePredict(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Date, "date", "", "Prediction as-of date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// executePredict builds features, runs inference, and renders the result.
func executePredict(cmd *cobra.Command, params PredictParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	at, err := parseDay(params.Date, time.Now())
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := mgr.LoadActive(ctx); err != nil {
		return fmt.Errorf("no usable forecast model: %w; run 'ecotrack train' first", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	builder, err := newBuilder()
	if err != nil {
		return err
	}

	from := at.AddDate(0, 0, -(builder.WindowDays() - 1))
	history, err := store.History(ctx, from, at)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	profile, err := loadProfile(ctx, store)
	if err != nil {
		return err
	}

	vector, info, err := builder.Build(history, profile, at)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientHistory) {
			return fmt.Errorf("%w; log at least %d days of activities before predicting",
				err, features.MinObservedDays)
		}
		return err
	}

	prediction, err := mgr.Predict(ctx, vector)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	artifact, _ := mgr.Active()
	return renderPrediction(cmd, prediction, artifact.Algorithm, info.ObservedDays, at, params.Output)
}

// predictionJSON is the JSON shape of a served prediction.
type predictionJSON struct {
	Date         string              `json:"date"`
	Algorithm    string              `json:"algorithm"`
	ObservedDays int                 `json:"observed_days"`
	AnnualKg     float64             `json:"annual_kg"`
	DailyKg      float64             `json:"daily_kg"`
	Lower        float64             `json:"lower_kg"`
	Upper        float64             `json:"upper_kg"`
	Confidence   float64             `json:"confidence"`
	Benchmarks   []report.Comparison `json:"benchmarks"`
}

// renderPrediction prints the forecast with interval and benchmarks.
func renderPrediction(cmd *cobra.Command, p *forecast.Prediction, algorithm string, observedDays int, at time.Time, format string) error {
	daily := p.Point / 365

	if format == outputJSON {
		out := predictionJSON{
			Date:         at.Format(dayLayout),
			Algorithm:    algorithm,
			ObservedDays: observedDays,
			AnnualKg:     p.Point,
			DailyKg:      daily,
			Lower:        p.Lower,
			Upper:        p.Upper,
			Confidence:   p.Confidence,
			Benchmarks:   report.CompareAnnual(p.Point),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prediction: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "ANNUAL FOOTPRINT FORECAST")
	fmt.Fprintln(w, "-------------------------")
	fmt.Fprintf(w, "Projected: %s per year\n", report.FormatKg(p.Point))
	fmt.Fprintf(w, "Interval: %s to %s (%.0f%% confidence)\n",
		report.FormatKg(p.Lower), report.FormatKg(p.Upper), p.Confidence*100)
	fmt.Fprintf(w, "Daily equivalent: %s kg CO2e\n", report.FormatFloat(daily, 1))
	fmt.Fprintf(w, "Model: %s, features from %d observed day(s)\n", algorithm, observedDays)

	fmt.Fprintln(w)
	renderBenchmarkTable(w, report.CompareAnnual(p.Point))
	return nil
}
