package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
	"github.com/ecotrack/ecotrack/internal/report"
)

// FootprintParams holds the parameters for the footprint command execution.
// Exported for testing.
type FootprintParams struct {
	Date   string
	From   string
	To     string
	Days   int
	Output string
}

// NewFootprintCmd creates the footprint command showing daily emission
// summaries.
func newFootprintCmd() *cobra.Command {
	var params FootprintParams

	cmd := &cobra.Command{
		Use:   "footprint",
		Short: "Show daily emission summaries",
		Long: `Shows the computed footprint for a single day or a date range.
Single-day output breaks the total down by category; range output lists
one row per day with category columns.`,
		Example: `  # Today's footprint
  ecotrack footprint

  # A specific day
  ecotrack footprint --date 2026-08-20

  # The last 30 days
  ecotrack footprint --days 30

  # An explicit range as JSON
  ecotrack footprint --from 2026-07-01 --to 2026-07-31 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeFootprint(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Date, "date", "", "Single day YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&params.From, "from", "", "Range start YYYY-MM-DD")
	cmd.Flags().StringVar(&params.To, "to", "", "Range end YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&params.Days, "days", 0, "Days to include, ending at --to")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// executeFootprint renders either a single-day breakdown or a range table.
func executeFootprint(cmd *cobra.Command, params FootprintParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}
	if params.Date != "" && (params.From != "" || params.To != "" || params.Days > 0) {
		return fmt.Errorf("--date cannot be combined with --from, --to, or --days")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	// Range mode when any range flag is present.
	if params.From != "" || params.Days > 0 {
		days := params.Days
		if days == 0 {
			days = 7
		}
		from, to, err := parseDayRange(params.From, params.To, days, time.Now())
		if err != nil {
			return err
		}
		history, err := store.History(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to load footprint history: %w", err)
		}
		return renderFootprintRange(cmd, history, from, to, params.Output)
	}

	day, err := parseDay(firstNonEmpty(params.Date, params.To), time.Now())
	if err != nil {
		return err
	}

	history, err := store.History(ctx, day, day)
	if err != nil {
		return fmt.Errorf("failed to load footprint: %w", err)
	}

	result := footprint.Result{Date: day}
	if len(history) > 0 {
		result = history[0]
	}
	return renderFootprintDay(cmd, result, params.Output)
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// footprintDayJSON is the JSON shape of a single-day footprint.
type footprintDayJSON struct {
	Date          string               `json:"date"`
	Breakdown     map[string]float64   `json:"breakdown"`
	TotalKg       float64              `json:"total_kg"`
	Level         string               `json:"level"`
	Score         int                  `json:"score"`
	Grade         string               `json:"grade"`
	Equivalencies []report.Equivalency `json:"equivalencies,omitempty"`
}

// renderFootprintDay prints one day's breakdown with level and score.
func renderFootprintDay(cmd *cobra.Command, result footprint.Result, format string) error {
	score, grade := report.Score(result.Total)

	if format == outputJSON {
		out := footprintDayJSON{
			Date:          result.Date.Format(dayLayout),
			Breakdown:     make(map[string]float64, len(factors.Categories())),
			TotalKg:       result.Total,
			Level:         report.Level(result.Total),
			Score:         score,
			Grade:         grade,
			Equivalencies: report.Equivalencies(result.Total),
		}
		for _, c := range factors.Categories() {
			out.Breakdown[c.String()] = result.ForCategory(c)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal footprint: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	day := result.Date.Format(dayLayout)
	fmt.Fprintf(w, "FOOTPRINT FOR %s\n", day)
	fmt.Fprintln(w, "------------------------")

	if result.Total <= 0 {
		fmt.Fprintln(w, "No activities logged.")
		return nil
	}

	precision := config.GetOutputPrecision()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tKG CO2E\tSHARE")
	fmt.Fprintln(tw, "--------\t-------\t-----")
	for _, c := range factors.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n",
			c, report.FormatFloat(result.ForCategory(c), precision), result.Share(c)*100)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t\n", report.FormatFloat(result.Total, precision))
	tw.Flush()

	fmt.Fprintf(w, "\nLevel: %s (score %d, grade %s)\n", report.Level(result.Total), score, grade)
	if text := report.EquivalencyText(result.Total); text != "" {
		fmt.Fprintf(w, "%s\n", text)
	}
	return nil
}

// footprintRangeJSON is the JSON shape of a range footprint summary.
type footprintRangeJSON struct {
	From         string             `json:"from"`
	To           string             `json:"to"`
	Days         []footprint.Result `json:"days"`
	TotalKg      float64            `json:"total_kg"`
	DailyMeanKg  float64            `json:"daily_mean_kg"`
	DaysWithData int                `json:"days_with_data"`
}

// renderFootprintRange prints per-day rows plus totals for a date range.
func renderFootprintRange(cmd *cobra.Command, history []footprint.Result, from, to time.Time, format string) error {
	var total float64
	for _, r := range history {
		total += r.Total
	}
	mean := 0.0
	if len(history) > 0 {
		mean = total / float64(len(history))
	}

	if format == outputJSON {
		out := footprintRangeJSON{
			From:         from.Format(dayLayout),
			To:           to.Format(dayLayout),
			Days:         history,
			TotalKg:      total,
			DailyMeanKg:  mean,
			DaysWithData: len(history),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal footprint range: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "FOOTPRINT %s TO %s\n", from.Format(dayLayout), to.Format(dayLayout))
	fmt.Fprintln(w, "----------------------------------")

	if len(history) == 0 {
		fmt.Fprintln(w, "No activities logged in range.")
		return nil
	}

	renderHistoryTable(w, history)

	precision := config.GetOutputPrecision()
	fmt.Fprintf(w, "\nTotal: %s over %d day(s)\n", report.FormatKg(total), len(history))
	fmt.Fprintf(w, "Daily mean: %s kg CO2e\n", report.FormatFloat(mean, precision))
	return nil
}

// renderHistoryTable prints one row per day with category columns.
func renderHistoryTable(w io.Writer, history []footprint.Result) {
	precision := config.GetOutputPrecision()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTRANSPORT\tENERGY\tFOOD\tWASTE\tTOTAL")
	fmt.Fprintln(tw, "----\t---------\t------\t----\t-----\t-----")
	for _, r := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format(dayLayout),
			report.FormatFloat(r.Transport, precision),
			report.FormatFloat(r.Energy, precision),
			report.FormatFloat(r.Food, precision),
			report.FormatFloat(r.Waste, precision),
			report.FormatFloat(r.Total, precision),
		)
	}
	tw.Flush()
}
