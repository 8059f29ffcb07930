package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/recommend"
	"github.com/ecotrack/ecotrack/internal/report"
)

// RecommendParams holds the parameters for the recommend command
// execution. Exported for testing.
type RecommendParams struct {
	Days    int
	Max     int
	Verbose bool
	Output  string
}

// NewRecommendCmd creates the recommend command that ranks reduction
// interventions.
func newRecommendCmd() *cobra.Command {
	var params RecommendParams

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend emission reduction actions",
		Long: `Ranks a catalog of reduction interventions against the logged emission
profile: categories that dominate the footprint, categories the forecast
model weights heavily, and a rising trend in the dominant category all
lift matching interventions. With no usable history, a starter set of
low-difficulty actions is returned instead.`,
		Example: `  # Recommendations from the last 30 days
  ecotrack recommend

  # More results with rationale text
  ecotrack recommend --max 12 --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRecommend(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.Days, "days", 30, "Days of history to profile")
	cmd.Flags().IntVar(&params.Max, "max", 0, "Maximum recommendations to return (0 = config default)")
	cmd.Flags().BoolVar(&params.Verbose, "verbose", false, "Include rationale for each recommendation")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// executeRecommend profiles recent history and ranks the catalog.
func executeRecommend(cmd *cobra.Command, params RecommendParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}
	if params.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", params.Days)
	}

	cfg := config.GetGlobalConfig()
	engineCfg := recommend.DefaultConfig()
	engineCfg.MaxResults = cfg.Recommendations.MaxResults
	if params.Max > 0 {
		engineCfg.MaxResults = params.Max
	}

	engine, err := recommend.NewEngine(engineCfg)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	to, err := parseDay("", time.Now())
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -(params.Days - 1))

	history, err := store.History(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	breakdown := make(map[factors.Category]float64, len(factors.Categories()))
	for _, r := range history {
		for _, c := range factors.Categories() {
			breakdown[c] += r.ForCategory(c)
		}
	}

	// Model importances are an optional signal; a missing or untrained
	// model must not block recommendations.
	var importances map[string]float64
	if mgr, mgrErr := newManager(); mgrErr == nil {
		if loadErr := mgr.LoadActive(ctx); loadErr == nil {
			importances, _ = mgr.Importances()
		}
	}

	trend := recommend.AnalyzeTrend(history)
	recommendations := engine.Recommend(ctx, breakdown, importances, trend)

	return renderRecommendations(cmd, recommendations, trend, params)
}

// recommendationsJSON is the JSON shape of the recommend output.
type recommendationsJSON struct {
	Trend           recommend.Trend            `json:"trend"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// renderRecommendations prints the ranked interventions.
func renderRecommendations(cmd *cobra.Command, recs []recommend.Recommendation, trend recommend.Trend, params RecommendParams) error {
	if params.Output == outputJSON {
		data, err := json.MarshalIndent(recommendationsJSON{Trend: trend, Recommendations: recs}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal recommendations: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "TOP %d RECOMMENDATIONS\n", len(recs))
	fmt.Fprintln(w, strings.Repeat("-", 40))

	renderTrendLine(cmd, trend)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "#\tACTION\tCATEGORY\tEST. ANNUAL SAVINGS\tDIFFICULTY")
	fmt.Fprintln(tw, "-\t------\t--------\t-------------------\t----------")
	for i, rec := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1, rec.Title, rec.Category, report.FormatKg(rec.EstimatedAnnualKg), rec.Difficulty)
	}
	tw.Flush()

	if params.Verbose {
		fmt.Fprintln(w)
		for i, rec := range recs {
			fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, rec.Title, rec.Rationale)
		}
	}
	return nil
}

// renderTrendLine prints a one-line trend summary when there is movement
// or a weekly pattern worth calling out.
func renderTrendLine(cmd *cobra.Command, trend recommend.Trend) {
	switch trend.Direction {
	case recommend.TrendRising:
		cmd.Printf("Trend: rising (%.1f kg/day recently vs %.1f before)\n\n",
			trend.RecentMean, trend.PreviousMean)
	case recommend.TrendFalling:
		cmd.Printf("Trend: falling (%.1f kg/day recently vs %.1f before)\n\n",
			trend.RecentMean, trend.PreviousMean)
	case recommend.TrendStable:
		if trend.HasWeekdayPattern {
			cmd.Printf("Weekly pattern: %s runs hottest, %s lowest\n\n",
				trend.PeakWeekday, trend.QuietWeekday)
		}
	}
}
