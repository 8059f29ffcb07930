package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
	"github.com/ecotrack/ecotrack/internal/report"
)

// Report rendering constants.
const (
	reportBoxWidth    = 46
	shareBarWidth     = 20
	shareFilledChar   = "█"
	shareEmptyChar    = "░"
	reportSeparatorCh = "═"
)

// boxBorderColor returns the lipgloss color used for report box borders.
func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

// boxTitleColor returns the lipgloss color used for report box titles.
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }

// sectionColor returns the lipgloss color used for section headers.
func sectionColor() lipgloss.Color { return lipgloss.Color("33") }

// shareBarColor returns the lipgloss color used for category share bars.
func shareBarColor() lipgloss.Color { return lipgloss.Color("42") }

// shareEmptyColor returns the lipgloss color used for the unfilled part of
// share bars.
func shareEmptyColor() lipgloss.Color { return lipgloss.Color("240") }

// levelColor returns the lipgloss color for an emission level label.
func levelColor(level string) lipgloss.Color {
	switch level {
	case report.LevelLow:
		return lipgloss.Color("42") // Green
	case report.LevelMedium:
		return lipgloss.Color("220") // Yellow
	case report.LevelHigh:
		return lipgloss.Color("214") // Orange
	default:
		return lipgloss.Color("196") // Red
	}
}

// ReportParams holds the parameters for the report command execution.
// Exported for testing.
type ReportParams struct {
	From   string
	To     string
	Days   int
	Goal   string
	Output string
}

// NewReportCmd creates the report command producing a full period summary.
func newReportCmd() *cobra.Command {
	var params ReportParams

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Full footprint report for a period",
		Long: `Summarizes a period of logged history: totals, daily mean, emission
level and sustainability score, category breakdown, real-world
equivalencies, benchmark comparisons, and progress toward a goal.`,
		Example: `  # Last 30 days
  ecotrack report

  # A quarter, measured against the 2050 Paris target
  ecotrack report --from 2026-04-01 --to 2026-06-30 --goal paris_target_2050

  # Machine-readable report
  ecotrack report --days 7 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeReport(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "", "Range start YYYY-MM-DD")
	cmd.Flags().StringVar(&params.To, "to", "", "Range end YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&params.Days, "days", 30, "Days to include when --from is not set")
	cmd.Flags().StringVar(&params.Goal, "goal", "paris_target_2030", "Benchmark key used as the reduction goal")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// CategoryShare is one category's contribution to the period total.
type CategoryShare struct {
	Category factors.Category `json:"category"`
	Kg       float64          `json:"kg"`
	Share    float64          `json:"share"`
}

// GoalProgress measures the period against a benchmark goal.
type GoalProgress struct {
	Benchmark     report.Benchmark `json:"benchmark"`
	TargetDailyKg float64          `json:"target_daily_kg"`
	DaysToGoal    int              `json:"days_to_goal"`
	OffsetCostUSD float64          `json:"offset_cost_usd"`
}

// ReportData is everything the report renders, assembled once so table
// and JSON modes agree.
type ReportData struct {
	From          string               `json:"from"`
	To            string               `json:"to"`
	DaysWithData  int                  `json:"days_with_data"`
	TotalKg       float64              `json:"total_kg"`
	DailyMeanKg   float64              `json:"daily_mean_kg"`
	AnnualizedKg  float64              `json:"annualized_kg"`
	Level         string               `json:"level"`
	Score         int                  `json:"score"`
	Grade         string               `json:"grade"`
	Breakdown     []CategoryShare      `json:"breakdown"`
	Equivalencies []report.Equivalency `json:"equivalencies,omitempty"`
	Benchmarks    []report.Comparison  `json:"benchmarks"`
	Goal          *GoalProgress        `json:"goal,omitempty"`
}

// executeReport loads the period history and renders the summary.
func executeReport(cmd *cobra.Command, params ReportParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	var goal *report.Benchmark
	if params.Goal != "" {
		for _, b := range report.Benchmarks() {
			if b.Key == params.Goal {
				bench := b
				goal = &bench
				break
			}
		}
		if goal == nil {
			return fmt.Errorf("unknown goal %q; known benchmarks: %s", params.Goal, benchmarkKeys())
		}
	}

	from, to, err := parseDayRange(params.From, params.To, params.Days, time.Now())
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	history, err := store.History(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	data := buildReportData(history, from, to, goal)

	if params.Output == outputJSON {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	return RenderReport(cmd.OutOrStdout(), data)
}

// benchmarkKeys lists the known benchmark keys for error messages.
func benchmarkKeys() string {
	keys := make([]string, 0, len(report.Benchmarks()))
	for _, b := range report.Benchmarks() {
		keys = append(keys, b.Key)
	}
	return strings.Join(keys, ", ")
}

// buildReportData aggregates history into the report view model.
func buildReportData(history []footprint.Result, from, to time.Time, goal *report.Benchmark) *ReportData {
	var total float64
	byCategory := make(map[factors.Category]float64, len(factors.Categories()))
	for _, r := range history {
		total += r.Total
		for _, c := range factors.Categories() {
			byCategory[c] += r.ForCategory(c)
		}
	}

	mean := 0.0
	if len(history) > 0 {
		mean = total / float64(len(history))
	}
	annualized := mean * 365

	score, grade := report.Score(mean)
	data := &ReportData{
		From:          from.Format(dayLayout),
		To:            to.Format(dayLayout),
		DaysWithData:  len(history),
		TotalKg:       total,
		DailyMeanKg:   mean,
		AnnualizedKg:  annualized,
		Level:         report.Level(mean),
		Score:         score,
		Grade:         grade,
		Equivalencies: report.Equivalencies(total),
		Benchmarks:    report.CompareAnnual(annualized),
	}

	for _, c := range factors.Categories() {
		kg := byCategory[c]
		share := 0.0
		if total > 0 {
			share = kg / total
		}
		data.Breakdown = append(data.Breakdown, CategoryShare{Category: c, Kg: kg, Share: share})
	}

	if goal != nil && mean > 0 {
		targetDaily := goal.AnnualKg / 365
		data.Goal = &GoalProgress{
			Benchmark:     *goal,
			TargetDailyKg: targetDaily,
			DaysToGoal:    report.DaysToGoal(mean, targetDaily, total),
			OffsetCostUSD: report.OffsetCost(total, report.DefaultOffsetPricePerTonne),
		}
	}

	return data
}

// RenderReport renders the report to the writer: a styled box when w is
// a terminal, plain text otherwise.
func RenderReport(w io.Writer, data *ReportData) error {
	if data == nil {
		return nil
	}
	if isWriterTerminal(w) {
		return renderStyledReport(w, data)
	}
	return renderPlainReport(w, data)
}

// isWriterTerminal reports whether the writer refers to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// getTerminalWidth returns the terminal width of the writer, or a default
// wide enough for the report box.
func getTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return reportBoxWidth + 4
}

// renderStyledReport renders a bordered, colored report box for TTY output.
func renderStyledReport(w io.Writer, data *ReportData) error {
	boxWidth := reportBoxWidth
	if tw := getTerminalWidth(w); tw < boxWidth+4 && tw > 20 {
		boxWidth = tw - 4
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(sectionColor())
	levelStyle := lipgloss.NewStyle().Bold(true).Foreground(levelColor(data.Level))
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render("CARBON FOOTPRINT REPORT"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s to %s\n", data.From, data.To))
	content.WriteString(strings.Repeat(reportSeparatorCh, boxWidth-2))
	content.WriteString("\n\n")

	precision := config.GetOutputPrecision()
	content.WriteString(fmt.Sprintf("Total: %s over %d day(s)\n", report.FormatKg(data.TotalKg), data.DaysWithData))
	content.WriteString(fmt.Sprintf("Daily mean: %s kg CO2e\n", report.FormatFloat(data.DailyMeanKg, precision)))
	content.WriteString(fmt.Sprintf("Annualized: %s\n", report.FormatKg(data.AnnualizedKg)))
	content.WriteString(fmt.Sprintf("Level: %s  Score: %d (%s)\n",
		levelStyle.Render(data.Level), data.Score, data.Grade))

	if data.DaysWithData > 0 {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("BY CATEGORY"))
		content.WriteString("\n")
		for _, cs := range data.Breakdown {
			content.WriteString(fmt.Sprintf("%-10s %s %4.1f%%\n",
				cs.Category, renderShareBar(cs.Share), cs.Share*100))
		}
	}

	if len(data.Equivalencies) > 0 {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("EQUIVALENT TO"))
		content.WriteString("\n")
		for _, eq := range data.Equivalencies {
			content.WriteString(fmt.Sprintf("~%s %s\n", eq.Formatted, eq.Label))
		}
	}

	content.WriteString("\n")
	content.WriteString(sectionStyle.Render("VS BENCHMARKS"))
	content.WriteString("\n")
	content.WriteString(benchmarkLines(data.Benchmarks))

	if data.Goal != nil {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("GOAL"))
		content.WriteString("\n")
		content.WriteString(goalLines(data.Goal, precision))
	}

	if _, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(content.String(), "\n"))); err != nil {
		return err
	}
	return nil
}

// renderShareBar draws a fixed-width colored share bar.
func renderShareBar(share float64) string {
	filled := int(math.Round(share * shareBarWidth))
	if filled > shareBarWidth {
		filled = shareBarWidth
	}
	filledStyle := lipgloss.NewStyle().Foreground(shareBarColor())
	emptyStyle := lipgloss.NewStyle().Foreground(shareEmptyColor())
	return filledStyle.Render(strings.Repeat(shareFilledChar, filled)) +
		emptyStyle.Render(strings.Repeat(shareEmptyChar, shareBarWidth-filled))
}

// renderPlainReport renders the report as plain text for pipes and files.
func renderPlainReport(w io.Writer, data *ReportData) error {
	precision := config.GetOutputPrecision()

	fmt.Fprintln(w, "CARBON FOOTPRINT REPORT")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintf(w, "Period: %s to %s (%d day(s) with data)\n", data.From, data.To, data.DaysWithData)
	fmt.Fprintf(w, "Total: %s\n", report.FormatKg(data.TotalKg))
	fmt.Fprintf(w, "Daily mean: %s kg CO2e\n", report.FormatFloat(data.DailyMeanKg, precision))
	fmt.Fprintf(w, "Annualized: %s\n", report.FormatKg(data.AnnualizedKg))
	fmt.Fprintf(w, "Level: %s  Score: %d (%s)\n", data.Level, data.Score, data.Grade)

	if data.DaysWithData > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "BY CATEGORY")
		tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tKG CO2E\tSHARE")
		fmt.Fprintln(tw, "--------\t-------\t-----")
		for _, cs := range data.Breakdown {
			fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n",
				cs.Category, report.FormatFloat(cs.Kg, precision), cs.Share*100)
		}
		tw.Flush()
	}

	if len(data.Equivalencies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "EQUIVALENT TO")
		for _, eq := range data.Equivalencies {
			fmt.Fprintf(w, "  ~%s %s\n", eq.Formatted, eq.Label)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "VS BENCHMARKS")
	fmt.Fprint(w, benchmarkLines(data.Benchmarks))

	if data.Goal != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "GOAL")
		fmt.Fprint(w, goalLines(data.Goal, precision))
	}
	return nil
}

// benchmarkLines formats benchmark comparisons one per line. Negative
// deltas mean below the benchmark.
func benchmarkLines(comparisons []report.Comparison) string {
	var b strings.Builder
	for _, c := range comparisons {
		sign := "+"
		if c.DeltaPct < 0 {
			sign = ""
		}
		b.WriteString(fmt.Sprintf("%-22s %s%.1f%%\n", c.Label, sign, c.DeltaPct))
	}
	return b.String()
}

// goalLines formats the goal progress block.
func goalLines(goal *GoalProgress, precision int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s kg CO2e/day\n",
		goal.Benchmark.Label, report.FormatFloat(goal.TargetDailyKg, precision)))
	if goal.DaysToGoal > 0 {
		b.WriteString(fmt.Sprintf("Days to goal at target pace: %s\n", report.FormatNumber(int64(goal.DaysToGoal))))
	} else {
		b.WriteString("Already at or below the target pace\n")
	}
	b.WriteString(fmt.Sprintf("Offset cost for period: $%.2f\n", goal.OffsetCostUSD))
	return b.String()
}

// renderBenchmarkTable prints benchmark comparisons as a table. Shared by
// the predict command.
func renderBenchmarkTable(w io.Writer, comparisons []report.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "BENCHMARK\tANNUAL KG\tDELTA")
	fmt.Fprintln(tw, "---------\t---------\t-----")
	for _, c := range comparisons {
		sign := "+"
		if c.DeltaPct < 0 {
			sign = ""
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%.1f%%\n",
			c.Label, report.FormatNumber(int64(math.Round(c.AnnualKg))), sign, c.DeltaPct)
	}
	tw.Flush()
}
