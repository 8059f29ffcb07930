package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/cli/pagination"
	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
	"github.com/ecotrack/ecotrack/internal/ingest"
	"github.com/ecotrack/ecotrack/internal/report"
	"github.com/ecotrack/ecotrack/internal/storage"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// maxRowErrorsShown caps how many per-row import errors are printed.
const maxRowErrorsShown = 10

// LogAddParams holds the parameters for the log add command execution.
// Exported for testing.
type LogAddParams struct {
	Category string
	Subtype  string
	Quantity float64
	Unit     string
	Date     string
	Output   string
}

// NewLogAddCmd creates the "log add" subcommand for logging a single activity.
func NewLogAddCmd() *cobra.Command {
	var params LogAddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a single activity",
		Long: `Logs one activity, computes its CO2 emissions from the factor table,
and folds it into the day's footprint.`,
		Example: `  # Log a 25 mile car trip for today
  ecotrack log add --category transport --subtype gasoline_car --quantity 25 --unit mile

  # Log electricity usage for a specific day
  ecotrack log add --category energy --subtype electricity --quantity 31.5 --unit kwh --date 2026-08-20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeLogAdd(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Category, "category", "", "Activity category (transport, energy, food, waste)")
	cmd.Flags().StringVar(&params.Subtype, "subtype", "", "Activity subtype (e.g. gasoline_car, electricity)")
	cmd.Flags().Float64Var(&params.Quantity, "quantity", 0, "Amount of activity in the given unit")
	cmd.Flags().StringVar(&params.Unit, "unit", "", "Unit the quantity is measured in (e.g. mile, kWh)")
	cmd.Flags().StringVar(&params.Date, "date", "", "Activity date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("subtype")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("unit")

	return cmd
}

// logAddResult is the JSON shape for a logged activity.
type logAddResult struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Subtype     string  `json:"subtype"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	EmissionsKg float64 `json:"emissions_kg"`
	DayTotalKg  float64 `json:"day_total_kg"`
}

// executeLogAdd computes and stores one activity, then reports the
// updated day total.
func executeLogAdd(cmd *cobra.Command, params LogAddParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	category, err := factors.ParseCategory(params.Category)
	if err != nil {
		return err
	}

	day, err := parseDay(params.Date, time.Now())
	if err != nil {
		return err
	}

	record := footprint.ActivityRecord{
		Date:     day,
		Category: category,
		Subtype:  strings.TrimSpace(params.Subtype),
		Quantity: params.Quantity,
		Unit:     strings.TrimSpace(params.Unit),
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Compute first so a bad subtype or unit fails before anything is stored.
	kg, err := footprint.Compute(catalog, record)
	if err != nil {
		return err
	}

	importer, err := ingest.NewImporter(store, catalog, 0)
	if err != nil {
		return err
	}
	summary, err := importer.ImportRecords(cmd.Context(), []footprint.ActivityRecord{record}, nil)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	dayTotal := 0.0
	for _, r := range summary.Results {
		if footprint.SameDay(r.Date, day) {
			dayTotal = r.Total
		}
	}

	result := logAddResult{
		Date:        day.Format(dayLayout),
		Category:    category.String(),
		Subtype:     record.Subtype,
		Quantity:    record.Quantity,
		Unit:        record.Unit,
		EmissionsKg: kg,
		DayTotalKg:  dayTotal,
	}

	if params.Output == outputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	precision := config.GetOutputPrecision()
	cmd.Printf("Logged %s %s of %s (%s)\n",
		report.FormatFloat(record.Quantity, precision), record.Unit, record.Subtype, category)
	cmd.Printf("Emissions: %s\n", report.FormatKg(kg))
	cmd.Printf("Day total for %s: %s\n", result.Date, report.FormatKg(dayTotal))
	if text := report.EquivalencyText(kg); text != "" {
		cmd.Printf("%s\n", text)
	}
	return nil
}

// LogImportParams holds the parameters for the log import command execution.
// Exported for testing.
type LogImportParams struct {
	File      string
	BatchSize int
	Output    string
}

// NewLogImportCmd creates the "log import" subcommand for bulk CSV import.
func NewLogImportCmd() *cobra.Command {
	var params LogImportParams

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import activities from a CSV file",
		Long: `Imports activities from a CSV file with the header
date,category,subtype,quantity,unit. Rows that fail to parse or convert
are skipped and reported; valid rows are stored in batches and the affected
daily footprints are recomputed.`,
		Example: `  # Import a CSV export
  ecotrack log import --file activities.csv

  # Import from stdin with a smaller batch size
  cat activities.csv | ecotrack log import --file - --batch-size 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeLogImport(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.File, "file", "", "CSV file to import, - for stdin")
	cmd.Flags().IntVar(&params.BatchSize, "batch-size", ingest.DefaultBatchSize, "Rows stored per batch (1-1000)")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// executeLogImport streams the CSV through the importer and renders the
// summary.
func executeLogImport(cmd *cobra.Command, params LogImportParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}

	var reader io.Reader
	if params.File == "-" {
		reader = cmd.InOrStdin()
	} else {
		f, err := os.Open(params.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", params.File, err)
		}
		defer f.Close()
		reader = f
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Progress goes to stderr only when someone is watching.
	var onProgress ingest.ProgressFunc
	if isTerminal(os.Stderr) {
		onProgress = func(p ingest.Progress) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rImporting... %d/%d rows (%.0f%%)", p.Processed, p.Total, p.Percent())
			if p.Processed == p.Total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	importer, err := ingest.NewImporter(store, catalog, params.BatchSize)
	if err != nil {
		return err
	}
	summary, err := importer.ImportCSV(cmd.Context(), reader, onProgress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	return renderImportSummary(cmd, summary, params.Output)
}

// importSummaryJSON is the JSON shape of an import summary.
type importSummaryJSON struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Days     int      `json:"days"`
	TotalKg  float64  `json:"total_kg"`
	Errors   []string `json:"errors,omitempty"`
}

// renderImportSummary prints the outcome of a bulk import.
func renderImportSummary(cmd *cobra.Command, summary *ingest.Summary, format string) error {
	if format == outputJSON {
		out := importSummaryJSON{
			Imported: summary.Imported,
			Skipped:  summary.Skipped,
			Days:     len(summary.Days),
			TotalKg:  summary.TotalKg,
		}
		for _, re := range summary.RowErrors {
			out.Errors = append(out.Errors, re.Error())
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Imported %d activities across %d day(s)\n", summary.Imported, len(summary.Days))
	cmd.Printf("Total emissions: %s\n", report.FormatKg(summary.TotalKg))
	if summary.Skipped > 0 {
		cmd.Printf("Skipped %d row(s):\n", summary.Skipped)
		for i, re := range summary.RowErrors {
			if i == maxRowErrorsShown {
				cmd.Printf("  ... and %d more\n", len(summary.RowErrors)-maxRowErrorsShown)
				break
			}
			cmd.Printf("  %s\n", re.Error())
		}
	}
	return nil
}

// LogDemoParams holds the parameters for the log demo command execution.
// Exported for testing.
type LogDemoParams struct {
	Days   int
	Seed   int64
	Output string
}

// NewLogDemoCmd creates the "log demo" subcommand for seeding sample data.
func NewLogDemoCmd() *cobra.Command {
	var params LogDemoParams

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Seed the database with generated sample activities",
		Long: `Generates a realistic activity history with commute, seasonal energy,
food, and waste patterns, and imports it. Useful for trying out training
and prediction before logging real data.`,
		Example: `  # Seed 90 days of sample history
  ecotrack log demo

  # Seed two weeks with a different random seed
  ecotrack log demo --days 14 --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeLogDemo(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.Days, "days", 90, "Number of days to generate, ending today")
	cmd.Flags().Int64Var(&params.Seed, "seed", ingest.DemoSeed, "Random seed for the generated pattern")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// executeLogDemo generates and imports the sample history.
func executeLogDemo(cmd *cobra.Command, params LogDemoParams) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}
	if params.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", params.Days)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	records := ingest.DemoDays(params.Days, time.Now(), params.Seed)

	importer, err := ingest.NewImporter(store, catalog, 0)
	if err != nil {
		return err
	}
	summary, err := importer.ImportRecords(cmd.Context(), records, nil)
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	return renderImportSummary(cmd, summary, params.Output)
}

// LogListParams holds the parameters for the log list command execution.
// Exported for testing.
type LogListParams struct {
	From   string
	To     string
	Days   int
	Sort   string
	Output string
}

// NewLogListCmd creates the "log list" subcommand for browsing stored
// activities.
func NewLogListCmd() *cobra.Command {
	var params LogListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored activities",
		Example: `  # Last 7 days of activities
  ecotrack log list

  # Biggest emitters in March
  ecotrack log list --from 2026-03-01 --to 2026-03-31 --sort emissions:desc --limit 10

  # Page through a long history
  ecotrack log list --days 365 --page 2 --page-size 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeLogList(cmd, params, pagination.FromFlags(cmd))
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "", "Range start YYYY-MM-DD")
	cmd.Flags().StringVar(&params.To, "to", "", "Range end YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&params.Days, "days", 7, "Days to include when --from is not set")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "Sort order field[:asc|desc] (date, category, emissions, quantity)")
	cmd.Flags().StringVar(&params.Output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")
	pagination.AddFlags(cmd)

	return cmd
}

// activityJSON is the JSON shape of one listed activity.
type activityJSON struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Subtype     string  `json:"subtype"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	EmissionsKg float64 `json:"emissions_kg"`
}

// activityListJSON is the JSON shape of the log list output.
type activityListJSON struct {
	Activities []activityJSON   `json:"activities"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// executeLogList fetches, sorts, windows, and renders stored activities.
func executeLogList(cmd *cobra.Command, params LogListParams, page pagination.Params) error {
	if err := validateOutputFormat(params.Output); err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return err
	}

	field, order, err := pagination.ParseSort(params.Sort)
	if err != nil {
		return err
	}
	sorter, err := pagination.NewActivitySorter(field, order)
	if err != nil {
		return err
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

	activities, err := store.ActivitiesBetween(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	total := len(activities)
	sorter.Sort(activities)
	activities = pagination.Apply(page, activities)

	if params.Output == outputJSON {
		out := activityListJSON{Activities: make([]activityJSON, 0, len(activities))}
		for _, a := range activities {
			out.Activities = append(out.Activities, activityJSON{
				ID:          a.ID,
				Date:        a.Record.Date.Format(dayLayout),
				Category:    a.Record.Category.String(),
				Subtype:     a.Record.Subtype,
				Quantity:    a.Record.Quantity,
				Unit:        a.Record.Unit,
				EmissionsKg: a.EmissionsKg,
			})
		}
		if page.IsEnabled() {
			meta := pagination.NewMeta(page, total)
			out.Pagination = &meta
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal activities: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	renderActivityTable(cmd.OutOrStdout(), activities, total)
	return nil
}

// renderActivityTable prints activities in a fixed-width table.
func renderActivityTable(w io.Writer, activities []storage.Activity, total int) {
	if len(activities) == 0 {
		fmt.Fprintln(w, "No activities in range.")
		return
	}

	precision := config.GetOutputPrecision()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tSUBTYPE\tQUANTITY\tUNIT\tKG CO2E")
	fmt.Fprintln(tw, "----\t--------\t-------\t--------\t----\t-------")
	for _, a := range activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Record.Date.Format(dayLayout),
			a.Record.Category,
			a.Record.Subtype,
			report.FormatFloat(a.Record.Quantity, precision),
			a.Record.Unit,
			report.FormatFloat(a.EmissionsKg, precision),
		)
	}
	tw.Flush()

	if len(activities) < total {
		fmt.Fprintf(w, "\nShowing %d of %d activities.\n", len(activities), total)
	}
}
