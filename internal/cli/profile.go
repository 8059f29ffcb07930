package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/features"
)

// ProfileSetParams holds the parameters for the profile set command
// execution. Exported for testing.
type ProfileSetParams struct {
	HouseholdSize int
	Region        string
	Diet          string
}

// NewProfileSetCmd creates the "profile set" subcommand for updating the
// household profile.
func NewProfileSetCmd() *cobra.Command {
	var params ProfileSetParams

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the household profile",
		Long: `Updates the stored household profile. Only the provided flags change;
omitted fields keep their current values. The profile feeds the forecast
model's feature vector, so predictions pick up changes on the next run.`,
		Example: `  # Record a four-person rural household
  ecotrack profile set --household-size 4 --region rural

  # Switch to a vegetarian diet
  ecotrack profile set --diet vegetarian`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeProfileSet(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.HouseholdSize, "household-size", 0, "Number of people in the household")
	cmd.Flags().StringVar(&params.Region, "region", "", "Region class (urban, suburban, rural)")
	cmd.Flags().StringVar(&params.Diet, "diet", "", "Diet class (vegan, vegetarian, average, meat_heavy)")

	return cmd
}

// executeProfileSet merges flag values onto the stored profile and saves it.
func executeProfileSet(cmd *cobra.Command, params ProfileSetParams) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	profile, err := loadProfile(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("household-size") {
		profile.HouseholdSize = params.HouseholdSize
	}
	if params.Region != "" {
		region, err := features.ParseRegionClass(params.Region)
		if err != nil {
			return err
		}
		profile.Region = region
	}
	if params.Diet != "" {
		diet, err := features.ParseDietClass(params.Diet)
		if err != nil {
			return err
		}
		profile.Diet = diet
	}

	if err := profile.Validate(); err != nil {
		return err
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	cmd.Println("Profile updated")
	renderProfile(cmd, profile)
	return nil
}

// NewProfileShowCmd creates the "profile show" subcommand.
func NewProfileShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the household profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			profile, err := loadProfile(cmd.Context(), store)
			if err != nil {
				return err
			}

			if output == outputJSON {
				data, err := json.MarshalIndent(profile, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal profile: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}

			renderProfile(cmd, profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", config.GetDefaultOutputFormat(), "Output format (table, json)")

	return cmd
}

// renderProfile prints the profile fields one per line.
func renderProfile(cmd *cobra.Command, profile features.Profile) {
	cmd.Printf("Household size: %d\n", profile.HouseholdSize)
	cmd.Printf("Region: %s\n", profile.Region)
	cmd.Printf("Diet: %s\n", profile.Diet)
}
