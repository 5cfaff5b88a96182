package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync"
	"github.com/opsforge/usersync/internal/output"
	"github.com/opsforge/usersync/internal/storage"
	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/directory"
)

func (a *App) newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare fetched snapshots and write the sync report",
		Long: `Compare the Jira and M365 snapshots in the data directory, matching
accounts by normalized email address, and write sync_report.json with
per-field differences and one-sided accounts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			includeService := mustGetBool(cmd, "include-service-accounts")

			mode := differ.ModeFullProfile
			if mustGetBool(cmd, "basic") {
				mode = differ.ModeBasic
			}

			dataDir := viper.GetString("data-dir")
			primaryPath := flagOrDefault(cmd, "primary", filepath.Join(dataDir, storage.PrimaryUsersFile))
			secondaryPath := flagOrDefault(cmd, "secondary", filepath.Join(dataDir, storage.SecondaryUsersFile))
			reportPath := flagOrDefault(cmd, "report", filepath.Join(dataDir, storage.ReportFile))

			primary, err := storage.LoadRawRecords(primaryPath, directory.SourcePrimary)
			if err != nil {
				return err
			}
			secondary, err := storage.LoadRawRecords(secondaryPath, directory.SourceSecondary)
			if err != nil {
				return err
			}

			opts := []usersync.Option{usersync.WithMode(mode)}
			if includeService {
				opts = append(opts, usersync.WithEligibility(nil))
			}
			rec, err := usersync.New(opts...)
			if err != nil {
				return err
			}

			rep := rec.Reconcile(primary, secondary)

			if err := rep.Save(reportPath); err != nil {
				return err
			}
			a.logger.Info().
				Str("file", reportPath).
				Int("matched", rep.Stats.Matched).
				Int("with_differences", rep.Stats.WithDifferences).
				Msg("wrote sync report")

			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(format)
			out := cmd.OutOrStdout()

			if format != output.FormatTable {
				return formatter.Format(out, rep)
			}

			if err := formatter.Format(out, output.StatsTable(rep)); err != nil {
				return err
			}
			if len(rep.Differences) > 0 {
				fmt.Fprintln(out)
				if err := formatter.Format(out, output.DifferencesTable(rep)); err != nil {
					return err
				}
			}
			if len(rep.OnlyPrimary) > 0 {
				fmt.Fprintln(out, "\nOnly in Jira:")
				if err := formatter.Format(out, output.OnlyTable(rep, true)); err != nil {
					return err
				}
			}
			if len(rep.OnlySecondary) > 0 {
				fmt.Fprintln(out, "\nOnly in M365:")
				if err := formatter.Format(out, output.OnlyTable(rep, false)); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, output.Summary(rep))
			return nil
		},
	}

	cmd.Flags().Bool("basic", false, "Compare display names only")
	cmd.Flags().Bool("include-service-accounts", false,
		"Match service and app accounts as well as real users")
	cmd.Flags().String("primary", "", "Primary snapshot file (default: data-dir/"+storage.PrimaryUsersFile+")")
	cmd.Flags().String("secondary", "", "Secondary snapshot file (default: data-dir/"+storage.SecondaryUsersFile+")")
	cmd.Flags().String("report", "", "Report output file (default: data-dir/"+storage.ReportFile+")")
	return cmd
}

// resolveFormat validates the persistent --output flag and auto-detects
// the format when the flag is unset.
func resolveFormat(cmd *cobra.Command) (output.Format, error) {
	explicit, _ := cmd.Flags().GetString("output")
	if _, err := output.ParseFormat(explicit); err != nil {
		return "", err
	}
	return output.DetectFormat(explicit), nil
}

// flagOrDefault returns a string flag's value, or fallback when unset.
func flagOrDefault(cmd *cobra.Command, name, fallback string) string {
	if value, _ := cmd.Flags().GetString(name); value != "" {
		return value
	}
	return fallback
}
