package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync/internal/output"
	"github.com/opsforge/usersync/internal/storage"
	"github.com/opsforge/usersync/pkg/plan"
	"github.com/opsforge/usersync/pkg/report"
)

func (a *App) newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the update directives derived from the sync report",
		Long: `Read sync_report.json and show the corrective updates that would be
pushed to Jira: display name corrections and profile fields that are
missing on the Jira side. No changes are made.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportPath := flagOrDefault(cmd, "report",
				filepath.Join(viper.GetString("data-dir"), storage.ReportFile))
			rep, err := report.Load(reportPath)
			if err != nil {
				return err
			}

			directives := plan.FromReport(rep)
			a.logger.Info().
				Int("directives", len(directives)).
				Str("report", reportPath).
				Msg("derived update plan")

			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(format)
			out := cmd.OutOrStdout()

			if format != output.FormatTable {
				return formatter.Format(out, directives)
			}

			if len(directives) == 0 {
				fmt.Fprintln(out, "Nothing to update.")
				return nil
			}
			if err := formatter.Format(out, output.PlanTable(directives)); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d users would be updated\n", len(directives))
			return nil
		},
	}

	cmd.Flags().String("report", "", "Report file (default: data-dir/"+storage.ReportFile+")")
	return cmd
}
