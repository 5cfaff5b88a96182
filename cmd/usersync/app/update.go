package app

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync/internal/executor"
	"github.com/opsforge/usersync/internal/output"
	"github.com/opsforge/usersync/internal/sources/atlassian"
	"github.com/opsforge/usersync/internal/storage"
	"github.com/opsforge/usersync/pkg/plan"
	"github.com/opsforge/usersync/pkg/report"
)

func (a *App) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply the update plan against Jira",
		Long: `Derive the update plan from sync_report.json and apply it to Jira
through the Atlassian organization API. Runs as a dry run by default;
pass --commit to make real changes.

Only missing profile fields are filled in. Values that differ between
the two sources are reported but never overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			commit := mustGetBool(cmd, "commit")
			assumeYes := mustGetBool(cmd, "yes")
			delay, _ := cmd.Flags().GetDuration("delay")

			reportPath := flagOrDefault(cmd, "report",
				filepath.Join(viper.GetString("data-dir"), storage.ReportFile))
			rep, err := report.Load(reportPath)
			if err != nil {
				return err
			}

			directives := plan.FromReport(rep)
			out := cmd.OutOrStdout()
			if len(directives) == 0 {
				fmt.Fprintln(out, "Nothing to update.")
				return nil
			}

			client, err := atlassian.New(atlassianConfig())
			if err != nil {
				return err
			}

			mode := executor.ModeSimulate
			if commit {
				if !assumeYes && !confirm(cmd, len(directives)) {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
				mode = executor.ModeCommit
			}

			a.logger.Info().
				Str("mode", string(mode)).
				Int("directives", len(directives)).
				Msg("applying update plan")

			exec := executor.New(client, executor.WithInterval(delay))
			stats, err := exec.Apply(cmd.Context(), directives, mode)
			if stats != nil {
				if perr := a.printStats(cmd, stats, mode); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().Bool("commit", false, "Apply changes for real instead of a dry run")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt in commit mode")
	cmd.Flags().Duration("delay", executor.DefaultInterval,
		"Minimum delay between write requests")
	cmd.Flags().String("report", "", "Report file (default: data-dir/"+storage.ReportFile+")")
	return cmd
}

// confirm asks the operator to acknowledge a commit run.
func confirm(cmd *cobra.Command, count int) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "About to update %d users in Jira. Continue? [y/N]: ", count)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func (a *App) printStats(cmd *cobra.Command, stats *executor.Stats, mode executor.Mode) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)
	out := cmd.OutOrStdout()

	if format != output.FormatTable {
		return formatter.Format(out, stats)
	}
	if err := formatter.Format(out, output.ExecutionTable(stats)); err != nil {
		return err
	}
	if mode == executor.ModeSimulate {
		fmt.Fprintln(out, "Dry run: no changes were made. Re-run with --commit to apply.")
	}
	return nil
}
