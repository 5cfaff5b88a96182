package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opsforge/usersync/internal/output"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version":    a.version,
				"commit":     a.commit,
				"built":      a.date,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}

			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "usersync %s (commit %s, built %s, %s %s/%s)\n",
				a.version, a.commit, a.date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
