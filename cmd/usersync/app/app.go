// Package app implements the usersync command-line application.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync/pkg/logging"
)

// App encapsulates the CLI application state and configuration.
type App struct {
	version string
	commit  string
	date    string

	rootCmd *cobra.Command
	logger  zerolog.Logger
}

// New creates a new CLI application with the given version information.
func New(version, commit, date string) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	loadEnvFiles()

	a.rootCmd = a.createRootCommand()
	a.registerCommands()

	return a, nil
}

// Execute runs the application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.rootCmd.SetArgs(args)
	return a.rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usersync",
		Short: "Reconcile user directories across Jira, Microsoft 365, and Keycloak",
		Long: `usersync fetches user records from Atlassian organization management,
Microsoft Graph, and Keycloak admin APIs, compares matched accounts
field by field, and pushes missing profile data back to Jira.

Typical workflow:

  usersync fetch jira      # snapshot Jira users with profiles
  usersync fetch msgraph   # snapshot active M365 users
  usersync compare         # produce sync_report.json
  usersync plan            # preview update directives
  usersync update          # apply directives (dry-run by default)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.setupLogger(cmd)
			if err != nil {
				return err
			}
			a.logger = logger
			logging.SetDefault(logger)
			// Commands and clients pull the logger back out of the
			// request context via logging.Ctx.
			cmd.SetContext(logging.WithLogger(cmd.Context(), &a.logger))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("output", "o", "", "Output format: table, json, yaml (default: auto-detect)")
	flags.String("data-dir", ".", "Directory for fetched snapshots and reports")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.BoolP("verbose", "v", false, "Enable verbose logging (debug level)")
	flags.BoolP("quiet", "q", false, "Suppress non-error output (warn level)")

	if err := viper.BindPFlag("data-dir", flags.Lookup("data-dir")); err != nil {
		panic(err)
	}

	return cmd
}

func (a *App) registerCommands() {
	a.rootCmd.AddCommand(
		a.newFetchCommand(),
		a.newCompareCommand(),
		a.newPlanCommand(),
		a.newUpdateCommand(),
		a.newVersionCommand(),
	)
}
