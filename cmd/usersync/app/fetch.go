package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync/internal/sources"
	"github.com/opsforge/usersync/internal/sources/atlassian"
	"github.com/opsforge/usersync/internal/sources/keycloak"
	"github.com/opsforge/usersync/internal/sources/msgraph"
	"github.com/opsforge/usersync/internal/storage"
)

func (a *App) newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch user snapshots from a directory source",
		Long: `Fetch user records from a source system and write them to the data
directory as a snapshot for later comparison.`,
	}

	cmd.AddCommand(
		a.newFetchJiraCommand(),
		a.newFetchMSGraphCommand(),
		a.newFetchKeycloakCommand(),
	)

	return cmd
}

// fetchAndSave runs one fetcher to completion and writes its snapshot file.
func (a *App) fetchAndSave(cmd *cobra.Command, fetcher sources.Fetcher, file string) error {
	a.logger.Info().Str("source", fetcher.Name()).Msg("fetching users")
	records, err := fetcher.FetchUsers(cmd.Context())
	if err != nil {
		return err
	}

	path := filepath.Join(viper.GetString("data-dir"), file)
	if err := storage.SaveRecords(path, records); err != nil {
		return err
	}

	a.logger.Info().
		Str("source", fetcher.Name()).
		Int("users", len(records)).
		Str("file", path).
		Msg("saved snapshot")
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d users to %s\n", len(records), path)
	return nil
}

func (a *App) newFetchJiraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jira",
		Short: "Fetch Jira users with extended profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := atlassian.New(atlassianConfig())
			if err != nil {
				return err
			}
			return a.fetchAndSave(cmd, client, storage.PrimaryUsersFile)
		},
	}
}

func (a *App) newFetchMSGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "msgraph",
		Aliases: []string{"m365"},
		Short:   "Fetch active Microsoft 365 users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			includeDisabled := mustGetBool(cmd, "include-disabled")

			cfg := msgraphConfig()
			cfg.ActiveOnly = !includeDisabled
			client, err := msgraph.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return a.fetchAndSave(cmd, client, storage.SecondaryUsersFile)
		},
	}

	cmd.Flags().Bool("include-disabled", false, "Include disabled accounts in the snapshot")
	return cmd
}

func (a *App) newFetchKeycloakCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keycloak",
		Short: "Export Keycloak realm users to CSV",
		Long: `Export the users of each configured Keycloak realm to a per-realm
CSV file in the data directory. Realms come from KEYCLOAK_REALMS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := keycloak.New(keycloakConfig())
			if err != nil {
				return err
			}

			dataDir := viper.GetString("data-dir")
			for _, realm := range client.Realms() {
				users, err := client.RealmUsers(cmd.Context(), realm)
				if err != nil {
					// One broken realm should not sink the rest of the export.
					a.logger.Warn().Err(err).Str("realm", realm).Msg("realm export failed")
					continue
				}

				path, err := storage.WriteRealmCSV(dataDir, realm, users)
				if err != nil {
					return err
				}

				a.logger.Info().
					Str("realm", realm).
					Int("users", len(users)).
					Str("file", path).
					Msg("exported realm users")
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d users from realm %q to %s\n",
					len(users), realm, path)
			}
			return nil
		},
	}
}
