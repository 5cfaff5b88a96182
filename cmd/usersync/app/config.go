package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/opsforge/usersync/internal/sources/atlassian"
	"github.com/opsforge/usersync/internal/sources/keycloak"
	"github.com/opsforge/usersync/internal/sources/msgraph"
)

// loadEnvFiles loads environment variables from .env files if they exist.
// Missing files are not an error; real environment variables take
// precedence over file values.
func loadEnvFiles() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Optional config file for defaults like data-dir.
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".usersync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		_ = viper.ReadInConfig()
	}
}

// atlassianConfig builds the Atlassian client config from the environment.
func atlassianConfig() atlassian.Config {
	return atlassian.Config{
		OrgID:   os.Getenv("ATLASSIAN_ORG_ID"),
		APIKey:  os.Getenv("ATLASSIAN_ORG_API_KEY"),
		BaseURL: getEnvOrDefault("ATLASSIAN_BASE_URL", ""),
	}
}

// msgraphConfig builds the Microsoft Graph client config from the environment.
func msgraphConfig() msgraph.Config {
	return msgraph.Config{
		TenantID:     os.Getenv("M365_TENANT_ID"),
		ClientID:     os.Getenv("M365_CLIENT_ID"),
		ClientSecret: os.Getenv("M365_CLIENT_SECRET"),
		BaseURL:      getEnvOrDefault("M365_BASE_URL", ""),
		ActiveOnly:   true,
	}
}

// keycloakConfig builds the Keycloak client config from the environment.
// KEYCLOAK_REALMS is a comma-separated realm list.
func keycloakConfig() keycloak.Config {
	return keycloak.Config{
		ServerURL: os.Getenv("KEYCLOAK_SERVER_URL"),
		Username:  os.Getenv("KEYCLOAK_ADMIN_USERNAME"),
		Password:  os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
		Realms:    strings.Split(os.Getenv("KEYCLOAK_REALMS"), ","),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
