package app

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	usererrors "github.com/opsforge/usersync/pkg/errors"
	"github.com/opsforge/usersync/pkg/logging"
)

// setupLogger builds the application logger from the command flags.
func (a *App) setupLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, err := determineLogLevel(cmd)
	if err != nil {
		return zerolog.Nop(), err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	return logging.NewLoggerFromConfig(cfg), nil
}

// determineLogLevel resolves the effective log level from the flag set.
// Explicit --log-level wins, then --quiet, then --verbose.
func determineLogLevel(cmd *cobra.Command) (string, error) {
	level, _ := cmd.Flags().GetString("log-level")
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")

	if level != "" {
		if err := validateLogLevel(level); err != nil {
			return "", err
		}
		return level, nil
	}

	switch {
	case verbose && quiet:
		return "warn", nil
	case verbose:
		return "debug", nil
	case quiet:
		return "warn", nil
	default:
		return "info", nil
	}
}

func validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return &usererrors.ValidationError{
			Field:   "log-level",
			Value:   level,
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", level),
		}
	}
}
