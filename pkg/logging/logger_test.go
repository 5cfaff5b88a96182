package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/usersync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	t.Run("Default returns a usable logger", func(t *testing.T) {
		require.NotNil(t, logging.Default())
	})

	t.Run("SetDefault swaps the global logger", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetDefault(zerolog.New(&buf))

		logging.Default().Info().Str("source", "atlassian").Msg("fetched users")

		out := buf.String()
		assert.Contains(t, out, `"source":"atlassian"`)
		assert.Contains(t, out, "fetched users")
	})
}
