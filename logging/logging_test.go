package logging_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/logging"
)

func TestNew(t *testing.T) {
	t.Run("development logs at debug level", func(t *testing.T) {
		logger := logging.New("development")
		require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("production logs at info level", func(t *testing.T) {
		logger := logging.New("production")
		require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}
