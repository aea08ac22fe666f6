package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		logger, err := NewLogger("info", "json")
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("test message")
	})

	t.Run("console format", func(t *testing.T) {
		logger, err := NewLogger("debug", "console")
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("empty format defaults to json", func(t *testing.T) {
		logger, err := NewLogger("warn", "")
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewLogger("loud", "json")
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewLogger("info", "xml")
		assert.Error(t, err)
	})
}
