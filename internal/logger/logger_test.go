package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "debug", Format: "json"}, &config.AppConfig{Name: "crm", Environment: "test"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewFileLogger(t *testing.T) {
	t.Run("no path discards", func(t *testing.T) {
		log, err := logger.NewFileLogger("", "info")
		require.NoError(t, err)
		log.Info("dropped")
	})

	t.Run("writes json lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "crm.log")
		log, err := logger.NewFileLogger(path, "warn")
		require.NoError(t, err)

		log.Info("below level")
		log.Warn("server unreachable")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"server unreachable"`)
		assert.NotContains(t, string(data), "below level")
	})
}

func TestSessionFields(t *testing.T) {
	assert.Len(t, logger.SessionFields(3, "Anna", "staff", nil), 3)

	customer := int64(12)
	fields := logger.SessionFields(0, "Muster GmbH", "customer", &customer)
	require.Len(t, fields, 4)
	assert.Equal(t, "customer_id", fields[3].Key)
	assert.Equal(t, int64(12), fields[3].Integer)
}
