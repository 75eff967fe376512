package config_test

import (
	"testing"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "kioku.db", cfg.Storage.Path)
	assert.Equal(t, "VocabularyData", cfg.Sheets.SheetName)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.False(t, cfg.Sheets.Connected())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KIOKU_SERVER_LOG_LEVEL", "debug")
	t.Setenv("KIOKU_SHEETS_API_KEY", "AIzaTestKey")
	t.Setenv("KIOKU_SHEETS_SPREADSHEET_ID", "sheet-id-123")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "AIzaTestKey", cfg.Sheets.APIKey)
	assert.True(t, cfg.Sheets.Connected())
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("KIOKU_SERVER_LOG_LEVEL", "loud")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestSheetsConfigConnected(t *testing.T) {
	t.Parallel()

	assert.False(t, config.SheetsConfig{APIKey: "key"}.Connected())
	assert.False(t, config.SheetsConfig{SpreadsheetID: "id"}.Connected())
	assert.True(t, config.SheetsConfig{APIKey: "key", SpreadsheetID: "id"}.Connected())
}
