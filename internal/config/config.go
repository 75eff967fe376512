package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

// ServerConfig contains settings for the application shell itself.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the local persistence settings.
type StorageConfig struct {
	// Path is the SQLite database file backing the key-value store.
	// ":memory:" yields an ephemeral store.
	Path string `mapstructure:"path" validate:"required"`
}

// SheetsConfig is the immutable spreadsheet connection value object
// handed to the sync reconciler at construction time. Components never
// read connection settings from storage mid-operation.
type SheetsConfig struct {
	// APIKey is the Google API key used for read access.
	APIKey string `mapstructure:"api_key"`

	// SpreadsheetID identifies the user-owned spreadsheet.
	SpreadsheetID string `mapstructure:"spreadsheet_id"`

	// ClientID is the OAuth client id required for write access.
	// Without it, saves fall back to a CSV export.
	ClientID string `mapstructure:"client_id"`

	// SheetName is the tab holding the vocabulary rows.
	SheetName string `mapstructure:"sheet_name"`

	// CSVExportPath is where the CSV fallback file is written.
	CSVExportPath string `mapstructure:"csv_export_path"`
}

// Connected reports whether the configuration is sufficient for remote
// sync: an API key and a spreadsheet id. The OAuth client id is only
// needed for direct writes.
func (c SheetsConfig) Connected() bool {
	return c.APIKey != "" && c.SpreadsheetID != ""
}

// LLMConfig contains the example-sentence generation settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
