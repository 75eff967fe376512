package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/service/sheetsync"
)

// DefaultCSVExportPath is used when no export path is configured.
const DefaultCSVExportPath = "vocabulary-backup.csv"

// DownloadCSV writes the vocabulary as a CSV file at the configured
// export path, the manual-import fallback when spreadsheet writes are
// not authorized.
func (c *Client) DownloadCSV(ctx context.Context, words []*domain.Word) error {
	path := c.cfg.CSVExportPath
	if path == "" {
		path = DefaultCSVExportPath
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv export: %w", err)
	}

	if err := sheetsync.WriteCSV(f, words); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv export: %w", err)
	}

	c.logger.InfoContext(ctx, "exported vocabulary csv",
		"path", path,
		"count", len(words))
	return nil
}
