package sheetsync

import (
	"context"

	"github.com/kioku-app/kioku/internal/domain"
)

// ConnectionInfo describes a reachable spreadsheet.
type ConnectionInfo struct {
	SpreadsheetTitle string
	Sheets           []string
}

// RemoteSheetClient is the network boundary to the spreadsheet
// provider. The reconciler only requires this narrow contract; the
// concrete implementation lives in internal/platform/sheets.
//
// Failure shapes are expressed as errors: ErrAuthRequired (write
// attempted without an OAuth grant), ErrAuthExpired (token
// expired/revoked mid-operation), *SetupError (sheet or header row
// missing), and anything else is treated as transient.
type RemoteSheetClient interface {
	// TestConnection verifies the spreadsheet is reachable and
	// readable with the configured credentials.
	TestConnection(ctx context.Context) (*ConnectionInfo, error)

	// LoadVocabulary fetches all vocabulary rows. An empty slice with
	// a nil error means the sheet holds no rows.
	LoadVocabulary(ctx context.Context) ([]*domain.Word, error)

	// SaveVocabulary replaces the remote rows with the given words and
	// returns how many were written.
	SaveVocabulary(ctx context.Context, words []*domain.Word) (int, error)

	// RequestWritePermission runs the OAuth consent flow for write
	// access.
	RequestWritePermission(ctx context.Context) error

	// DownloadCSV exports the words as a CSV file on the local
	// machine, the manual-import fallback when direct writes are not
	// authorized.
	DownloadCSV(ctx context.Context, words []*domain.Word) error
}
