package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/service/sheetsync"
)

// DefaultBaseURL is the Google Sheets v4 values API root.
const DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// OAuthScope is the scope required for spreadsheet writes.
const OAuthScope = "https://www.googleapis.com/auth/spreadsheets"

// loadRange covers the data rows below the header. The hard row cap
// matches the spreadsheet template this app ships with.
const loadRange = "A2:G1000"

// Client talks to the Google Sheets v4 REST API. Reads are authorized
// by API key; writes additionally need an OAuth token source, supplied
// via SetTokenSource after the consent flow.
type Client struct {
	cfg        config.SheetsConfig
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
}

// Verify interface compliance at compile time
var _ sheetsync.RemoteSheetClient = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Sheets API client for the given connection
// settings.
func NewClient(cfg config.SheetsConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "VocabularyData"
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("component", "sheets_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the OAuth token source obtained from the
// consent flow, enabling writes.
func (c *Client) SetTokenSource(ts oauth2.TokenSource) {
	c.mu.Lock()
	c.tokenSource = ts
	c.mu.Unlock()
}

// spreadsheet mirrors the metadata subset we read from the API.
type spreadsheet struct {
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

// valueRange is the values API read/write payload.
type valueRange struct {
	Values [][]string `json:"values"`
}

// TestConnection verifies the spreadsheet is reachable with the
// configured API key and reports its title and sheet names.
func (c *Client) TestConnection(ctx context.Context) (*sheetsync.ConnectionInfo, error) {
	meta, err := c.fetchSpreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	info := &sheetsync.ConnectionInfo{SpreadsheetTitle: meta.Properties.Title}
	for _, sheet := range meta.Sheets {
		info.Sheets = append(info.Sheets, sheet.Properties.Title)
	}
	return info, nil
}

// RequestWritePermission verifies an OAuth grant is available by
// forcing a token fetch. The interactive consent flow happens outside
// this client; it only consumes the resulting token source.
func (c *Client) RequestWritePermission(ctx context.Context) error {
	c.mu.Lock()
	ts := c.tokenSource
	c.mu.Unlock()

	if ts == nil {
		return sheetsync.ErrAuthRequired
	}
	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("%w: %v", sheetsync.ErrAuthRequired, err)
	}
	return nil
}

// LoadVocabulary reads all data rows from the spreadsheet. Rows
// missing kanji or reading are skipped; other missing fields get
// defaults so a hand-edited sheet still loads.
func (c *Client) LoadVocabulary(ctx context.Context) ([]*domain.Word, error) {
	if err := c.ensureSheetSetup(ctx); err != nil {
		return nil, err
	}

	readURL := fmt.Sprintf("%s/%s/values/%s?key=%s",
		c.baseURL, c.cfg.SpreadsheetID,
		url.PathEscape(c.cfg.SheetName+"!"+loadRange),
		url.QueryEscape(c.cfg.APIKey))

	var data valueRange
	if err := c.getJSON(ctx, readURL, &data); err != nil {
		return nil, err
	}

	words := make([]*domain.Word, 0, len(data.Values))
	for _, row := range data.Values {
		word, ok := parseRow(row)
		if !ok {
			continue
		}
		words = append(words, word)
	}

	c.logger.InfoContext(ctx, "loaded vocabulary from spreadsheet",
		"rows", len(data.Values),
		"words", len(words))
	return words, nil
}

// SaveVocabulary overwrites the spreadsheet's data rows with the given
// words and stamps the last-sync cells. An OAuth grant is required;
// without one sheetsync.ErrAuthRequired is returned so the caller can
// fall back to CSV.
func (c *Client) SaveVocabulary(ctx context.Context, words []*domain.Word) (int, error) {
	c.mu.Lock()
	ts := c.tokenSource
	c.mu.Unlock()
	if ts == nil {
		return 0, sheetsync.ErrAuthRequired
	}

	if err := c.ensureSheetSetup(ctx); err != nil {
		return 0, err
	}

	// Clear old rows first so a shrinking vocabulary leaves no stale
	// tail. A clear failure is tolerated: the write below overwrites
	// the live range anyway.
	if err := c.clearDataRows(ctx, ts); err != nil {
		c.logger.WarnContext(ctx, "failed to clear sheet data", "error", err)
	}

	if len(words) == 0 {
		return 0, nil
	}

	rows := make([][]string, 0, len(words))
	for _, word := range words {
		row, err := formatRow(word)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	writeRange := fmt.Sprintf("%s!A2:G%d", c.cfg.SheetName, len(rows)+1)
	if err := c.putValues(ctx, ts, writeRange, rows); err != nil {
		return 0, err
	}

	stampRange := c.cfg.SheetName + "!I1:I2"
	stamp := [][]string{{"Last Sync:"}, {time.Now().UTC().Format(time.RFC3339)}}
	if err := c.putValues(ctx, ts, stampRange, stamp); err != nil {
		c.logger.WarnContext(ctx, "failed to write sync timestamp", "error", err)
	}

	c.logger.InfoContext(ctx, "saved vocabulary to spreadsheet", "count", len(words))
	return len(words), nil
}

// ensureSheetSetup verifies the vocabulary sheet exists and carries the
// expected header row, returning a SetupError the caller can surface
// verbatim when it does not.
func (c *Client) ensureSheetSetup(ctx context.Context) error {
	meta, err := c.fetchSpreadsheet(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, sheet := range meta.Sheets {
		if sheet.Properties.Title == c.cfg.SheetName {
			found = true
			break
		}
	}
	if !found {
		return &sheetsync.SetupError{ExpectedHeaders: sheetsync.ExpectedHeaders}
	}

	headerURL := fmt.Sprintf("%s/%s/values/%s?key=%s",
		c.baseURL, c.cfg.SpreadsheetID,
		url.PathEscape(c.cfg.SheetName+"!A1:G1"),
		url.QueryEscape(c.cfg.APIKey))

	var data valueRange
	if err := c.getJSON(ctx, headerURL, &data); err != nil {
		return err
	}

	if len(data.Values) == 0 || !equalHeaders(data.Values[0], sheetsync.ExpectedHeaders) {
		return &sheetsync.SetupError{ExpectedHeaders: sheetsync.ExpectedHeaders}
	}
	return nil
}

func equalHeaders(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// fetchSpreadsheet reads spreadsheet metadata with the API key.
func (c *Client) fetchSpreadsheet(ctx context.Context) (*spreadsheet, error) {
	metaURL := fmt.Sprintf("%s/%s?key=%s",
		c.baseURL, c.cfg.SpreadsheetID, url.QueryEscape(c.cfg.APIKey))

	var meta spreadsheet
	if err := c.getJSON(ctx, metaURL, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// getJSON performs an API-key-authorized GET and decodes the response.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets api request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return fmt.Errorf("api key invalid or lacks permissions (HTTP %d)", resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("spreadsheet not found or not accessible (HTTP %d)", resp.StatusCode)
	default:
		return fmt.Errorf("sheets api error: HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode sheets response: %w", err)
	}
	return nil
}

// putValues writes a value range with OAuth authorization. An HTTP 401
// means the token expired: the cached source is dropped and
// sheetsync.ErrAuthExpired returned.
func (c *Client) putValues(ctx context.Context, ts oauth2.TokenSource, rangeRef string, values [][]string) error {
	writeURL := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED",
		c.baseURL, c.cfg.SpreadsheetID, url.PathEscape(rangeRef))

	body, err := json.Marshal(valueRange{Values: values})
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}

	return c.doAuthenticated(ctx, ts, http.MethodPut, writeURL, body)
}

// clearDataRows clears the data range below the header.
func (c *Client) clearDataRows(ctx context.Context, ts oauth2.TokenSource) error {
	clearURL := fmt.Sprintf("%s/%s/values/%s:clear",
		c.baseURL, c.cfg.SpreadsheetID,
		url.PathEscape(c.cfg.SheetName+"!"+loadRange))
	return c.doAuthenticated(ctx, ts, http.MethodPost, clearURL, nil)
}

func (c *Client) doAuthenticated(ctx context.Context, ts oauth2.TokenSource, method, rawURL string, body []byte) error {
	token, err := ts.Token()
	if err != nil {
		c.dropTokenSource()
		return fmt.Errorf("%w: %v", sheetsync.ErrAuthExpired, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	token.SetAuthHeader(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets api request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.dropTokenSource()
		return sheetsync.ErrAuthExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("sheets api error: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) dropTokenSource() {
	c.mu.Lock()
	c.tokenSource = nil
	c.mu.Unlock()
}
