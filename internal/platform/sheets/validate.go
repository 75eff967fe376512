package sheets

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var spreadsheetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAPIKey performs a shape check on a Google API key before any
// network call: keys start with "AI" and are around 40 characters.
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return errors.New("API key is required")
	}
	if len(apiKey) < 30 || !strings.HasPrefix(apiKey, "AI") {
		return fmt.Errorf("invalid API key format: should start with %q and be ~40 characters long", "AI")
	}
	return nil
}

// ValidateSpreadsheetID performs a shape check on a spreadsheet id:
// 40+ characters of letters, digits, hyphens, and underscores.
func ValidateSpreadsheetID(id string) error {
	if id == "" {
		return errors.New("spreadsheet ID is required")
	}
	if len(id) < 40 || !spreadsheetIDPattern.MatchString(id) {
		return errors.New("invalid spreadsheet ID format: should be ~44 characters of letters, numbers, hyphens, and underscores")
	}
	return nil
}
