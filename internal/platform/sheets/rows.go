package sheets

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/domain"
)

// parseRow converts one spreadsheet row (columns A..G) into a word.
// Kanji and reading are mandatory; everything else is defaulted, so
// sheets that were filled in by hand still load.
func parseRow(row []string) (*domain.Word, bool) {
	if cell(row, 0) == "" || cell(row, 1) == "" {
		return nil, false
	}

	status, err := domain.ParseStatus(cell(row, 3))
	if err != nil {
		status = domain.StatusLearning
	}

	addedAt := time.Now().UTC()
	if raw := cell(row, 4); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			addedAt = parsed.UTC()
		}
	}

	examples := []string{}
	if raw := cell(row, 5); raw != "" {
		if err := json.Unmarshal([]byte(raw), &examples); err != nil {
			examples = []string{}
		}
	}

	id, err := uuid.Parse(cell(row, 6))
	if err != nil {
		id = uuid.New()
	}

	return &domain.Word{
		ID:       id,
		Kanji:    cell(row, 0),
		Reading:  cell(row, 1),
		Meaning:  cell(row, 2),
		Status:   status,
		AddedAt:  addedAt,
		Examples: examples,
	}, true
}

// formatRow renders a word as one spreadsheet row (columns A..G).
func formatRow(word *domain.Word) ([]string, error) {
	examples := word.Examples
	if examples == nil {
		examples = []string{}
	}
	examplesJSON, err := json.Marshal(examples)
	if err != nil {
		return nil, fmt.Errorf("encode examples for word %s: %w", word.ID, err)
	}

	return []string{
		word.Kanji,
		word.Reading,
		word.Meaning,
		string(word.Status),
		word.AddedAt.UTC().Format(time.RFC3339),
		string(examplesJSON),
		word.ID.String(),
	}, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
