package sheetsync

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// ExpectedHeaders is the header row the spreadsheet and the CSV export
// both use, in column order A..G.
var ExpectedHeaders = []string{"Kanji", "Reading", "Meaning", "Status", "Date Added", "Examples", "ID"}

// WriteCSV writes the vocabulary as CSV for manual spreadsheet import.
// Every field is wrapped in double quotes with embedded quotes doubled,
// and the Examples column is a JSON-serialized array. encoding/csv is
// deliberately not used here: it quotes minimally, and the import
// format requires every field quoted.
func WriteCSV(w io.Writer, words []*domain.Word) error {
	rows := make([][]string, 0, len(words)+1)
	rows = append(rows, ExpectedHeaders)

	for _, word := range words {
		examples := word.Examples
		if examples == nil {
			examples = []string{}
		}
		examplesJSON, err := json.Marshal(examples)
		if err != nil {
			return fmt.Errorf("encode examples for word %s: %w", word.ID, err)
		}

		rows = append(rows, []string{
			word.Kanji,
			word.Reading,
			word.Meaning,
			string(word.Status),
			word.AddedAt.UTC().Format(time.RFC3339),
			string(examplesJSON),
			word.ID.String(),
		})
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		quoted := make([]string, len(row))
		for j, field := range row {
			quoted[j] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		lines[i] = strings.Join(quoted, ",")
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
