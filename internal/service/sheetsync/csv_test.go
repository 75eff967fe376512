package sheetsync_test

import (
	"strings"
	"testing"
	"time"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/service/sheetsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	require.NoError(t, sheetsync.WriteCSV(&buf, nil))

	assert.Equal(t,
		`"Kanji","Reading","Meaning","Status","Date Added","Examples","ID"`,
		buf.String())
}

func TestWriteCSVRow(t *testing.T) {
	t.Parallel()

	word, err := domain.NewWord("学校", "がっこう", "school")
	require.NoError(t, err)
	word.AddedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	word.AppendExample("学校に行きます。")

	var buf strings.Builder
	require.NoError(t, sheetsync.WriteCSV(&buf, []*domain.Word{word}))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)

	row := lines[1]
	assert.Contains(t, row, `"学校","がっこう","school","learning","2025-03-01T12:00:00Z"`)
	assert.Contains(t, row, `"`+word.ID.String()+`"`)
	// Examples column is a JSON array with its quotes doubled.
	assert.Contains(t, row, `"[""学校に行きます。""]"`)
}

func TestWriteCSVDoublesEmbeddedQuotes(t *testing.T) {
	t.Parallel()

	word, err := domain.NewWord("言う", "いう", `to say "something"`)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, sheetsync.WriteCSV(&buf, []*domain.Word{word}))

	// The embedded quotes are doubled and the field stays wrapped in quotes.
	assert.Contains(t, buf.String(), `"to say ""something"""`)
}

func TestWriteCSVEveryFieldQuoted(t *testing.T) {
	t.Parallel()

	word, err := domain.NewWord("一", "いち", "one")
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, sheetsync.WriteCSV(&buf, []*domain.Word{word}))

	for _, line := range strings.Split(buf.String(), "\n") {
		for _, field := range strings.Split(line, `","`) {
			trimmed := strings.TrimPrefix(strings.TrimSuffix(field, `"`), `"`)
			assert.NotContains(t, trimmed, "\n")
		}
		assert.True(t, strings.HasPrefix(line, `"`), "line %q must start quoted", line)
		assert.True(t, strings.HasSuffix(line, `"`), "line %q must end quoted", line)
	}
}
