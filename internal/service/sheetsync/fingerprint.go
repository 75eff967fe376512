package sheetsync

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// Fingerprint computes a cheap content hash of the vocabulary
// collection, the change detector behind the pending/synced states.
// It is deterministic and insensitive to both the order of the record
// list (records are sorted by id) and the order of each word's
// examples (sorted before hashing). It is not a security or
// correctness boundary; collisions are acceptable.
func Fingerprint(words []*domain.Word) string {
	sorted := make([]*domain.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	h := fnv.New32a()
	for _, word := range sorted {
		examples := make([]string, len(word.Examples))
		copy(examples, word.Examples)
		sort.Strings(examples)

		// %q quoting keeps field boundaries unambiguous.
		fmt.Fprintf(h, "%s|%q|%q|%q|%q|%s|",
			word.ID,
			word.Kanji,
			word.Reading,
			word.Meaning,
			string(word.Status),
			word.AddedAt.UTC().Format(time.RFC3339))
		for _, example := range examples {
			fmt.Fprintf(h, "%q,", example)
		}
		fmt.Fprint(h, "\n")
	}

	return fmt.Sprintf("%08x", h.Sum32())
}
