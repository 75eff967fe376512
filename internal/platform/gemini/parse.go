package gemini

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kioku-app/kioku/internal/generation"
)

var (
	sentencePattern = regexp.MustCompile(`(?i)SENTENCE:\s*(.+)`)
	readingPattern  = regexp.MustCompile(`(?i)READING:\s*(.+)`)
	englishPattern  = regexp.MustCompile(`(?i)ENGLISH:\s*(.+)`)

	japanesePattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
	englishWordPat  = regexp.MustCompile(`(?i)\b(is|are|I|you|he|she|they|the|a|an)\b`)

	labelPrefixPat = regexp.MustCompile(`^[^:\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]*:?\s*`)
)

// ParseResponse extracts the SENTENCE/READING/ENGLISH lines from a raw
// model response and renders them in the display form
// "sentence (reading) - english". When the structured labels are
// missing it falls back to scanning for a Japanese line and an English
// line; a response with neither is rejected.
func ParseResponse(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", generation.ErrInvalidResponse)
	}

	sentence := firstMatch(sentencePattern, text)
	english := firstMatch(englishPattern, text)
	if sentence == "" || english == "" {
		return parseUnstructured(text)
	}

	reading := firstMatch(readingPattern, text)
	if reading == "" {
		reading = sentence
	}

	return fmt.Sprintf("%s (%s) - %s", sentence, reading, english), nil
}

func firstMatch(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseUnstructured salvages a response that ignored the requested
// format: the last line containing Japanese script is paired with the
// last line that looks like English prose.
func parseUnstructured(text string) (string, error) {
	var japanese, english string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case japanesePattern.MatchString(line):
			japanese = line
		case englishWordPat.MatchString(line):
			english = line
		}
	}

	if japanese == "" || english == "" {
		return "", fmt.Errorf("%w: no sentence found in response", generation.ErrInvalidResponse)
	}

	japanese = labelPrefixPat.ReplaceAllString(japanese, "")
	english = strings.TrimLeft(english, " \t:-")
	return fmt.Sprintf("%s - %s", japanese, english), nil
}
