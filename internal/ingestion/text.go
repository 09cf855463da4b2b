// Package ingestion turns uploaded resume documents into clean plain text
// ready for analysis.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(`[ \t]+`)
	multiBlankLines = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted resume text while preserving line structure:
// CRLF becomes LF, runs of spaces collapse to one, bullet markers are kept,
// and blank-line runs shrink to at most two.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = multiBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// PDF extractors emit assorted bullet glyphs; normalize them to "-"
	for _, marker := range []string{"• ", "· ", "* ", "▪ "} {
		if strings.HasPrefix(trimmed, marker) {
			return "- " + multiSpace.ReplaceAllString(strings.TrimPrefix(trimmed, marker), " ")
		}
	}

	return multiSpace.ReplaceAllString(trimmed, " ")
}
