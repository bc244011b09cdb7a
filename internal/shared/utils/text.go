package utils

import "strings"

// NormalizeWhitespace collapses runs of whitespace into single spaces
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLines collapses whitespace inside each line and drops blank lines
func NormalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = NormalizeWhitespace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Preview truncates body to maxChars runes, appending an ellipsis when cut
func Preview(body string, maxChars int) string {
	if maxChars <= 0 {
		return body
	}
	count := 0
	for i := range body {
		if count == maxChars {
			return body[:i] + "…"
		}
		count++
	}
	return body
}
