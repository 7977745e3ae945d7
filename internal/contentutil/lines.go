// Package contentutil holds small text helpers shared by the import and
// statistics code.
package contentutil

import (
	"regexp"
	"strings"
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// NormalizeLineEndings converts Windows CRLF and legacy Mac CR line endings to LF.
func NormalizeLineEndings(content string) string {
	// Replace Windows CRLF
	content = strings.ReplaceAll(content, "\r\n", "\n")

	// Replace legacy Mac CR
	content = strings.ReplaceAll(content, "\r", "\n")
	return content
}

// SplitLines splits a string into lines, normalizing line endings.
func SplitLines(content string) []string {
	return strings.Split(NormalizeLineEndings(content), "\n")
}

// TidyParagraphs trims the spaces around every line, collapses runs of
// blank lines into a single blank line and trims the result.
func TidyParagraphs(content string) string {
	lines := SplitLines(content)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	content = blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(content)
}
