// Package textstats computes the word, character and paragraph counts shown
// next to the editor.
package textstats

import (
	"strings"
	"unicode/utf8"

	"github.com/patrickward/lettercheck/internal/contentutil"
)

// Stats holds the counts for a body of text.
type Stats struct {
	Words      int `json:"word_count"`
	Chars      int `json:"char_count"`
	Paragraphs int `json:"paragraph_count"`
}

// Compute counts words as runs of non-whitespace, characters as Unicode code
// points, and paragraphs as non-empty runs between one or more newlines.
func Compute(text string) Stats {
	if text == "" {
		return Stats{}
	}

	return Stats{
		Words:      len(strings.Fields(text)),
		Chars:      utf8.RuneCountInString(text),
		Paragraphs: countParagraphs(text),
	}
}

func countParagraphs(text string) int {
	count := 0
	for _, para := range contentutil.SplitLines(text) {
		if para != "" {
			count++
		}
	}

	return count
}
