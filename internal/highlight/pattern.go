package highlight

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchesAnywhere reports whether token is matched without word boundaries.
// Punctuation-like tokens have no meaningful word boundary, so a single symbol,
// a standalone "&" or "+", and anything containing a degree sign or a period
// match wherever they occur.
func MatchesAnywhere(token string) bool {
	if token == "&" || token == "+" {
		return true
	}

	if strings.ContainsAny(token, "°.") {
		return true
	}

	if utf8.RuneCountInString(token) == 1 {
		r, _ := utf8.DecodeRuneInString(token)
		return !isWordRune(r) && !unicode.IsSpace(r)
	}

	return false
}

// Pattern returns the case-insensitive literal pattern used for both
// highlighting and replacing token. It returns nil for tokens that can never
// match, such as the empty string or invalid UTF-8.
func Pattern(token string) *regexp.Regexp {
	if token == "" {
		return nil
	}

	expr := regexp.QuoteMeta(token)
	if !MatchesAnywhere(token) {
		expr = `\b` + expr + `\b`
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil
	}

	return re
}

// isWordRune matches the ASCII word class used by \b.
func isWordRune(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}
