package highlight

// ApplySuggestion replaces every occurrence of original in text with
// replacement. Occurrences are found exactly as ComputeSegments finds them, so
// whatever is highlighted for original is what gets replaced. The replacement
// is inserted literally.
func ApplySuggestion(text, original, replacement string) string {
	re := Pattern(original)
	if re == nil {
		return text
	}

	return re.ReplaceAllLiteralString(text, replacement)
}
