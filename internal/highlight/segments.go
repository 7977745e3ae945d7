// Package highlight locates suggested corrections inside free text and splits
// the text into plain and highlighted segments for rendering.
//
// Matches never overlap: when two matches share any bytes, the one that starts
// first (or the longer one, on equal starts) is kept and the other is dropped,
// whether it is nested inside the kept match or only partially overlaps it.
package highlight

import (
	"cmp"
	"slices"
)

// MatchSpan is a half-open byte interval [Start, End) into the source text.
// Text holds the matched substring as it appears in the source, which may differ
// in case from Token.
type MatchSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Token string `json:"token"`
}

// Segment is a contiguous run of the source text. Highlighted segments carry
// the token that produced them.
type Segment struct {
	Text        string `json:"text"`
	Token       string `json:"token,omitempty"`
	Highlighted bool   `json:"highlighted"`
	Start       int    `json:"start"`
}

// End returns the byte offset just past the segment.
func (s Segment) End() int {
	return s.Start + len(s.Text)
}

// Spans returns the accepted, non-overlapping match spans for tokens in text,
// ordered by start offset. Partially overlapping matches are dropped along
// with nested ones.
func Spans(text string, tokens []string) []MatchSpan {
	if text == "" || len(tokens) == 0 {
		return nil
	}

	return resolveOverlaps(collectSpans(text, tokens))
}

// ComputeSegments splits text into segments that tile it in order, with every
// accepted match of tokens highlighted. Empty text yields no segments.
func ComputeSegments(text string, tokens []string) []Segment {
	if text == "" {
		return []Segment{}
	}

	spans := Spans(text, tokens)
	segments := make([]Segment, 0, 2*len(spans)+1)

	last := 0
	for _, span := range spans {
		if span.Start > last {
			segments = append(segments, Segment{Text: text[last:span.Start], Start: last})
		}

		segments = append(segments, Segment{
			Text:        span.Text,
			Token:       span.Token,
			Highlighted: true,
			Start:       span.Start,
		})
		last = span.End
	}

	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:], Start: last})
	}

	return segments
}

// collectSpans finds every occurrence of every token, unsorted.
func collectSpans(text string, tokens []string) []MatchSpan {
	var spans []MatchSpan
	for _, token := range tokens {
		re := Pattern(token)
		if re == nil {
			continue
		}

		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}

			spans = append(spans, MatchSpan{
				Start: loc[0],
				End:   loc[1],
				Text:  text[loc[0]:loc[1]],
				Token: token,
			})
		}
	}

	return spans
}

// resolveOverlaps orders spans by start, longest first on ties, and keeps a span
// only when it begins at or after the end of the previously kept span. Spans
// nested inside an earlier span and spans that partially overlap one are both
// dropped.
func resolveOverlaps(spans []MatchSpan) []MatchSpan {
	slices.SortStableFunc(spans, func(a, b MatchSpan) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End, a.End)
	})

	kept := spans[:0]
	end := 0
	for _, span := range spans {
		if len(kept) > 0 && span.Start < end {
			continue
		}

		kept = append(kept, span)
		end = span.End
	}

	return kept
}
