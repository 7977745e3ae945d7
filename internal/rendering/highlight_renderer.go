// Package rendering turns editor segments into HTML.
package rendering

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/patrickward/lettercheck/internal/highlight"
	"github.com/patrickward/lettercheck/internal/spellcheck"
)

// HighlightRenderer renders highlighted segments as <mark> elements.
type HighlightRenderer struct {
	className string
}

// NewHighlightRenderer creates a renderer with the default class names.
func NewHighlightRenderer() *HighlightRenderer {
	return &HighlightRenderer{className: "highlight"}
}

// Render escapes plain segments and wraps highlighted ones in a mark carrying
// an id for scrolling and a class for the correction type. Tokens are looked
// up case-insensitively among suggestions to pick the type.
func (hr *HighlightRenderer) Render(segments []highlight.Segment, suggestions []spellcheck.Suggestion) template.HTML {
	types := make(map[string]spellcheck.CorrectionType, len(suggestions))
	for _, s := range suggestions {
		key := strings.ToLower(s.Original)
		if _, ok := types[key]; !ok {
			types[key] = s.CorrectionType
		}
	}

	var sb strings.Builder
	match := 0
	for _, seg := range segments {
		if !seg.Highlighted {
			sb.WriteString(template.HTMLEscapeString(seg.Text))
			continue
		}

		match++
		class := hr.className
		if ct, ok := types[strings.ToLower(seg.Token)]; ok && ct != spellcheck.Normal {
			class += " " + hr.className + "-" + ct.String()
		}

		_, _ = fmt.Fprintf(&sb, `<mark id="match-%d" class="%s" title="%s">%s</mark>`,
			match,
			class,
			template.HTMLEscapeString(seg.Token),
			template.HTMLEscapeString(seg.Text),
		)
	}

	return template.HTML(sb.String())
}
