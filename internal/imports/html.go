package imports

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/patrickward/lettercheck/internal/contentutil"
)

var (
	stripPolicy  = bluemonday.StrictPolicy()
	titleRe      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|blockquote|tr|table|ul|ol|section|article|pre)\s*>`)
)

// htmlText returns the <title> and the visible text of an HTML document.
func htmlText(source string) (string, string) {
	var title string
	if m := titleRe.FindStringSubmatch(source); m != nil {
		title = strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(m[1])))
		source = strings.Replace(source, m[0], "", 1)
	}

	source = contentutil.NormalizeLineEndings(source)
	source = lineBreakRe.ReplaceAllString(source, "\n")
	source = blockCloseRe.ReplaceAllString(source, "$0\n\n")

	text := html.UnescapeString(stripPolicy.Sanitize(source))
	return title, contentutil.TidyParagraphs(text)
}
