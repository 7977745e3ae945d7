package imports

import (
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gtext "github.com/yuin/goldmark/text"

	"github.com/patrickward/lettercheck/internal/contentutil"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(meta.Meta)).Parser()

// markdownText returns the frontmatter title and the prose of a markdown
// document. Markup, code blocks and raw HTML are dropped; each block becomes
// its own paragraph.
func markdownText(source []byte) (string, string, error) {
	ctx := parser.NewContext()
	doc := markdownParser.Parse(gtext.NewReader(source), parser.WithContext(ctx))

	var title string
	if metadata, err := meta.TryGet(ctx); err == nil {
		if t, ok := metadata["title"].(string); ok {
			title = strings.TrimSpace(t)
		}
	}

	var blocks []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindThematicBreak:
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock:
			var sb strings.Builder
			writeInline(&sb, n, source)
			if block := strings.TrimSpace(sb.String()); block != "" {
				blocks = append(blocks, block)
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", "", err
	}

	return title, contentutil.TidyParagraphs(strings.Join(blocks, "\n\n")), nil
}

// writeInline writes the text of the inline children of n.
func writeInline(sb *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(source))
		case *ast.RawHTML:
			// dropped
		default:
			writeInline(sb, c, source)
		}
	}
}
