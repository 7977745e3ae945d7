package imports_test

import (
	"testing"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/imports"
)

func TestExtract_PlainText(t *testing.T) {
	t.Parallel()

	doc, err := imports.Extract("letter.txt", []byte("\xef\xbb\xbfDear Sir,\r\nThanks"))
	assert.Nil(t, err)
	assert.Equal(t, doc.Format, imports.FormatText)
	assert.Equal(t, doc.Title, "letter")
	assert.Equal(t, doc.Text, "Dear Sir,\nThanks")
}

func TestExtract_Markdown(t *testing.T) {
	t.Parallel()

	source := "---\n" +
		"title: Complaint Letter\n" +
		"---\n" +
		"# Dear Sir\n\n" +
		"I am **writing** to *complain* about [the service](http://example.com).\n\n" +
		"- item one\n" +
		"- item two\n\n" +
		"```go\n" +
		"code here\n" +
		"```\n"

	doc, err := imports.Extract("notes/complaint.md", []byte(source))
	assert.Nil(t, err)
	assert.Equal(t, doc.Format, imports.FormatMarkdown)
	assert.Equal(t, doc.Name, "complaint.md")
	assert.Equal(t, doc.Title, "Complaint Letter")
	assert.Equal(t, doc.Text, "Dear Sir\n\nI am writing to complain about the service.\n\nitem one\n\nitem two")
}

func TestExtract_MarkdownWithoutFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := imports.Extract("draft.markdown", []byte("First line\nsecond line\n\nNext paragraph"))
	assert.Nil(t, err)
	assert.Equal(t, doc.Title, "draft")
	assert.Equal(t, doc.Text, "First line\nsecond line\n\nNext paragraph")
}

func TestExtract_HTML(t *testing.T) {
	t.Parallel()

	source := `<html><head><title>My &amp; Letter</title><style>p { color: red; }</style></head>` +
		`<body><p>Dear Sir &amp; Madam,</p><p>Line one<br>Line two</p><script>alert(1)</script></body></html>`

	doc, err := imports.Extract("letter.html", []byte(source))
	assert.Nil(t, err)
	assert.Equal(t, doc.Format, imports.FormatHTML)
	assert.Equal(t, doc.Title, "My & Letter")
	assert.Equal(t, doc.Text, "Dear Sir & Madam,\n\nLine one\nLine two")
}

func TestExtract_Unsupported(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"image.txt":   {0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0},
		"letter.docx": []byte("plain words in a docx name"),
		"archive.md":  {'P', 'K', 0x03, 0x04, 0x14, 0, 0, 0},
		"bad.txt":     []byte("bad \xff bytes"),
	}

	for name, data := range tests {
		_, err := imports.Extract(name, data)
		assert.ErrorIs(t, err, imports.ErrUnsupported)
	}
}
