// Package imports extracts plain text from uploaded documents so it can be
// fed to the editor.
package imports

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"github.com/patrickward/lettercheck/internal/contentutil"
)

// MaxSize is the largest document accepted for import.
const MaxSize = 10 << 20 // 10MiB

// ErrUnsupported is returned for documents that cannot be imported.
var ErrUnsupported = errors.New("unsupported document type")

// Format identifies how a document was interpreted.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Document is the text extracted from an upload.
type Document struct {
	Name   string
	Title  string
	Format Format
	Text   string
}

// Extract returns the plain text of the document called name. The format is
// chosen by file extension; binary content is rejected regardless of the name.
func Extract(name string, data []byte) (Document, error) {
	if len(data) > MaxSize {
		return Document{}, fmt.Errorf("%s is larger than %d bytes: %w", name, MaxSize, ErrUnsupported)
	}

	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return Document{}, fmt.Errorf("%s looks like %s: %w", name, kind.MIME.Value, ErrUnsupported)
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%s is not valid UTF-8 text: %w", name, ErrUnsupported)
	}

	doc := Document{Name: filepath.Base(name)}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case "", ".txt", ".text":
		doc.Format = FormatText
		doc.Text = contentutil.NormalizeLineEndings(string(data))
	case ".md", ".markdown":
		title, text, err := markdownText(data)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read markdown %s: %w", name, err)
		}
		doc.Format = FormatMarkdown
		doc.Title = title
		doc.Text = text
	case ".html", ".htm":
		doc.Format = FormatHTML
		doc.Title, doc.Text = htmlText(string(data))
	default:
		return Document{}, fmt.Errorf("%s files: %w", ext, ErrUnsupported)
	}

	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	}

	return doc, nil
}
