package lettercheck

import (
	"html/template"

	"github.com/patrickward/lettercheck/internal/drafts"
	"github.com/patrickward/lettercheck/internal/editor"
)

// PageData holds data passed to templates for rendering
type PageData struct {
	Title             string        // Page title
	AppVersion        string        // Shown in the footer
	View              editor.View   // Snapshot of the visitor's editor session
	Highlighted       template.HTML // View.Text with matches wrapped in <mark>
	Drafts            []drafts.Draft
	EncryptionEnabled bool // Whether drafts are encrypted at rest
	FlashMessage      string
	FlashMessageType  string
	ErrorMessage      string
}
