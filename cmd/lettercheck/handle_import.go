package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/patrickward/lettercheck/internal/flash"
	"github.com/patrickward/lettercheck/internal/imports"
)

// importFormOverhead leaves room for multipart headers around the document.
const importFormOverhead = 64 << 10

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	doc, err := s.readImport(w, r)
	if err != nil {
		log.Printf("import failed for session %s: %v", sess.ID, err)
		s.respondWorkspace(w, r, sess, &flash.Flash{Type: flash.TypeError, Message: importMessage(err)})
		return
	}

	sess.SetText(doc.Text)
	s.respondWorkspace(w, r, sess, &flash.Flash{
		Type:    flash.TypeInfo,
		Message: fmt.Sprintf("Loaded %s", doc.Title),
	})
}

func (s *Server) readImport(w http.ResponseWriter, r *http.Request) (imports.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, imports.MaxSize+importFormOverhead)
	if err := r.ParseMultipartForm(imports.MaxSize); err != nil {
		return imports.Document{}, err
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		return imports.Document{}, err
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, imports.MaxSize+1))
	if err != nil {
		return imports.Document{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}

	return imports.Extract(header.Filename, data)
}

func importMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "That file is too large to load"
	case errors.Is(err, http.ErrMissingFile):
		return "Please choose a file to load"
	case errors.Is(err, imports.ErrUnsupported):
		return "That file type is not supported. Use a .txt, .md or .html file."
	default:
		return "Error loading file. Please try again."
	}
}
