package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/patrickward/lettercheck/internal/editor"
	"github.com/patrickward/lettercheck/internal/flash"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	s.respondWorkspace(w, r, sess, s.analyze(r, sess))
}

// analyze runs a spellcheck for sess and returns the notification to show.
func (s *Server) analyze(r *http.Request, sess *editor.Session) *flash.Flash {
	outcome, err := s.analyzer.Analyze(r.Context(), sess)
	switch {
	case errors.Is(err, editor.ErrEmptyText):
		return &flash.Flash{Type: flash.TypeWarning, Message: "Please enter some text to analyze"}
	case err != nil:
		log.Printf("analysis failed for session %s: %v", sess.ID, err)
		return &flash.Flash{Type: flash.TypeError, Message: "Error analyzing text. Please try again."}
	case !outcome.Applied:
		return &flash.Flash{Type: flash.TypeInfo, Message: "The text changed during analysis. Please analyze again."}
	case outcome.Suggestions > 0:
		return &flash.Flash{
			Type:    flash.TypeInfo,
			Message: fmt.Sprintf("Found %d suggestions for improvement", outcome.Suggestions),
		}
	default:
		return &flash.Flash{Type: flash.TypeSuccess, Message: "No issues found in your text!"}
	}
}
