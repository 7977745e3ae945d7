package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/patrickward/lettercheck/internal/editor"
	"github.com/patrickward/lettercheck/internal/flash"
	"github.com/patrickward/lettercheck/internal/spellcheck"
)

var suggestionGone = &flash.Flash{
	Type:    flash.TypeWarning,
	Message: "That suggestion is no longer available",
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	s.handleSuggestion(w, r, func(sess *editor.Session, generation uint64, index int) *flash.Flash {
		sugg, err := sess.AcceptAt(generation, index)
		if err != nil {
			return suggestionGone
		}
		return &flash.Flash{Type: flash.TypeSuccess, Message: "Applied suggestion: " + arrow(sugg)}
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleSuggestion(w, r, func(sess *editor.Session, generation uint64, index int) *flash.Flash {
		sugg, err := sess.RejectAt(generation, index)
		if err != nil {
			return suggestionGone
		}
		return &flash.Flash{Type: flash.TypeInfo, Message: "Rejected suggestion: " + arrow(sugg)}
	})
}

// handleSuggestion parses the {index} path value and the generation the page
// was rendered at, then runs act against the visitor's session. A missing or
// malformed generation is treated like a stale page.
func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request, act func(*editor.Session, uint64, int) *flash.Flash) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.showPageNotFound(w, r)
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	generation, err := strconv.ParseUint(r.PostForm.Get("generation"), 10, 64)
	if err != nil {
		s.respondWorkspace(w, r, sess, suggestionGone)
		return
	}

	s.respondWorkspace(w, r, sess, act(sess, generation, index))
}

func (s *Server) handleFixAll(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	notice := &flash.Flash{Type: flash.TypeSuccess, Message: "All suggestions have been applied!"}
	if err := sess.FixAll(); err != nil {
		if !errors.Is(err, editor.ErrNothingToFix) {
			s.showServerError(w, r, err)
			return
		}
		notice = &flash.Flash{Type: flash.TypeWarning, Message: "There are no corrections to apply"}
	}

	s.respondWorkspace(w, r, sess, notice)
}

func arrow(sugg spellcheck.Suggestion) string {
	return fmt.Sprintf("%s → %s", sugg.Original, sugg.Suggestion)
}
