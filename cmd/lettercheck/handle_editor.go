package main

import (
	"net/http"

	"github.com/patrickward/lettercheck"
	"github.com/patrickward/lettercheck/internal/contentutil"
	"github.com/patrickward/lettercheck/internal/editor"
	"github.com/patrickward/lettercheck/internal/flash"
)

// editorPageData builds the template data for the editor workspace.
func (s *Server) editorPageData(sess *editor.Session, notice *flash.Flash) lettercheck.PageData {
	view := sess.Snapshot()
	data := lettercheck.PageData{
		Title:       "Editor",
		View:        view,
		Highlighted: s.highlighter.Render(view.Segments, view.Suggestions),
	}
	if notice != nil {
		data.FlashMessage = notice.Message
		data.FlashMessageType = notice.Type
	}
	return data
}

// respondWorkspace answers an editor action. htmx requests get the refreshed
// workspace with the notification inline; plain form posts get the
// notification as a flash and a redirect back to the editor.
func (s *Server) respondWorkspace(w http.ResponseWriter, r *http.Request, sess *editor.Session, notice *flash.Flash) {
	if !isHXRequest(r) {
		if notice != nil {
			s.flashManager.Set(w, notice.Type, notice.Message)
		}
		s.redirectTo(w, r, "/")
		return
	}

	if err := s.executeSnippet(w, "workspace", s.editorPageData(sess, notice)); err != nil {
		s.showServerError(w, r, err)
	}
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	data := s.editorPageData(sess, s.flashManager.Get(w, r))
	if err := s.executePage(w, "editor", data); err != nil {
		s.showServerError(w, r, err)
	}
}

// handleText replaces the editor text. htmx requests get the refreshed
// analysis panel so the text area keeps focus.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess.SetText(contentutil.NormalizeLineEndings(r.PostForm.Get("text")))

	if !isHXRequest(r) {
		s.redirectTo(w, r, "/")
		return
	}

	if err := s.executeSnippet(w, "analysis", s.editorPageData(sess, nil)); err != nil {
		s.showServerError(w, r, err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	sess.SetText("")
	s.respondWorkspace(w, r, sess, nil)
}
