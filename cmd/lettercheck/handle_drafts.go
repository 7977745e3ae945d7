package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/patrickward/lettercheck"
	"github.com/patrickward/lettercheck/internal/drafts"
	"github.com/patrickward/lettercheck/internal/flash"
)

func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := s.drafts.List()
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	data := lettercheck.PageData{
		Title:             "Drafts",
		Drafts:            list,
		EncryptionEnabled: s.sealer.CanSeal(),
	}
	if notice := s.flashManager.Get(w, r); notice != nil {
		data.FlashMessage = notice.Message
		data.FlashMessageType = notice.Type
	}

	if err := s.executePage(w, "drafts", data); err != nil {
		s.showServerError(w, r, err)
	}
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	draft, err := s.drafts.Save(r.PostForm.Get("name"), sess.Text())
	switch {
	case errors.Is(err, drafts.ErrInvalidName):
		s.respondWorkspace(w, r, sess, &flash.Flash{
			Type:    flash.TypeWarning,
			Message: "Draft names may use letters, numbers, spaces, dashes and underscores",
		})
	case err != nil:
		s.showServerError(w, r, err)
	default:
		s.respondWorkspace(w, r, sess, &flash.Flash{
			Type:    flash.TypeSuccess,
			Message: fmt.Sprintf("Saved draft %s", draft.Name),
		})
	}
}

func (s *Server) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	name := r.PathValue("name")
	text, err := s.drafts.Load(name)
	if errors.Is(err, drafts.ErrNotFound) || errors.Is(err, drafts.ErrInvalidName) {
		s.showPageNotFound(w, r)
		return
	}
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	sess.SetText(text)
	s.flashManager.SetInfo(w, fmt.Sprintf("Opened draft %s", name))
	s.redirectTo(w, r, "/")
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := s.drafts.Delete(name)
	if errors.Is(err, drafts.ErrNotFound) || errors.Is(err, drafts.ErrInvalidName) {
		s.showPageNotFound(w, r)
		return
	}
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	if isHXRequest(r) {
		// The row is swapped out for the empty response.
		w.WriteHeader(http.StatusOK)
		return
	}

	s.flashManager.SetInfo(w, "Deleted draft "+name)
	s.redirectTo(w, r, "/drafts")
}
