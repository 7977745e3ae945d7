package main

import (
	"net/http"

	"github.com/patrickward/lettercheck/internal/highlight"
	"github.com/patrickward/lettercheck/internal/spellcheck"
	"github.com/patrickward/lettercheck/internal/textstats"
)

type segmentsResponse struct {
	Generation  uint64                  `json:"generation"`
	Stats       textstats.Stats         `json:"stats"`
	Segments    []highlight.Segment     `json:"segments"`
	Suggestions []spellcheck.Suggestion `json:"suggestions"`
}

// handleSegmentsAPI returns the session's current segments and stats as JSON.
func (s *Server) handleSegmentsAPI(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.respondWithJSON(w, map[string]string{"detail": err.Error()}, http.StatusInternalServerError)
		return
	}

	view := sess.Snapshot()
	s.respondWithJSON(w, segmentsResponse{
		Generation:  view.Generation,
		Stats:       view.Stats,
		Segments:    view.Segments,
		Suggestions: view.Suggestions,
	}, http.StatusOK)
}
