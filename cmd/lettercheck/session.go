package main

import (
	"fmt"
	"net/http"

	"github.com/patrickward/lettercheck/internal/editor"
)

const sessionCookie = "lettercheck_session"

// session returns the visitor's editor session, starting a new one when the
// cookie is missing or the session has expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*editor.Session, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(cookie.Value); ok {
			return sess, nil
		}
	}

	sess, err := s.sessions.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to start editor session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}
