package main

import (
	"encoding/json"
	"net/http"

	"github.com/patrickward/lettercheck"
)

// redirectTo redirects the request to the given URL based on the request headers.
// If the request header for HX-Request is true, then send a 204 with a HX-Redirect header.
// Otherwise, send a 302 redirect.
func (s *Server) redirectTo(w http.ResponseWriter, r *http.Request, url string) {
	if isHXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// showPageNotFound shows a 404 page.
func (s *Server) showPageNotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := s.executePage(w, "404.html", lettercheck.PageData{
		Title: "Page Not Found",
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// isHXRequest returns true if the request header for HX-Request is true.
func isHXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// isHxSubmission returns true if the request is an HX-Request and is a POST, PUT, PATCH, or DELETE.
func isHxSubmission(r *http.Request) bool {
	if isHXRequest(r) {
		return r.Method == http.MethodPost || r.Method == http.MethodPut ||
			r.Method == http.MethodPatch || r.Method == http.MethodDelete
	}

	return false
}

// showServerError shows a 500 page response.
// If the request is an HX-Request, then send a 500 snippet response with the error message.
// Otherwise, show the 500 system error page.
func (s *Server) showServerError(w http.ResponseWriter, r *http.Request, err error) {
	if isHxSubmission(r) {
		w.WriteHeader(http.StatusInternalServerError)
		if err := s.executeSnippet(w, "system_error.html", lettercheck.PageData{
			ErrorMessage: err.Error(),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	if err := s.executePage(w, "500.html", lettercheck.PageData{
		Title:        "Server Error",
		ErrorMessage: err.Error(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) respondWithJSON(w http.ResponseWriter, payload any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
