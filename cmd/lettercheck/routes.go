package main

import (
	"net/http"

	"github.com/patrickward/lettercheck"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	fileServer := http.FileServer(http.FS(lettercheck.StaticFS))
	mux.Handle("GET /static/", fileServer)

	// Editor
	mux.HandleFunc("GET /{$}", s.handleEditor)
	mux.HandleFunc("POST /text", s.handleText)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /import", s.handleImport)

	// Suggestions
	mux.HandleFunc("POST /suggestions/fix-all", s.handleFixAll)
	mux.HandleFunc("POST /suggestions/{index}/accept", s.handleAccept)
	mux.HandleFunc("POST /suggestions/{index}/reject", s.handleReject)

	// Drafts
	mux.HandleFunc("GET /drafts", s.handleDrafts)
	mux.HandleFunc("POST /drafts", s.handleSaveDraft)
	mux.HandleFunc("POST /drafts/{name}/open", s.handleOpenDraft)
	mux.HandleFunc("DELETE /drafts/{name}", s.handleDeleteDraft)

	// API
	mux.HandleFunc("GET /api/segments", s.handleSegmentsAPI)

	// Everything else
	mux.HandleFunc("/", s.showPageNotFound)

	return mux
}
