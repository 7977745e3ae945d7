package main

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/patrickward/lettercheck"
)

func customFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
	}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(customFuncs()).ParseFS(lettercheck.TemplateFS,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
}

// executePage renders a full page template with the given data
func (s *Server) executePage(w http.ResponseWriter, page string, data lettercheck.PageData) error {
	return s.execute(w, "pages", page, data)
}

// executeSnippet renders a snippet template with the given data (no layout)
func (s *Server) executeSnippet(w http.ResponseWriter, snippet string, data lettercheck.PageData) error {
	return s.execute(w, "snippets", snippet, data)
}

func (s *Server) execute(w http.ResponseWriter, dir, name string, data lettercheck.PageData) error {
	// Clone the base template to avoid altering it
	tmpl, err := s.baseTempl.Clone()
	if err != nil {
		return err
	}

	if !strings.HasSuffix(name, ".html") {
		name = name + ".html"
	}

	tmpl, err = tmpl.ParseFS(lettercheck.TemplateFS, fmt.Sprintf("templates/%s/%s", dir, name))
	if err != nil {
		return err
	}

	if data.AppVersion == "" {
		data.AppVersion = appVersion
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}
