package editor

import (
	"context"
	"fmt"
	"log"

	"github.com/patrickward/lettercheck/internal/spellcheck"
)

// Checker sends text to a spellchecking service.
type Checker interface {
	Check(ctx context.Context, text string) (spellcheck.Result, error)
}

// Outcome describes the result of an analysis run.
type Outcome struct {
	// Applied is false when the text changed while the check was running and
	// the result was discarded.
	Applied     bool
	Suggestions int
}

// Analyzer runs spellchecks against sessions.
type Analyzer struct {
	checker Checker
}

// NewAnalyzer creates an Analyzer using checker.
func NewAnalyzer(checker Checker) *Analyzer {
	return &Analyzer{checker: checker}
}

// Analyze checks the session's current text and stores the suggestions,
// unless the text was replaced while the check was in flight.
func (a *Analyzer) Analyze(ctx context.Context, s *Session) (Outcome, error) {
	ticket, err := s.BeginAnalysis()
	if err != nil {
		return Outcome{}, err
	}

	result, err := a.checker.Check(ctx, ticket.Text)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to analyze text: %w", err)
	}

	if !s.CompleteAnalysis(ticket, result) {
		log.Printf("discarding stale analysis for session %s (generation %d)", s.ID, ticket.Generation)
		return Outcome{Applied: false}, nil
	}

	return Outcome{Applied: true, Suggestions: len(result.Suggestions)}, nil
}
