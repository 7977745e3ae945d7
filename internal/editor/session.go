// Package editor holds the per-visitor editing state: the current text, the
// active suggestions from the last analysis, and the generation counter used
// to discard stale analysis results.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickward/lettercheck/internal/highlight"
	"github.com/patrickward/lettercheck/internal/spellcheck"
	"github.com/patrickward/lettercheck/internal/textstats"
)

var (
	// ErrEmptyText is returned when analysis is requested for blank text.
	ErrEmptyText = errors.New("no text to analyze")
	// ErrNoSuggestion is returned for a suggestion index that does not exist.
	ErrNoSuggestion = errors.New("no such suggestion")
	// ErrNothingToFix is returned by FixAll when no corrected text is available.
	ErrNothingToFix = errors.New("no corrected text available")
	// ErrStale is returned when a request was made against an older generation
	// of the session than the current one.
	ErrStale = errors.New("session has changed")
)

// Ticket identifies an analysis started against one generation of the text.
type Ticket struct {
	Generation uint64
	Text       string
}

// View is a consistent snapshot of a session for rendering.
type View struct {
	Text          string                  `json:"text"`
	Segments      []highlight.Segment     `json:"segments"`
	Stats         textstats.Stats         `json:"stats"`
	Suggestions   []spellcheck.Suggestion `json:"suggestions"`
	CorrectedText string                  `json:"corrected_text,omitempty"`
	Generation    uint64                  `json:"generation"`
}

// Highlighting reports whether there are suggestions to highlight. The editor
// shows the highlighted text instead of the text area while this is true.
func (v View) Highlighting() bool {
	return len(v.Suggestions) > 0
}

// Session is the editing state for one visitor.
type Session struct {
	ID string

	mu          sync.Mutex
	text        string
	suggestions []spellcheck.Suggestion
	corrected   string
	generation  uint64
	touched     time.Time
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, touched: time.Now()}
}

// Text returns the current text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Generation returns the current generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// LastTouched returns the time of the last access.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
}

// SetText replaces the text and clears any suggestions. Any analysis still in
// flight for the previous text becomes stale.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceText(text)
	s.suggestions = nil
	s.corrected = ""
}

// BeginAnalysis captures the current text and generation for an analysis.
func (s *Session) BeginAnalysis() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched = time.Now()
	if strings.TrimSpace(s.text) == "" {
		return Ticket{}, ErrEmptyText
	}

	return Ticket{Generation: s.generation, Text: s.text}, nil
}

// CompleteAnalysis stores result if the text has not changed since ticket was
// issued. It reports whether the result was applied.
func (s *Session) CompleteAnalysis(ticket Ticket, result spellcheck.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.Generation != s.generation {
		return false
	}

	s.suggestions = append([]spellcheck.Suggestion(nil), result.Suggestions...)
	s.corrected = result.CorrectedText
	return true
}

// AcceptAt applies the suggestion at index to the text and removes it. The
// index refers to the suggestion list as it was at generation; if the session
// has moved on since, ErrStale is returned and nothing changes.
func (s *Session) AcceptAt(generation uint64, index int) (spellcheck.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sugg, err := s.removeSuggestion(generation, index)
	if err != nil {
		return spellcheck.Suggestion{}, err
	}

	s.replaceText(highlight.ApplySuggestion(s.text, sugg.Original, sugg.Suggestion))
	return sugg, nil
}

// RejectAt removes the suggestion at index without changing the text. Like
// AcceptAt it only acts on the generation the index was taken from. The
// generation still advances, since the positions of later suggestions shift.
func (s *Session) RejectAt(generation uint64, index int) (spellcheck.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sugg, err := s.removeSuggestion(generation, index)
	if err != nil {
		return spellcheck.Suggestion{}, err
	}

	s.generation++
	return sugg, nil
}

// FixAll replaces the text with the corrected text from the last analysis.
func (s *Session) FixAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.corrected == "" {
		return ErrNothingToFix
	}

	s.replaceText(s.corrected)
	s.suggestions = nil
	s.corrected = ""
	return nil
}

// Snapshot returns the current state with segments and stats computed.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	suggestions := append([]spellcheck.Suggestion{}, s.suggestions...)
	return View{
		Text:          s.text,
		Segments:      highlight.ComputeSegments(s.text, spellcheck.Originals(suggestions)),
		Stats:         textstats.Compute(s.text),
		Suggestions:   suggestions,
		CorrectedText: s.corrected,
		Generation:    s.generation,
	}
}

// replaceText must be called with mu held.
func (s *Session) replaceText(text string) {
	s.text = text
	s.generation++
	s.touched = time.Now()
}

// removeSuggestion must be called with mu held.
func (s *Session) removeSuggestion(generation uint64, index int) (spellcheck.Suggestion, error) {
	if generation != s.generation {
		return spellcheck.Suggestion{}, fmt.Errorf("generation %d, now %d: %w", generation, s.generation, ErrStale)
	}
	if index < 0 || index >= len(s.suggestions) {
		return spellcheck.Suggestion{}, fmt.Errorf("suggestion %d: %w", index, ErrNoSuggestion)
	}

	sugg := s.suggestions[index]
	s.suggestions = append(s.suggestions[:index:index], s.suggestions[index+1:]...)
	s.touched = time.Now()
	return sugg, nil
}
