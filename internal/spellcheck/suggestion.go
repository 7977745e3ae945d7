package spellcheck

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CorrectionType classifies a suggestion.
type CorrectionType int

const (
	// Normal is an ordinary spelling or grammar correction.
	Normal CorrectionType = iota
	// Town is a correction to the name of a place.
	Town
	// Other is any type the API reports that this client does not know.
	Other
)

// Suggestion is a single proposed correction returned by the API.
type Suggestion struct {
	Original       string         `json:"original"`
	Suggestion     string         `json:"suggestion"`
	CorrectionType CorrectionType `json:"-"`
	// RawType keeps the type string exactly as the API reported it.
	RawType string `json:"-"`
}

// Result is the decoded response of a spellcheck request.
type Result struct {
	Suggestions   []Suggestion `json:"suggestions"`
	CorrectedText string       `json:"corrected_text"`
}

// ParseCorrectionType maps an API type string to a CorrectionType. An empty
// string is a normal correction.
func ParseCorrectionType(s string) CorrectionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal
	case "town":
		return Town
	default:
		return Other
	}
}

// String returns the wire name of the type.
func (c CorrectionType) String() string {
	switch c {
	case Normal:
		return "normal"
	case Town:
		return "town"
	default:
		return "other"
	}
}

// Label returns a human-readable title for the type.
func (c CorrectionType) Label() string {
	name := c.String()
	if c == Town {
		name = "place name"
	}
	return cases.Title(language.English).String(name + " correction")
}

// Type returns the wire name, preferring the API's original string.
func (s Suggestion) Type() string {
	if s.CorrectionType == Other && s.RawType != "" {
		return s.RawType
	}
	return s.CorrectionType.String()
}

type suggestionJSON struct {
	Original       string `json:"original"`
	Suggestion     string `json:"suggestion"`
	CorrectionType string `json:"correction_type,omitempty"`
}

// MarshalJSON encodes the suggestion with its correction type as a string.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(suggestionJSON{
		Original:       s.Original,
		Suggestion:     s.Suggestion,
		CorrectionType: s.Type(),
	})
}

// UnmarshalJSON decodes a suggestion record, defaulting a missing correction
// type to Normal.
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var raw suggestionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Original = raw.Original
	s.Suggestion = raw.Suggestion
	s.RawType = raw.CorrectionType
	s.CorrectionType = ParseCorrectionType(raw.CorrectionType)
	return nil
}

// Originals returns the original token of each suggestion, in order.
func Originals(suggestions []Suggestion) []string {
	tokens := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		tokens = append(tokens, s.Original)
	}
	return tokens
}
