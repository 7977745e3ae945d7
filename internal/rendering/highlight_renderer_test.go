package rendering_test

import (
	"testing"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/highlight"
	"github.com/patrickward/lettercheck/internal/rendering"
	"github.com/patrickward/lettercheck/internal/spellcheck"
)

func TestHighlightRenderer_Render(t *testing.T) {
	t.Parallel()

	text := "Visit <Sprinfield> & teh town"
	suggestions := []spellcheck.Suggestion{
		{Original: "Sprinfield", Suggestion: "Springfield", CorrectionType: spellcheck.Town},
		{Original: "teh", Suggestion: "the"},
	}
	segments := highlight.ComputeSegments(text, spellcheck.Originals(suggestions))

	got := rendering.NewHighlightRenderer().Render(segments, suggestions)
	want := `Visit &lt;<mark id="match-1" class="highlight highlight-town" title="Sprinfield">Sprinfield</mark>&gt; &amp; ` +
		`<mark id="match-2" class="highlight" title="teh">teh</mark> town`

	assert.Equal(t, string(got), want)
}

func TestHighlightRenderer_PlainOnly(t *testing.T) {
	t.Parallel()

	got := rendering.NewHighlightRenderer().Render(highlight.ComputeSegments("a \"quoted\" line", nil), nil)
	assert.Equal(t, string(got), "a &#34;quoted&#34; line")
}
