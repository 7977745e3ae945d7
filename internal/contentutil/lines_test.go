package contentutil_test

import (
	"testing"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/contentutil"
)

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, contentutil.NormalizeLineEndings("a\r\nb\rc\n"), "a\nb\nc\n")
}

func TestSplitLines(t *testing.T) {
	t.Parallel()
	lines := contentutil.SplitLines("one\r\ntwo\n\nthree")
	assert.Equal(t, len(lines), 4)
	assert.Equal(t, lines[1], "two")
	assert.Equal(t, lines[2], "")
}

func TestTidyParagraphs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, contentutil.TidyParagraphs("\n\nDear Sir,  \n\n\n\nThanks\t\n\n"), "Dear Sir,\n\nThanks")
}
