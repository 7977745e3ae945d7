package flash_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/flash"
)

func TestManager_SetAndGet(t *testing.T) {
	t.Parallel()
	fm := flash.NewManager()

	rec := httptest.NewRecorder()
	fm.SetWarning(rec, "Please enter some text to analyze")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	peeked := fm.Peek(req)
	assert.NotNil(t, peeked)
	assert.Equal(t, peeked.Type, flash.TypeWarning)

	rec = httptest.NewRecorder()
	got := fm.Get(rec, req)
	assert.NotNil(t, got)
	assert.Equal(t, got.Message, "Please enter some text to analyze")

	cleared := rec.Result().Cookies()
	assert.Equal(t, len(cleared), 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestManager_GetWithoutCookie(t *testing.T) {
	t.Parallel()
	fm := flash.NewManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, fm.Get(httptest.NewRecorder(), req))
}
