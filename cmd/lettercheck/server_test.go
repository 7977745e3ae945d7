package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/patrickward/lettercheck/internal/assert"
	"github.com/patrickward/lettercheck/internal/config"
	"github.com/patrickward/lettercheck/internal/spellcheck"
)

type fakeChecker struct {
	result spellcheck.Result
	err    error
}

func (f fakeChecker) Check(_ context.Context, _ string) (spellcheck.Result, error) {
	return f.result, f.err
}

var letterResult = spellcheck.Result{
	Suggestions: []spellcheck.Suggestion{
		{Original: "recieve", Suggestion: "receive"},
		{Original: "teh", Suggestion: "the"},
	},
	CorrectedText: "I receive the letter",
}

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func setupServer(t *testing.T, checker fakeChecker) *testClient {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	assert.Nil(t, cfg.Resolve(nil))

	s, err := NewServer(context.Background(), cfg, WithChecker(checker))
	assert.Nil(t, err)

	ts := httptest.NewServer(s.setupRoutes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	assert.Nil(t, err)

	return &testClient{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (tc *testClient) do(method, path string, body io.Reader, contentType string, hx bool) (int, string) {
	tc.t.Helper()

	req, err := http.NewRequest(method, tc.base+path, body)
	assert.Nil(tc.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if hx {
		req.Header.Set("HX-Request", "true")
	}

	resp, err := tc.client.Do(req)
	assert.Nil(tc.t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	assert.Nil(tc.t, err)
	return resp.StatusCode, string(data)
}

func (tc *testClient) get(path string) (int, string) {
	return tc.do(http.MethodGet, path, nil, "", false)
}

func (tc *testClient) post(path string, form url.Values, hx bool) (int, string) {
	return tc.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", hx)
}

func (tc *testClient) segments() segmentsResponse {
	tc.t.Helper()

	code, body := tc.get("/api/segments")
	assert.Equal(tc.t, code, http.StatusOK)

	var resp segmentsResponse
	assert.Nil(tc.t, json.Unmarshal([]byte(body), &resp))
	return resp
}

// pageForm returns the form fields a suggestion button rendered now would send.
func (tc *testClient) pageForm() url.Values {
	tc.t.Helper()
	return url.Values{"generation": {strconv.FormatUint(tc.segments().Generation, 10)}}
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("expected body to contain %q, got:\n%s", want, body)
	}
}

func TestServer_EditorPage(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{})

	code, body := tc.get("/")
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "Letter Body Spellchecker")
	assertContains(t, body, `id="workspace"`)

	code, _ = tc.get("/nowhere")
	assert.Equal(t, code, http.StatusNotFound)
}

func TestServer_TextUpdatesStats(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{})

	code, body := tc.post("/text", url.Values{"text": {"Dear Sir,\r\n\r\nThank you"}}, true)
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, `id="analysis-panel"`)
	assertContains(t, body, "Words: 4")

	resp := tc.segments()
	assert.Equal(t, resp.Stats.Words, 4)
	assert.Equal(t, resp.Stats.Paragraphs, 2)
	assert.Equal(t, len(resp.Suggestions), 0)
}

func TestServer_AnalyzeAndAccept(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{result: letterResult})

	tc.post("/text", url.Values{"text": {"I recieve teh letter"}}, true)

	code, body := tc.post("/analyze", nil, true)
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "Found 2 suggestions for improvement")
	assertContains(t, body, `<mark id="match-1" class="highlight" title="recieve">recieve</mark>`)

	resp := tc.segments()
	highlighted := 0
	for _, seg := range resp.Segments {
		if seg.Highlighted {
			highlighted++
		}
	}
	assert.Equal(t, highlighted, 2)

	code, body = tc.post("/suggestions/0/accept", tc.pageForm(), true)
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "Applied suggestion: recieve → receive")

	resp = tc.segments()
	assert.Equal(t, len(resp.Suggestions), 1)
	assert.Equal(t, resp.Suggestions[0].Original, "teh")

	_, body = tc.post("/suggestions/0/reject", tc.pageForm(), true)
	assertContains(t, body, "Rejected suggestion: teh → the")

	_, body = tc.post("/suggestions/5/accept", tc.pageForm(), true)
	assertContains(t, body, "That suggestion is no longer available")

	_, body = tc.post("/suggestions/0/accept", nil, true)
	assertContains(t, body, "That suggestion is no longer available")

	code, _ = tc.post("/suggestions/first/accept", tc.pageForm(), true)
	assert.Equal(t, code, http.StatusNotFound)
}

func TestServer_RepeatedAcceptFromSamePage(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{result: letterResult})

	tc.post("/text", url.Values{"text": {"I recieve teh letter"}}, true)
	tc.post("/analyze", nil, true)

	// Both clicks carry the generation of the page they were made on.
	form := tc.pageForm()

	_, body := tc.post("/suggestions/0/accept", form, true)
	assertContains(t, body, "Applied suggestion: recieve → receive")

	_, body = tc.post("/suggestions/0/accept", form, true)
	assertContains(t, body, "That suggestion is no longer available")
	if strings.Contains(body, "teh → the") {
		t.Error("second submit applied a different suggestion")
	}

	_, body = tc.post("/suggestions/0/reject", form, true)
	assertContains(t, body, "That suggestion is no longer available")

	resp := tc.segments()
	assert.Equal(t, len(resp.Suggestions), 1)
	assert.Equal(t, resp.Suggestions[0].Original, "teh")

	_, body = tc.get("/")
	assertContains(t, body, fmt.Sprintf(`name="generation" value="%d"`, resp.Generation))
}

func TestServer_FixAll(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{result: letterResult})

	_, body := tc.post("/suggestions/fix-all", nil, true)
	assertContains(t, body, "There are no corrections to apply")

	tc.post("/text", url.Values{"text": {"I recieve teh letter"}}, true)
	tc.post("/analyze", nil, true)

	_, body = tc.post("/suggestions/fix-all", nil, true)
	assertContains(t, body, "All suggestions have been applied!")
	assertContains(t, body, "I receive the letter")
	assert.Equal(t, len(tc.segments().Suggestions), 0)
}

func TestServer_AnalyzeNotices(t *testing.T) {
	t.Parallel()

	tc := setupServer(t, fakeChecker{})
	_, body := tc.post("/analyze", nil, true)
	assertContains(t, body, "Please enter some text to analyze")

	tc.post("/text", url.Values{"text": {"All good here"}}, true)
	_, body = tc.post("/analyze", nil, true)
	assertContains(t, body, "No issues found in your text!")

	failing := setupServer(t, fakeChecker{err: errors.New("connection refused")})
	failing.post("/text", url.Values{"text": {"Some text"}}, true)
	_, body = failing.post("/analyze", nil, true)
	assertContains(t, body, "Error analyzing text. Please try again.")
}

func TestServer_PlainFormPostRedirectsWithFlash(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{result: letterResult})

	tc.post("/text", url.Values{"text": {"I recieve teh letter"}}, false)

	code, body := tc.post("/analyze", nil, false)
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "<title>Editor")
	assertContains(t, body, "Found 2 suggestions for improvement")

	_, body = tc.get("/")
	if strings.Contains(body, "Found 2 suggestions") {
		t.Error("notification shown twice")
	}
}

func TestServer_Reset(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{result: letterResult})

	tc.post("/text", url.Values{"text": {"I recieve teh letter"}}, true)
	tc.post("/analyze", nil, true)
	tc.post("/reset", nil, true)

	resp := tc.segments()
	assert.Equal(t, resp.Stats.Words, 0)
	assert.Equal(t, len(resp.Segments), 0)
	assert.Equal(t, len(resp.Suggestions), 0)
}

func TestServer_Import(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{})

	upload := func(name, content string) string {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("document", name)
		assert.Nil(t, err)
		_, err = fw.Write([]byte(content))
		assert.Nil(t, err)
		assert.Nil(t, mw.Close())

		_, body := tc.do(http.MethodPost, "/import", &buf, mw.FormDataContentType(), true)
		return body
	}

	body := upload("letter.md", "---\ntitle: Complaint\n---\n# Dear Sir\n\nThe **service** was poor.\n")
	assertContains(t, body, "Loaded Complaint")
	assert.Equal(t, tc.segments().Stats.Words, 6)

	body = upload("scan.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assertContains(t, body, "That file type is not supported")
	assert.Equal(t, tc.segments().Stats.Words, 6)

	_, body = tc.do(http.MethodPost, "/import", strings.NewReader(""), "multipart/form-data; boundary=x", true)
	assertContains(t, body, "notification-error")
}

func TestServer_Drafts(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{})

	tc.post("/text", url.Values{"text": {"Dear Madam"}}, true)

	_, body := tc.post("/drafts", url.Values{"name": {"cover"}}, true)
	assertContains(t, body, "Saved draft cover")

	_, body = tc.post("/drafts", url.Values{"name": {"../etc"}}, true)
	assertContains(t, body, "Draft names may use")

	code, body := tc.get("/drafts")
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "cover")
	assertContains(t, body, "1 draft saved")

	tc.post("/text", url.Values{"text": {"something else"}}, true)

	code, body = tc.post("/drafts/cover/open", nil, false)
	assert.Equal(t, code, http.StatusOK)
	assertContains(t, body, "Opened draft cover")
	assertContains(t, body, "Dear Madam")

	code, _ = tc.post("/drafts/missing/open", nil, false)
	assert.Equal(t, code, http.StatusNotFound)

	code, _ = tc.do(http.MethodDelete, "/drafts/cover", nil, "", true)
	assert.Equal(t, code, http.StatusOK)

	code, _ = tc.do(http.MethodDelete, "/drafts/cover", nil, "", true)
	assert.Equal(t, code, http.StatusNotFound)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	t.Parallel()
	tc := setupServer(t, fakeChecker{})

	tc.post("/text", url.Values{"text": {"one two three"}}, true)

	jar, err := cookiejar.New(nil)
	assert.Nil(t, err)
	other := &testClient{t: t, base: tc.base, client: &http.Client{Jar: jar}}

	assert.Equal(t, other.segments().Stats.Words, 0)
	assert.Equal(t, tc.segments().Stats.Words, 3)
}

func TestCLIFlags_Lookup(t *testing.T) {
	t.Parallel()

	flags, err := parseFlags([]string{"-p", "9000", "-token", "abc"})
	assert.Nil(t, err)

	lookup := flags.lookup(func(key string) (string, bool) {
		if key == config.EnvPrefix+"API_TOKEN" || key == config.EnvPrefix+"ADDR" {
			return "env", true
		}
		return "", false
	})

	cfg, err := config.Load("", lookup)
	assert.Nil(t, err)
	assert.Equal(t, cfg.Port, 9000)
	assert.Equal(t, cfg.API.Token, "abc")
	assert.Equal(t, cfg.Addr, "env")
}
