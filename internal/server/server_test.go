package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Options{Logger: log.New(io.Discard)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// do sends a request and decodes a JSON response into out when out is set.
func do(t *testing.T, ts *httptest.Server, method, path, body string, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp
}

// createSample creates a session with the sample document loaded.
func createSample(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var v viewResponse
	resp := do(t, ts, http.MethodPost, "/api/sessions", `{"sample":true}`, &v)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if !v.HasTree || v.ID == "" {
		t.Fatalf("created session = %+v", v)
	}
	return v.ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var info map[string]string
	resp := do(t, ts, http.MethodGet, "/healthz", "", &info)
	if resp.StatusCode != http.StatusOK || info["version"] == "" {
		t.Errorf("status = %d, info = %v", resp.StatusCode, info)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var empty viewResponse
	resp := do(t, ts, http.MethodPost, "/api/sessions", "", &empty)
	if resp.StatusCode != http.StatusCreated || empty.HasTree || empty.Theme != "dark" {
		t.Fatalf("status = %d, view = %+v", resp.StatusCode, empty)
	}
	base := "/api/sessions/" + empty.ID

	var loaded viewResponse
	resp = do(t, ts, http.MethodPut, base+"/document", `{"a":[1,2,{"b":null}]}`, &loaded)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	if loaded.View == nil || len(loaded.View.Nodes) != 6 || len(loaded.Rows) != 6 {
		t.Fatalf("loaded view = %+v", loaded)
	}

	var bad errorResponse
	resp = do(t, ts, http.MethodPut, base+"/document", `{"a": }`, &bad)
	if resp.StatusCode != http.StatusUnprocessableEntity || bad.Code != errors.ErrCodeInvalidJSON {
		t.Fatalf("status = %d, body = %+v", resp.StatusCode, bad)
	}
	if bad.Message != "invalid character '}' looking for beginning of value" {
		t.Errorf("message = %q, want the parser message", bad.Message)
	}

	var after viewResponse
	do(t, ts, http.MethodGet, base+"/view", "", &after)
	if after.HasTree || after.Input != `{"a": }` || after.Error == "" {
		t.Errorf("failed load should keep input and clear tree, got %+v", after)
	}

	resp = do(t, ts, http.MethodDelete, base, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	var gone errorResponse
	resp = do(t, ts, http.MethodGet, base+"/view", "", &gone)
	if resp.StatusCode != http.StatusNotFound || gone.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("status = %d, body = %+v", resp.StatusCode, gone)
	}
}

func TestViewActions(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		check  func(t *testing.T, body []byte)
	}{
		{
			name: "SearchSingleMatch", method: http.MethodPost, path: "/search",
			body: `{"query":"560018"}`, status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r searchResponse
				mustDecode(t, body, &r)
				if r.Count != 1 || r.Message != "Found 1 match" || r.Matches[0] != "node-8" {
					t.Errorf("result = %+v", r)
				}
			},
		},
		{
			name: "SearchPatternEscaped", method: http.MethodPost, path: "/search",
			body: `{"query":"a.b","mode":"pattern"}`, status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r searchResponse
				mustDecode(t, body, &r)
				if r.Outcome != "no_matches" || r.Message != "No matches found" {
					t.Errorf("result = %+v", r)
				}
			},
		},
		{
			name: "SearchBadMode", method: http.MethodPost, path: "/search",
			body: `{"query":"a","mode":"fuzzy"}`, status: http.StatusBadRequest,
		},
		{
			name: "SearchUnknownField", method: http.MethodPost, path: "/search",
			body: `{"q":"a"}`, status: http.StatusBadRequest,
		},
		{
			name: "Suggest", method: http.MethodGet, path: "/suggest?q=addr", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r struct{ Suggestions []string }
				mustDecode(t, body, &r)
				if len(r.Suggestions) != 4 || r.Suggestions[0] != "$.user.address" {
					t.Errorf("suggestions = %v", r.Suggestions)
				}
			},
		},
		{
			name: "ToggleRoot", method: http.MethodPost, path: "/nodes/node-0/toggle", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r struct{ Expanded bool }
				mustDecode(t, body, &r)
				if r.Expanded {
					t.Error("first toggle should collapse")
				}
			},
		},
		{
			name: "ToggleMalformedID", method: http.MethodPost, path: "/nodes/abc/toggle", status: http.StatusBadRequest,
		},
		{
			name: "ToggleUnknownNode", method: http.MethodPost, path: "/nodes/node-99/toggle", status: http.StatusNotFound,
		},
		{
			name: "ZoomIn", method: http.MethodPost, path: "/zoom/in", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r struct{ Zoom float64 }
				mustDecode(t, body, &r)
				if r.Zoom != 1.1 {
					t.Errorf("zoom = %v, want 1.1", r.Zoom)
				}
			},
		},
		{
			name: "ZoomBadAction", method: http.MethodPost, path: "/zoom/sideways", status: http.StatusBadRequest,
		},
		{
			name: "Theme", method: http.MethodPost, path: "/theme/toggle", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				if !bytes.Contains(body, []byte(`"light"`)) {
					t.Errorf("body = %s", body)
				}
			},
		},
		{
			name: "Resolve", method: http.MethodGet, path: "/resolve?path=$.user.hobbies[1]", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r struct {
					Type  string
					Value string
				}
				mustDecode(t, body, &r)
				if r.Type != "string" || r.Value != "cooking" {
					t.Errorf("resolve = %+v", r)
				}
			},
		},
		{
			name: "ResolveMissing", method: http.MethodGet, path: "/resolve?path=$.nope", status: http.StatusNotFound,
		},
		{
			name: "CollapseAll", method: http.MethodPost, path: "/collapse", status: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var v viewResponse
				mustDecode(t, body, &v)
				if len(v.Rows) != 1 {
					t.Errorf("rows = %d, want 1", len(v.Rows))
				}
			},
		},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := "/api/sessions/" + createSample(t, ts)
			req, err := http.NewRequest(tt.method, ts.URL+base+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestEmptyTreeActions(t *testing.T) {
	ts := newTestServer(t)
	var v viewResponse
	do(t, ts, http.MethodPost, "/api/sessions", "", &v)
	base := "/api/sessions/" + v.ID

	for _, path := range []string{"/search", "/zoom/in", "/nodes/node-0/toggle"} {
		var e errorResponse
		resp := do(t, ts, http.MethodPost, base+path, `{"query":"x"}`, &e)
		if resp.StatusCode != http.StatusConflict || e.Code != errors.ErrCodeEmptyTree {
			t.Errorf("%s: status = %d, body = %+v", path, resp.StatusCode, e)
		}
	}

	var e errorResponse
	resp := do(t, ts, http.MethodGet, base+"/export/json", "", &e)
	if resp.StatusCode != http.StatusConflict || e.Code != errors.ErrCodeEmptyTree {
		t.Errorf("export: status = %d, body = %+v", resp.StatusCode, e)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + createSample(t, ts)

	resp, err := ts.Client().Get(ts.URL + base + "/export/json")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != session.SampleJSON {
		t.Error("json export should return the source text")
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "tree-data.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	resp, err = ts.Client().Get(ts.URL + base + "/export/png")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.Header.Get("Content-Type") != "image/png" || !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Errorf("png export: type %q, %d bytes", resp.Header.Get("Content-Type"), len(body))
	}

	var e errorResponse
	r := do(t, ts, http.MethodGet, base+"/export/gif", "", &e)
	if r.StatusCode != http.StatusBadRequest || e.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("gif: status = %d, body = %+v", r.StatusCode, e)
	}
}

func TestBodyLimit(t *testing.T) {
	srv := New(Options{Logger: log.New(io.Discard), MaxBodyBytes: 16})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var v viewResponse
	do(t, ts, http.MethodPost, "/api/sessions", "", &v)

	var e errorResponse
	resp := do(t, ts, http.MethodPut, "/api/sessions/"+v.ID+"/document", `{"key":"a value longer than sixteen bytes"}`, &e)
	if resp.StatusCode != http.StatusBadRequest || e.Code != errors.ErrCodeInvalidInput {
		t.Errorf("status = %d, body = %+v", resp.StatusCode, e)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	routes []string
	errors int
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, method+" "+route)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) { h.errors++ }

func TestHTTPHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	id := createSample(t, ts)
	do(t, ts, http.MethodPost, "/api/sessions/"+id+"/zoom/sideways", "", nil)

	want := []string{
		"POST /api/sessions",
		"POST /api/sessions/{id}/zoom/{action}",
	}
	if len(h.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", h.routes, want)
	}
	for i := range want {
		if got := strings.TrimSuffix(h.routes[i], "/"); got != want[i] {
			t.Errorf("route %d = %q, want %q", i, got, want[i])
		}
	}
	if h.errors != 1 {
		t.Errorf("errors = %d, want 1", h.errors)
	}
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

func TestOversizeDocuments(t *testing.T) {
	ts := newTestServer(t)

	var v viewResponse
	do(t, ts, http.MethodPost, "/api/sessions", "", &v)
	base := "/api/sessions/" + v.ID

	var e errorResponse
	deep := strings.Repeat("[", 5000) + strings.Repeat("]", 5000)
	resp := do(t, ts, http.MethodPut, base+"/document", deep, &e)
	if resp.StatusCode != http.StatusUnprocessableEntity || e.Code != errors.ErrCodeInvalidJSON {
		t.Errorf("deep document: status = %d, body = %+v", resp.StatusCode, e)
	}

	wide := "[" + strings.Repeat("0,", 999) + "0]"
	resp = do(t, ts, http.MethodPut, base+"/document", wide, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wide document: status = %d", resp.StatusCode)
	}
	e = errorResponse{}
	resp = do(t, ts, http.MethodGet, base+"/export/png", "", &e)
	if resp.StatusCode != http.StatusRequestEntityTooLarge || e.Code != errors.ErrCodeTooLarge {
		t.Errorf("wide png: status = %d, body = %+v", resp.StatusCode, e)
	}
}
