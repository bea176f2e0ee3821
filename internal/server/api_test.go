package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/sitepulse/internal/store"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestListWebsites(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{}, "https://www.google.com", "https://www.github.com")

	rec := do(t, srv.Handler(), http.MethodGet, "/websites", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"https://www.google.com", "https://www.github.com"}, decodeBody[[]string](t, rec))
}

func TestListWebsites_EmptyIsArray(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodGet, "/websites", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAddWebsite(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantURL    string
		wantSubstr string
	}{
		{name: "valid", body: `{"url":"HTTPS://Example.com/"}`, wantCode: http.StatusCreated, wantURL: "https://example.com"},
		{name: "duplicate of seed", body: `{"url":"https://www.google.com"}`, wantCode: http.StatusBadRequest, wantSubstr: "already registered"},
		{name: "invalid url", body: `{"url":"not a url"}`, wantCode: http.StatusBadRequest, wantSubstr: "invalid url"},
		{name: "missing url", body: `{}`, wantCode: http.StatusBadRequest, wantSubstr: "url is required"},
		{name: "malformed body", body: `{"url":`, wantCode: http.StatusBadRequest, wantSubstr: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reg, _ := newTestServer(t, Config{}, "https://www.google.com")

			rec := do(t, srv.Handler(), http.MethodPost, "/websites", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantURL != "" {
				assert.Equal(t, tt.wantURL, decodeBody[websiteResponse](t, rec).URL)
				assert.Equal(t, []string{"https://www.google.com", tt.wantURL}, reg.List())
				return
			}
			assert.Contains(t, decodeBody[errorResponse](t, rec).Message, tt.wantSubstr)
			assert.Equal(t, []string{"https://www.google.com"}, reg.List(), "failed add must not mutate")
		})
	}
}

func TestRemoveWebsite(t *testing.T) {
	srv, reg, _ := newTestServer(t, Config{}, "https://a.test", "https://b.test")

	rec := do(t, srv.Handler(), http.MethodDelete, "/websites", `{"url":"https://A.test/"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://a.test", decodeBody[websiteResponse](t, rec).URL)
	assert.Equal(t, []string{"https://b.test"}, reg.List())

	rec = do(t, srv.Handler(), http.MethodDelete, "/websites", `{"url":"https://a.test"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateWebsite(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantList []string
	}{
		{name: "valid", path: "/websites/1", body: `{"url":"https://c.test"}`, wantCode: http.StatusOK, wantList: []string{"https://a.test", "https://c.test"}},
		{name: "out of range", path: "/websites/5", body: `{"url":"https://c.test"}`, wantCode: http.StatusNotFound},
		{name: "negative", path: "/websites/-1", body: `{"url":"https://c.test"}`, wantCode: http.StatusNotFound},
		{name: "non numeric index", path: "/websites/first", body: `{"url":"https://c.test"}`, wantCode: http.StatusBadRequest},
		{name: "invalid url", path: "/websites/0", body: `{"url":"ftp://c.test"}`, wantCode: http.StatusBadRequest},
		{name: "duplicate", path: "/websites/0", body: `{"url":"https://b.test"}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reg, _ := newTestServer(t, Config{}, "https://a.test", "https://b.test")

			rec := do(t, srv.Handler(), http.MethodPut, tt.path, tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			want := tt.wantList
			if want == nil {
				want = []string{"https://a.test", "https://b.test"}
			}
			assert.Equal(t, want, reg.List())
		})
	}
}

func TestReorderWebsites(t *testing.T) {
	srv, reg, _ := newTestServer(t, Config{}, "https://a.test", "https://b.test", "https://c.test")

	rec := do(t, srv.Handler(), http.MethodPost, "/websites/reorder", `{"from":2,"to":0}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	want := []string{"https://c.test", "https://a.test", "https://b.test"}
	assert.Equal(t, want, decodeBody[[]string](t, rec))
	assert.Equal(t, want, reg.List())

	rec = do(t, srv.Handler(), http.MethodPost, "/websites/reorder", `{"from":0,"to":9}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv.Handler(), http.MethodPost, "/websites/reorder", `{"from":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus(t *testing.T) {
	srv, reg, _ := newTestServer(t, Config{}, "https://a.test", "https://b.test")
	reg.Metrics().RecordOutcome("https://a.test", store.ProbeOutcome{Success: true, ElapsedMs: 120})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `[
		{"url":"https://a.test","history":["healthy"],"responseTimes":[120],"healthStatus":"healthy"},
		{"url":"https://b.test","history":[],"responseTimes":[],"healthStatus":"unknown"}
	]`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodPatch, "/websites", `{"url":"https://a.test"}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("sitepulse_endpoints 2\n"))
	})
	srv, _, _ := newTestServer(t, Config{Metrics: metrics})

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sitepulse_endpoints 2")
}

func TestMetricsRoute_NotMountedWithoutHandler(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
