package web

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/extresolve/resolve"
)

func newTestEngine(host resolve.DefaultResolver, r *resolve.Resolver) http.Handler {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(l, Options{
		Routes: []func(Router){
			ResolveRoutes(func() *resolve.Resolver { return r }, host, l),
		},
	})
}

func postResolve(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/resolve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestResolveRoutes(t *testing.T) {
	host := resolve.NewFileResolver(fstest.MapFS{
		"srv/app/main.js":          {Data: []byte("")},
		"srv/app/util.js":          {Data: []byte("")},
		"srv/app/esm/index.js":     {Data: []byte("")},
		"srv/app/esm/package.json": {Data: []byte(`{"type":"module"}`)},
	})
	h := newTestEngine(host, resolve.New())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantURL    string
		wantFormat string
	}{
		{
			name:       "extensionless with cache busting",
			body:       `{"specifier":"./util?v=3","parentURL":"file:///srv/app/main.js"}`,
			wantStatus: http.StatusOK,
			wantURL:    "file:///srv/app/util.js?v=3",
			wantFormat: "commonjs",
		},
		{
			name:       "directory index keeps package format",
			body:       `{"specifier":"./esm/","parentURL":"file:///srv/app/main.js"}`,
			wantStatus: http.StatusOK,
			wantURL:    "file:///srv/app/esm/index.js",
			wantFormat: "module",
		},
		{
			name:       "builtin passthrough",
			body:       `{"specifier":"node:fs"}`,
			wantStatus: http.StatusOK,
			wantURL:    "node:fs",
			wantFormat: "builtin",
		},
		{
			name:       "missing module",
			body:       `{"specifier":"./nope","parentURL":"file:///srv/app/main.js"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "specifier required",
			body:       `{"parentURL":"file:///srv/app/main.js"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := postResolve(t, h, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
				assert.EqualValues(t, tt.wantStatus, out["status"])
				return
			}
			assert.Equal(t, tt.wantURL, out["url"])
			assert.Equal(t, tt.wantFormat, out["format"])
		})
	}
}

func TestResolveRoutes_HostFailure(t *testing.T) {
	host := resolve.DefaultResolverFunc(func(context.Context, string) (resolve.Result, error) {
		return resolve.Result{}, fs.ErrPermission
	})
	h := newTestEngine(host, resolve.New())

	rec, out := postResolve(t, h, `{"specifier":"/etc/secret"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "resolution failed", out["detail"])
}

func TestEngine_RequestIDAndNoRoute(t *testing.T) {
	h := newTestEngine(resolve.NewFileResolver(fstest.MapFS{}), resolve.New())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36, "generated uuid")
}

func TestRecoveryProblem(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewEngine(l, Options{Routes: []func(Router){
		func(r Router) {
			r.GET("/panic", func(Ctx) { panic("boom") })
		},
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "unexpected server error")
}

func TestAccessLog_RecordsPanickedRequest(t *testing.T) {
	var logs bytes.Buffer
	l := slog.New(slog.NewTextHandler(&logs, nil))
	h := NewEngine(l, Options{Routes: []func(Router){
		func(r Router) {
			r.GET("/panic", func(Ctx) { panic("boom") })
		},
	}})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))

	out := logs.String()
	assert.Contains(t, out, "msg=panic")
	assert.Contains(t, out, "msg=http_access")
	assert.Contains(t, out, "status=500")
	assert.Contains(t, out, "path=/panic")
}
