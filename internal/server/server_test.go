package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/syntax-framework/ntjs"
	"github.com/syntax-framework/ntjs/script"
)

const testPackages = `
packages:
  - id: JQuery
    repository: jquery
    javascripts: [jquery.min.js]
    priority: first
`

func testServer(t *testing.T, templates map[string]string) (*Server, string) {
	dir := t.TempDir()
	tplDir := filepath.Join(dir, "templates")
	staticDir := filepath.Join(dir, "static")
	for name, content := range templates {
		file := filepath.Join(tplDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
		require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "jquery"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "jquery", "jquery.min.js"), []byte("/*! jquery */"), 0644))

	catalog := script.NewCatalog()
	require.NoError(t, catalog.LoadPackages([]byte(testPackages), "packages.yaml"))

	provider := ntjs.NewProvider(catalog, nil, nil, ntjs.Options{})
	return New(provider, Config{Templates: tplDir, Static: staticDir}), tplDir
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_Render(t *testing.T) {
	s, _ := testServer(t, map[string]string{
		"index.html": `<html><head><ntjs-styles/></head><body>` +
			`<h1>#{path}</h1>` +
			`<link rel="stylesheet" href="/css/site.css">` +
			`<ntjs script="Page" depends="JQuery">start();</ntjs>` +
			`<ntjs-scripts/></body></html>`,
	})

	rr := get(t, s.Handler(), "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	require.Contains(t, body, `<h1>/</h1>`)
	require.Contains(t, body, `<link rel="stylesheet" href="/css/site.css">`)
	require.Contains(t, body, `<script src="/cdn/jquery/jquery.min.js"></script>`)
	require.Contains(t, body, `start()`)
	require.NotContains(t, body, `<ntjs`)

	require.Contains(t, rr.Header().Get("Server-Timing"), "compile;dur=")
	require.Contains(t, rr.Header().Get("Server-Timing"), "render;dur=")
	require.Equal(t, "</css/site.css>; rel=preload; as=style", rr.Header().Get("Link"))
	require.NotEmpty(t, rr.Header().Get(RequestIDHeader))
}

func TestServer_Cache(t *testing.T) {
	s, dir := testServer(t, map[string]string{"about.html": `<p>one</p>`})
	h := s.Handler()

	rr := get(t, h, "/about", nil)
	require.Equal(t, "<p>one</p>", rr.Body.String())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.html"), []byte(`<p>two</p>`), 0644))

	rr = get(t, h, "/about", nil)
	require.Equal(t, "<p>one</p>", rr.Body.String(), "compiled template must come from the cache")
	require.NotContains(t, rr.Header().Get("Server-Timing"), "compile")

	s.Flush()
	rr = get(t, h, "/about", nil)
	require.Equal(t, "<p>two</p>", rr.Body.String())
}

func TestServer_BaseURL_Header(t *testing.T) {
	s, _ := testServer(t, map[string]string{
		"docs/index.html": `<div><ntjs script="Page" depends="JQuery"></ntjs><ntjs-scripts/></div>`,
	})

	rr := get(t, s.Handler(), "/docs/", map[string]string{ntjs.BaseURLHeader: "/app"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `<script src="/app/cdn/jquery/jquery.min.js"></script>`)
}

func TestServer_NotFound(t *testing.T) {
	s, _ := testServer(t, nil)
	h := s.Handler()

	require.Equal(t, http.StatusNotFound, get(t, h, "/missing", nil).Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/../../etc/passwd", nil).Code)
}

func TestServer_Errors(t *testing.T) {
	s, _ := testServer(t, map[string]string{
		"broken.html":  `<div><ntjs depends="A">var a;</ntjs></div>`,
		"unknown.html": `<div><ntjs script="Page" depends="Missing"></ntjs></div>`,
	})
	h := s.Handler()

	require.Equal(t, http.StatusInternalServerError, get(t, h, "/broken", nil).Code)
	require.Equal(t, http.StatusInternalServerError, get(t, h, "/unknown", nil).Code)
}

func TestServer_Static(t *testing.T) {
	s, _ := testServer(t, nil)

	rr := get(t, s.Handler(), "/cdn/jquery/jquery.min.js", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "/*! jquery */", rr.Body.String())
}

func TestTemplateName(t *testing.T) {
	tests := map[string]string{
		"":            "index.html",
		"/":           "index.html",
		"about":       "about.html",
		"/docs/":      "docs/index.html",
		"docs/intro":  "docs/intro.html",
		"page.html":   "page.html",
		"/a/b/c.html": "a/b/c.html",
	}
	for input, expected := range tests {
		require.Equal(t, expected, TemplateName(input), "TemplateName(%q)", input)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rr := get(t, h, "/", nil)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	get(t, h, "/", map[string]string{RequestIDHeader: "abc"})
	require.Equal(t, "abc", seen)
}

func TestLogger(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := get(t, h, "/", nil)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestPreloadLinks_Empty(t *testing.T) {
	require.True(t, strings.TrimSpace(preloadLinks(nil)) == "")
}
