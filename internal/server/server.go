// Package server is the HTTP host of the ntjs templates: each request gets its own factory, templates are
// compiled once and cached, package files are served from the static directory.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"github.com/syntax-framework/ntjs"
	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

// Config of the server
type Config struct {
	Templates   string        // directory of the .html templates
	Static      string        // directory served under the asset prefix
	AssetPrefix string        // url path of the static files, "cdn"
	CacheTTL    time.Duration // compiled templates lifetime, never expire when <= 0
}

// Server renders the templates of a directory
type Server struct {
	provider *ntjs.Provider
	system   *sht.TemplateSystem
	cache    *gocache.Cache
	cfg      Config
}

func New(provider *ntjs.Provider, cfg Config) *Server {
	if cfg.AssetPrefix == "" {
		cfg.AssetPrefix = provider.Options.AssetPrefix
	}
	if cfg.AssetPrefix == "" {
		cfg.AssetPrefix = "cdn"
	}

	expiration, cleanup := cfg.CacheTTL, 2*cfg.CacheTTL
	if cfg.CacheTTL <= 0 {
		expiration, cleanup = gocache.NoExpiration, 0
	}

	s := &Server{
		provider: provider,
		cache:    gocache.New(expiration, cleanup),
		cfg:      cfg,
	}
	s.system = ntjs.New(s.loadTemplate)
	return s
}

// System the template system of the server, to register custom directives
func (s *Server) System() *sht.TemplateSystem {
	return s.system
}

// loadTemplate reads a template file, names can't leave the templates directory
func (s *Server) loadTemplate(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	content, err := os.ReadFile(filepath.Join(s.cfg.Templates, filepath.FromSlash(clean)))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Flush removes all compiled templates from the cache
func (s *Server) Flush() {
	s.cache.Flush()
	slog.Debug("template cache flushed")
}

// Compile the template, from the cache when already compiled. The returned timing has the compile metric when the
// template was compiled by this call.
func (s *Server) Compile(name string) (*sht.Compiled, *cmn.ServerTiming, error) {
	if cached, found := s.cache.Get(name); found {
		slog.Debug("template cache hit", "template", name)
		return cached.(*sht.Compiled), &cmn.ServerTiming{}, nil
	}

	compiled, ctx, err := s.system.Compile(name)
	if err != nil {
		return nil, nil, err
	}
	s.cache.SetDefault(name, compiled)
	return compiled, ctx.Timing, nil
}

// Handler the router of the server
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(Logger)

	prefix := "/" + strings.Trim(s.cfg.AssetPrefix, "/")
	if s.cfg.Static != "" {
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.cfg.Static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.provider.Middleware)
		r.Get("/*", s.render)
	})

	return r
}

// TemplateName the template of an url path: "/" -> "index.html", "/docs/" -> "docs/index.html",
// "/about" -> "about.html"
func TemplateName(urlPath string) string {
	name := strings.Trim(urlPath, "/")
	if name == "" {
		return "index.html"
	}
	if strings.HasSuffix(urlPath, "/") {
		name += "/index"
	}
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	return name
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())
	name := TemplateName(chi.URLParam(r, "*"))

	compiled, timing, err := s.Compile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.Error("template compile failed", "template", name, "error", err, "request_id", requestID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	factory := ntjs.FactoryFromContext(r.Context())
	if factory == nil {
		factory = s.provider.NewFactory("")
	}

	query := map[string]interface{}{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}
	values := map[string]interface{}{
		"path":       r.URL.Path,
		"query":      query,
		"request_id": requestID,
	}

	var body string
	_ = timing.Measure("render", "Template render", func() error {
		body = ntjs.Render(compiled, factory, values).String()
		return nil
	})

	if _, err = factory.Script(); err != nil {
		slog.Error("script emission failed", "template", name, "error", err, "request_id", requestID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Server-Timing", timing.String())
	if link := preloadLinks(compiled.Assets); link != "" {
		header.Set("Link", link)
	}
	if _, err = w.Write([]byte(body)); err != nil {
		slog.Warn("response write failed", "template", name, "error", err, "request_id", requestID)
	}
}

// preloadLinks `Link` header value of the assets known at compile time
func preloadLinks(assets []*cmn.Asset) string {
	var links []string
	for _, asset := range assets {
		if asset.Url == "" {
			continue
		}
		as := "script"
		if asset.Type == cmn.Stylesheet {
			as = "style"
		}
		links = append(links, fmt.Sprintf("<%s>; rel=preload; as=%s", asset.Url, as))
	}
	return strings.Join(links, ", ")
}
