package ntjs

import (
	"context"
	"net/http"

	"github.com/syntax-framework/ntjs/directives"
	"github.com/syntax-framework/ntjs/script"
	"github.com/syntax-framework/ntjs/sht"
)

var _ directives.AssetUser = (*Factory)(nil)

var globalDirectives = &sht.Directives{}
var globalTextDirectives = &sht.TextDirectives{}

// Register a global directive
func Register(directive *sht.Directive) {
	globalDirectives.Add(directive)
}

// RegisterText a global text directive
func RegisterText(directive *sht.TextDirective) {
	globalTextDirectives.Add(directive)
}

// New creates a TemplateSystem with the global directives, including the ntjs bridge
func New(loader func(filepath string) (string, error)) *sht.TemplateSystem {
	return sht.NewTemplateSystem(loader, globalDirectives, globalTextDirectives)
}

func init() {
	for _, directive := range directives.Directives() {
		Register(directive)
	}
	for _, directive := range directives.TextDirectives() {
		RegisterText(directive)
	}
}

// Provider creates the factory of each request from the shared catalog and host services
type Provider struct {
	Catalog    *script.Catalog
	Translator Translator
	Router     Router
	Options    Options
}

func NewProvider(catalog *script.Catalog, translator Translator, router Router, options Options) *Provider {
	if catalog == nil {
		catalog = script.NewCatalog()
	}
	return &Provider{
		Catalog:    catalog,
		Translator: translator,
		Router:     router,
		Options:    options,
	}
}

// NewFactory a factory for a request. An empty baseURL uses the configured one.
func (p *Provider) NewFactory(baseURL string) *Factory {
	options := p.Options
	if baseURL != "" {
		options.BaseURL = baseURL
	}
	return NewFactory(p.Catalog, p.Translator, p.Router, options)
}

// NewScope a render scope whose directives use the factory
func NewScope(factory *Factory) *sht.Scope {
	scope := sht.NewRootScope()
	directives.WithAssetUser(scope, factory)
	return scope
}

// Render executes the template with the factory of the request
func Render(compiled *sht.Compiled, factory *Factory, values map[string]interface{}) *sht.Rendered {
	scope := NewScope(factory)
	for key, value := range values {
		scope.Set(key, value)
	}
	return compiled.Exec(scope)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const factoryKey contextKey = "ntjs.factory"

// WithFactory stores the factory in the context
func WithFactory(ctx context.Context, factory *Factory) context.Context {
	return context.WithValue(ctx, factoryKey, factory)
}

// FactoryFromContext the factory of the request, nil when the middleware didn't run
func FactoryFromContext(ctx context.Context) *Factory {
	factory, _ := ctx.Value(factoryKey).(*Factory)
	return factory
}

// BaseURLHeader optional request header with the base path of the application behind a proxy
const BaseURLHeader = "X-Forwarded-Prefix"

// Middleware creates a new factory for each request
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		factory := p.NewFactory(r.Header.Get(BaseURLHeader))
		next.ServeHTTP(w, r.WithContext(WithFactory(r.Context(), factory)))
	})
}
