package ntjs

import (
	"log/slog"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/script"
)

// Translator host translation service
type Translator interface {
	Trans(text string, vars map[string]any, domain string) string
}

// Router host named route service
type Router interface {
	URL(name string, options map[string]any) string
}

// BootstrapScript a script declared when the factory is created
type BootstrapScript struct {
	Name    string   `mapstructure:"name"`
	Depends []string `mapstructure:"depends"`
}

// Options of the factories created for each request
type Options struct {
	BaseURL     string            // base url path of the application, root of the generated asset urls
	AssetPrefix string            // path of the local package files, default "cdn"
	Namespace   string            // prefix of the ids given by Factory.Resolve, default "App/Script"
	Debug       bool              // readable inline scripts
	UseCDN      bool              // package files from the CDN catalog
	Bootstrap   []BootstrapScript // scripts always included in the page
}

// DefaultOptions options with the default bootstrap scripts
func DefaultOptions() Options {
	return Options{
		AssetPrefix: "cdn",
		Namespace:   "App/Script",
		Debug:       true,
		Bootstrap: []BootstrapScript{
			{Name: "JQuery", Depends: []string{"Bootstrap", "BootstrapIcons"}},
		},
	}
}

var _ script.Backend = (*Factory)(nil)
var _ script.Resolver = (*Factory)(nil)

// Factory collects the stylesheets, javascripts and scripts used while rendering a single request. Not safe for
// concurrent use.
type Factory struct {
	options    Options
	manager    *script.Manager
	loader     *script.Loader
	translator Translator
	router     Router
	css        cmn.AssetBucket
	js         cmn.AssetBucket
	script     string
	scriptErr  error
	scriptDone bool
}

// NewFactory creates the factory and its script manager. The factory is the backend and a resolver of the manager.
func NewFactory(catalog *script.Catalog, translator Translator, router Router, options Options) *Factory {
	if options.AssetPrefix == "" {
		options.AssetPrefix = "cdn"
	}
	if options.Namespace == "" {
		options.Namespace = "App/Script"
	}

	f := &Factory{
		options:    options,
		manager:    script.NewManager(catalog),
		loader:     &script.Loader{},
		translator: translator,
		router:     router,
	}

	f.manager.SetBackend(f)
	f.manager.AddResolver(f)
	f.manager.SetDebug(options.Debug)
	f.manager.UseCDN(options.UseCDN)

	for _, bootstrap := range options.Bootstrap {
		s := f.manager.Create(bootstrap.Name)
		if len(bootstrap.Depends) > 0 {
			s.DependsOn(bootstrap.Depends...)
		}
		s.Include()
	}

	return f
}

// Manager the script manager of this factory
func (f *Factory) Manager() *script.Manager {
	return f.manager
}

// AddAsset registers the asset once per type, in the bucket of the priority
func (f *Factory) AddAsset(id string, kind cmn.AssetType, priority cmn.Priority) {
	if kind == cmn.Stylesheet {
		f.css.Add(id, priority)
	} else {
		f.js.Add(id, priority)
	}
}

func (f *Factory) UseStylesheet(id string) {
	f.AddAsset(id, cmn.Stylesheet, cmn.PriorityDefault)
}

func (f *Factory) UseJavascript(id string) {
	f.AddAsset(id, cmn.Javascript, cmn.PriorityDefault)
}

// Stylesheets first then default stylesheets, in registration order
func (f *Factory) Stylesheets() []string {
	return f.css.List()
}

// Javascripts first then default javascripts, in registration order
func (f *Factory) Javascripts() []string {
	return f.js.List()
}

// GenerateAsset url of a package file served by the application: <base>/<prefix>/<repository>/<type dir>/<name>
func (f *Factory) GenerateAsset(pkg *script.Package, name string, kind cmn.AssetType) string {
	base := cmn.JoinURL(f.options.BaseURL, "/"+f.options.AssetPrefix)
	return cmn.ComposeAssetPath(base, pkg.GetRepository(), pkg.GetDirName(kind), name)
}

// Resolve the id of the package of an application script, "Form.Date" -> "App/Script/Form/Date"
func (f *Factory) Resolve(dep string) string {
	return cmn.JoinURL(f.options.Namespace, strings.ReplaceAll(dep, ".", "/"))
}

// UseScript declares a script included in the page
func (f *Factory) UseScript(name string, deps []string, content string) {
	s := f.manager.Create(name).Include()
	if len(deps) > 0 {
		s.DependsOn(deps...)
	}
	if content != "" {
		s.Add(content)
	}
}

// DeclareScript UseScript with the arguments in any of the accepted orders, see ScriptArgs
func (f *Factory) DeclareScript(args ...any) error {
	name, deps, content, err := ScriptArgs(args...)
	if err != nil {
		return err
	}
	f.UseScript(name, deps, content)
	return nil
}

// Script the inline code of the page. Computed once, the package assets are registered by the first call.
func (f *Factory) Script() (string, error) {
	if !f.scriptDone {
		f.script, f.scriptErr = f.manager.Output()
		f.scriptDone = true
	}
	return f.script, f.scriptErr
}

// ScriptAutoload code that loads the stylesheets and javascripts of the page from the browser
func (f *Factory) ScriptAutoload() string {
	if _, err := f.Script(); err != nil {
		slog.Warn("script emission failed", "error", err)
	}
	for _, css := range f.Stylesheets() {
		f.loader.AddStylesheet(css)
	}
	for _, js := range f.Javascripts() {
		f.loader.AddJavascript(js)
	}
	return f.loader.Autoload()
}

func (f *Factory) Trans(text string, vars map[string]any, domain string) string {
	if f.translator == nil {
		return text
	}
	return f.translator.Trans(text, vars, domain)
}

func (f *Factory) URL(name string, options map[string]any) string {
	if f.router == nil {
		return name
	}
	return f.router.URL(name, options)
}
