package script

import (
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/jsc"
)

var errorUnknownDependency = cmn.Err(
	"script.dependency.unknown",
	"The dependency is not a declared script or a known package.", "Dependency: %s", "Required by: %s",
)

var errorBackendMissing = cmn.Err(
	"script.backend",
	"A backend is required to emit package assets.", "Package: %s",
)

// Backend host services used by the manager
type Backend interface {
	Trans(text string, vars map[string]any, domain string) string
	URL(name string, options map[string]any) string
	AddAsset(id string, kind cmn.AssetType, priority cmn.Priority)
	GenerateAsset(pkg *Package, name string, kind cmn.AssetType) string
}

// Resolver maps a dependency name to the fully qualified id of a package
type Resolver interface {
	Resolve(dep string) string
}

// ResolverFunc use function as Resolver
type ResolverFunc func(dep string) string

func (f ResolverFunc) Resolve(dep string) string {
	return f(dep)
}

// Manager the scripts declared while rendering a single request. Not safe for concurrent use.
type Manager struct {
	catalog   *Catalog
	backend   Backend
	resolvers []Resolver
	debug     bool
	cdn       bool
	scripts   map[string]*Script
	order     []*Script
}

func NewManager(catalog *Catalog) *Manager {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Manager{
		catalog: catalog,
		scripts: map[string]*Script{},
	}
}

// Create get the script with the given name, creating it when it doesn't exist yet
func (m *Manager) Create(name string) *Script {
	if s, exists := m.scripts[name]; exists {
		return s
	}
	s := &Script{name: name}
	m.scripts[name] = s
	m.order = append(m.order, s)
	return s
}

// Get a declared script
func (m *Manager) Get(name string) (*Script, bool) {
	s, exists := m.scripts[name]
	return s, exists
}

func (m *Manager) AddResolver(resolver Resolver) {
	m.resolvers = append(m.resolvers, resolver)
}

func (m *Manager) SetBackend(backend Backend) {
	m.backend = backend
}

// SetDebug keeps the inline code readable and identified by the script name
func (m *Manager) SetDebug(debug bool) {
	m.debug = debug
}

// UseCDN package files are served from the CDN of their repository, when the catalog has one
func (m *Manager) UseCDN(cdn bool) {
	m.cdn = cdn
}

// Resolve finds the package of a dependency, trying the name itself and then the id given by each resolver
func (m *Manager) Resolve(dep string) (*Package, bool) {
	if pkg, exists := m.catalog.Package(dep); exists {
		return pkg, true
	}
	for _, resolver := range m.resolvers {
		if pkg, exists := m.catalog.Package(resolver.Resolve(dep)); exists {
			return pkg, true
		}
	}
	return nil, false
}

// scriptNode a script and/or a package in the dependency graph
type scriptNode struct {
	name    string
	script  *Script
	pkg     *Package
	depends []cmn.GNode
}

func (n *scriptNode) GetKey() string {
	return n.name
}

func (n *scriptNode) GetDependencies() []cmn.GNode {
	return n.depends
}

// node builds the graph node of a name and of all of its dependencies
func (m *Manager) node(name string, requiredBy string, nodes map[string]*scriptNode) (*scriptNode, error) {
	if n, exists := nodes[name]; exists {
		return n, nil
	}

	n := &scriptNode{name: name}
	n.script = m.scripts[name]
	if pkg, exists := m.Resolve(name); exists {
		n.pkg = pkg
	}
	if n.script == nil && n.pkg == nil {
		return nil, errorUnknownDependency(name, requiredBy)
	}
	nodes[name] = n

	var depends []string
	if n.pkg != nil {
		depends = append(depends, n.pkg.Depends...)
	}
	if n.script != nil {
		depends = append(depends, n.script.depends...)
	}

	seen := map[string]bool{}
	for _, dep := range depends {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		child, err := m.node(dep, name, nodes)
		if err != nil {
			return nil, err
		}
		n.depends = append(n.depends, child)
	}
	return n, nil
}

// Sorted the included scripts and all of their dependencies, dependencies first
func (m *Manager) Sorted() ([]string, error) {
	sorted, err := m.sorted()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sorted))
	for i, node := range sorted {
		names[i] = node.GetKey()
	}
	return names, nil
}

func (m *Manager) sorted() ([]cmn.GNode, error) {
	nodes := map[string]*scriptNode{}
	var roots []cmn.GNode
	for _, s := range m.order {
		if !s.included {
			continue
		}
		n, err := m.node(s.name, "", nodes)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return cmn.GraphResolveDependencies(roots)
}

// Output registers the package assets in the backend and returns the inline code of all included scripts and
// their dependencies, each one in its own function scope.
func (m *Manager) Output() (string, error) {
	sorted, err := m.sorted()
	if err != nil {
		return "", err
	}

	var blocks []string
	for _, gn := range sorted {
		n := gn.(*scriptNode)

		var content string
		if n.pkg != nil {
			if err = m.addPackageAssets(n.pkg); err != nil {
				return "", err
			}
			content = n.pkg.Init
		}
		if n.script != nil {
			if content != "" && n.script.content.Len() > 0 {
				content += "\n"
			}
			content += n.script.Content()
		}

		scoped, err := jsc.Scope(n.name, content, m.debug)
		if err != nil {
			return "", err
		}
		if scoped.Content != "" {
			blocks = append(blocks, scoped.Content)
		}
	}

	if m.debug {
		return strings.Join(blocks, "\n"), nil
	}
	return strings.Join(blocks, ""), nil
}

func (m *Manager) addPackageAssets(pkg *Package) error {
	if len(pkg.Stylesheets) == 0 && len(pkg.Javascripts) == 0 {
		return nil
	}
	if m.backend == nil {
		return errorBackendMissing(pkg.ID)
	}
	priority := pkg.GetPriority()
	for _, kind := range []cmn.AssetType{cmn.Stylesheet, cmn.Javascript} {
		for _, file := range pkg.Files(kind) {
			m.backend.AddAsset(m.AssetURL(pkg, file, kind), kind, priority)
		}
	}
	return nil
}

// AssetURL url of a package file, from the CDN when enabled and available, otherwise generated by the backend
func (m *Manager) AssetURL(pkg *Package, name string, kind cmn.AssetType) string {
	if m.cdn {
		if entry, exists := m.catalog.CDN(pkg.GetRepository()); exists {
			return entry.AssetURL(name, kind)
		}
	}
	if m.backend == nil {
		return cmn.ComposeAssetPath("", pkg.GetRepository(), pkg.GetDirName(kind), name)
	}
	return m.backend.GenerateAsset(pkg, name, kind)
}
