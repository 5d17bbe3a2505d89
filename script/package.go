package script

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/syntax-framework/ntjs/cmn"
)

// Package a client side library known by the catalog (ex. JQuery, Bootstrap)
type Package struct {
	ID          string            `yaml:"id"`
	Repository  string            `yaml:"repository"`
	Dirs        map[string]string `yaml:"dirs"` // directory by asset type ("js", "css")
	Javascripts []string          `yaml:"javascripts"`
	Stylesheets []string          `yaml:"stylesheets"`
	Depends     []string          `yaml:"depends"`
	Priority    string            `yaml:"priority"`
	Init        string            `yaml:"init"` // inline code emitted whenever the package is used
}

// GetRepository the repository directory of the package. Defaults to the kebab case of the last segment
// of the id, "Form.BootstrapIcons" -> "bootstrap-icons"
func (p *Package) GetRepository() string {
	if p.Repository != "" {
		return p.Repository
	}
	id := p.ID
	if i := strings.LastIndexAny(id, "./\\"); i >= 0 {
		id = id[i+1:]
	}
	return strcase.ToKebab(id)
}

// GetDirName the directory of the asset type inside the repository, can be empty
func (p *Package) GetDirName(kind cmn.AssetType) string {
	if p.Dirs == nil {
		return ""
	}
	return p.Dirs[kind.String()]
}

// GetPriority bucket priority of the package assets
func (p *Package) GetPriority() cmn.Priority {
	return cmn.ParsePriority(p.Priority)
}

// Files the package files of the given type
func (p *Package) Files(kind cmn.AssetType) []string {
	if kind == cmn.Stylesheet {
		return p.Stylesheets
	}
	return p.Javascripts
}

// CDN where the files of a repository are served from when CDN mode is enabled
type CDN struct {
	Version string            `json:"version"`
	URL     string            `json:"url"`   // ex. "https://cdn.jsdelivr.net/npm/bootstrap@%VER%/dist"
	Paths   map[string]string `json:"paths"` // sub path by asset type ("js", "css")
}

// AssetURL the CDN url of a file
func (c *CDN) AssetURL(name string, kind cmn.AssetType) string {
	base := strings.ReplaceAll(c.URL, "%VER%", c.Version)
	var dir string
	if c.Paths != nil {
		dir = c.Paths[kind.String()]
	}
	return cmn.JoinURL(base, dir, name)
}
