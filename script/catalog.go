package script

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/syntax-framework/ntjs/cmn"
)

var errorCdnParse = cmn.Err(
	"script.cdn.parse",
	"The CDN catalog could not be parsed.", "File: %s", "Cause: %s",
)

var errorPackagesParse = cmn.Err(
	"script.packages.parse",
	"The package catalog could not be parsed.", "File: %s", "Cause: %s",
)

var errorPackageId = cmn.Err(
	"script.packages.id",
	"Every package must have an id.", "File: %s", "Index: %d",
)

// Catalog the packages and CDN entries shared by all requests. Safe for concurrent use, the watcher replaces
// its content while requests are being served.
type Catalog struct {
	mu       sync.RWMutex
	packages map[string]*Package
	cdn      map[string]*CDN
}

type packagesFile struct {
	Packages []*Package `yaml:"packages"`
}

func NewCatalog() *Catalog {
	return &Catalog{
		packages: map[string]*Package{},
		cdn:      map[string]*CDN{},
	}
}

// LoadCatalog creates a catalog from the package (YAML) and CDN (JSON) files. Empty names are skipped.
func LoadCatalog(packagesFilepath, cdnFilepath string) (*Catalog, error) {
	c := NewCatalog()
	if packagesFilepath != "" {
		data, err := os.ReadFile(packagesFilepath)
		if err != nil {
			return nil, fmt.Errorf("script: reading packages: %w", err)
		}
		if err = c.LoadPackages(data, packagesFilepath); err != nil {
			return nil, err
		}
	}
	if cdnFilepath != "" {
		data, err := os.ReadFile(cdnFilepath)
		if err != nil {
			return nil, fmt.Errorf("script: reading cdn: %w", err)
		}
		if err = c.LoadCDN(data, cdnFilepath); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadPackages adds the packages declared in a YAML document ("packages: [...]")
func (c *Catalog) LoadPackages(data []byte, filepath string) error {
	var file packagesFile
	if err := cmn.UnmarshalYAML(data, &file); err != nil {
		return errorPackagesParse(filepath, err)
	}
	for i, pkg := range file.Packages {
		if pkg == nil || pkg.ID == "" {
			return errorPackageId(filepath, i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pkg := range file.Packages {
		c.packages[pkg.ID] = pkg
	}
	return nil
}

// LoadCDN adds the CDN entries of a JSON document, keyed by repository
func (c *Catalog) LoadCDN(data []byte, filepath string) error {
	entries := map[string]*CDN{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return errorCdnParse(filepath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for repository, entry := range entries {
		if entry != nil {
			c.cdn[repository] = entry
		}
	}
	return nil
}

// Replace swaps the content of this catalog by the content of other
func (c *Catalog) Replace(other *Catalog) {
	other.mu.RLock()
	packages, cdn := other.packages, other.cdn
	other.mu.RUnlock()

	c.mu.Lock()
	c.packages, c.cdn = packages, cdn
	c.mu.Unlock()
}

// Package get a package by id
func (c *Catalog) Package(id string) (*Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pkg, exists := c.packages[id]
	return pkg, exists
}

// CDN get the CDN entry of a repository
func (c *Catalog) CDN(repository string) (*CDN, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.cdn[repository]
	return entry, exists
}

// IDs sorted ids of all packages
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.packages))
	for id := range c.packages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
