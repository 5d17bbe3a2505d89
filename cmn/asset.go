package cmn

import (
	"strings"
)

// AssetType represents the resource types handled by ntjs
type AssetType uint

const (
	Javascript AssetType = iota
	Stylesheet
)

func (t AssetType) String() string {
	if t == Stylesheet {
		return "css"
	}
	return "js"
}

// ParseAssetType accepts "js", "javascript", "css" and "stylesheet"
func ParseAssetType(s string) (AssetType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "js", "javascript", "script":
		return Javascript, true
	case "css", "stylesheet", "style":
		return Stylesheet, true
	}
	return Javascript, false
}

// Priority is the bucket an asset is placed in. First assets are emitted before default ones.
type Priority uint8

const (
	PriorityDefault Priority = iota
	PriorityFirst
)

func (p Priority) String() string {
	if p == PriorityFirst {
		return "first"
	}
	return "default"
}

// ParsePriority anything other than "first" is the default priority
func ParsePriority(s string) Priority {
	if strings.EqualFold(strings.TrimSpace(s), "first") {
		return PriorityFirst
	}
	return PriorityDefault
}

// Asset a resource known at compile time, referenced by a template
type Asset struct {
	Content        []byte
	Name           string // Unique, non-conflicting name
	Size           int64
	Etag           string
	Url            string
	Type           AssetType
	Integrity      string // https://developer.mozilla.org/en-US/docs/Web/Security/Subresource_Integrity
	CrossOrigin    string
	ReferrerPolicy string
	Priority       Priority
}

// AssetBucket keeps the asset identifiers of a single kind in two ordered sequences ("first" and
// "default"). An identifier is present at most once across both sequences.
type AssetBucket struct {
	first IndexedSet[string]
	dflt  IndexedSet[string]
}

// Add registers the identifier in the sequence of the given priority. Returns false when the
// identifier was already registered, in any sequence.
func (b *AssetBucket) Add(id string, priority Priority) bool {
	if b.Contains(id) {
		return false
	}
	if priority == PriorityFirst {
		b.first.Add(id)
	} else {
		b.dflt.Add(id)
	}
	return true
}

// Contains checks both sequences
func (b *AssetBucket) Contains(id string) bool {
	return b.first.Contains(id) || b.dflt.Contains(id)
}

// Len number of identifiers in the bucket
func (b *AssetBucket) Len() int {
	return b.first.Len() + b.dflt.Len()
}

// List the "first" sequence followed by the "default" sequence, in insertion order
func (b *AssetBucket) List() []string {
	out := make([]string, 0, b.Len())
	out = append(out, b.first.ToArray()...)
	return append(out, b.dflt.ToArray()...)
}
