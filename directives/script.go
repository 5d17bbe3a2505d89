package directives

import (
	"log/slog"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

// registerAssetElement registers the url of the element as an asset of the template. At render time the asset is
// handed to the AssetUser, and the element is removed from the markup.
func registerAssetElement(
	node *sht.Node, attrs *sht.Attributes, c *sht.Compiler, urlAttr string, kind cmn.AssetType,
) (*sht.DirectiveMethods, error) {
	src := strings.TrimSpace(attrs.Get(urlAttr))

	asset, err := c.RegisterAssetURL(src, kind)
	if err != nil {
		return nil, err
	}

	if value := attrs.Get("integrity"); value != "" {
		asset.Integrity = value
	}

	if value := attrs.Get("crossorigin"); value != "" {
		asset.CrossOrigin = value
	}

	if value := attrs.Get("referrerpolicy"); value != "" {
		asset.ReferrerPolicy = value
	}

	asset.Priority = cmn.ParsePriority(attrs.Get("priority"))

	// removes content to no longer be processed
	node.DetachChildren()

	assets := []string{asset.Name}
	element := node.Data

	return &sht.DirectiveMethods{
		Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
			if user, exists := GetAssetUser(scope); exists {
				user.AddAsset(asset.Url, asset.Type, asset.Priority)
			} else {
				slog.Warn("asset not registered", "url", asset.Url, "error", errorNoAssetUser(element))
			}
			return &sht.Rendered{Assets: assets}
		},
	}, nil
}

// Script `<script src="app.js" priority="first"></script>` the script is used by the page, it's written by
// <ntjs-scripts/>. Inline scripts are kept as they are.
var Script = &sht.Directive{
	Name:       "script",
	Restrict:   sht.ELEMENT,
	Priority:   990,
	Terminal:   true,
	Transclude: "element",
	Compile: func(node *sht.Node, attrs *sht.Attributes, c *sht.Compiler) (*sht.DirectiveMethods, error) {
		if attrs.Get("src") == "" {
			return &sht.DirectiveMethods{
				Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
					return transclude("", nil)
				},
			}, nil
		}
		return registerAssetElement(node, attrs, c, "src", cmn.Javascript)
	},
}

// Link `<link rel="stylesheet" href="app.css">` the stylesheet is used by the page, it's written by
// <ntjs-styles/>. Other links are kept as they are.
var Link = &sht.Directive{
	Name:       "link",
	Restrict:   sht.ELEMENT,
	Priority:   990,
	Terminal:   true,
	Transclude: "element",
	Compile: func(node *sht.Node, attrs *sht.Attributes, c *sht.Compiler) (*sht.DirectiveMethods, error) {
		if !strings.EqualFold(strings.TrimSpace(attrs.Get("rel")), "stylesheet") || attrs.Get("href") == "" {
			return &sht.DirectiveMethods{
				Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
					return transclude("", nil)
				},
			}, nil
		}
		return registerAssetElement(node, attrs, c, "href", cmn.Stylesheet)
	},
}
