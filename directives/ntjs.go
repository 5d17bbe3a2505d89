package directives

import (
	"log/slog"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
	"golang.org/x/net/html/atom"
)

// AssetUserKey key of the AssetUser in the render Context
const AssetUserKey = "ntjs.assets"

var errorNtjsScript = cmn.Err(
	"directive.ntjs.script",
	"The ntjs element requires the script attribute.", "Element: %s",
)

var errorNoAssetUser = cmn.Err(
	"directive.ntjs.context",
	"No asset user available in the render context.", "Directive: '%s'",
)

// AssetUser receives the assets and scripts declared by a template while it is rendered. One per request.
type AssetUser interface {
	AddAsset(id string, kind cmn.AssetType, priority cmn.Priority)
	UseStylesheet(id string)
	UseJavascript(id string)
	UseScript(name string, deps []string, content string)
	// DeclareScript accepts `name, content, deps` or `name, deps, content`
	DeclareScript(args ...any) error
	Stylesheets() []string
	Javascripts() []string
	Script() (string, error)
	ScriptAutoload() string
	Trans(text string, vars map[string]any, domain string) string
	URL(name string, options map[string]any) string
}

// WithAssetUser makes the AssetUser available to the directives rendered with this scope
func WithAssetUser(scope *sht.Scope, user AssetUser) {
	scope.Context.Set(AssetUserKey, user)
}

// GetAssetUser the AssetUser of the render
func GetAssetUser(scope *sht.Scope) (AssetUser, bool) {
	return sht.ContextValue[AssetUser](scope.Context, AssetUserKey)
}

// ParseDepends the comma separated list of dependency names. Names are trimmed and empty names are dropped, an
// empty string has no dependencies.
func ParseDepends(depends string) []string {
	out := []string{}
	for _, name := range strings.Split(depends, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// attrValue an attribute value that accepts interpolation
type attrValue struct {
	raw      string
	compiled *sht.Compiled
}

func newAttrValue(raw string) (*attrValue, error) {
	compiled, err := sht.InterpolateRaw(raw)
	if err != nil {
		return nil, err
	}
	return &attrValue{raw: raw, compiled: compiled}, nil
}

func (v *attrValue) Eval(scope *sht.Scope) string {
	if v.compiled == nil {
		return v.raw
	}
	return v.compiled.Exec(scope).String()
}

// wrapScriptContent keeps the content of the element as a single <script>, so that it is rendered without html
// escaping
func wrapScriptContent(node *sht.Node) {
	var element *sht.Node
	for _, child := range node.GetChildNodes() {
		switch child.Type {
		case sht.TextNode:
			if strings.TrimSpace(child.Data) == "" {
				continue
			}
		case sht.ElementNode:
			if element == nil && child.Data == "script" {
				element = child
				continue
			}
		case sht.CommentNode:
			continue
		}
		element = nil
		break
	}
	if element != nil {
		return
	}

	wrapper := &sht.Node{
		Type:       sht.ElementNode,
		Data:       "script",
		DataAtom:   atom.Script,
		Attributes: &sht.Attributes{},
		File:       node.File,
		Line:       node.Line,
		Column:     node.Column,
	}
	for _, child := range node.DetachChildren() {
		child.PrevSibling = nil
		child.NextSibling = nil
		wrapper.AppendChild(child)
	}
	node.AppendChild(wrapper)
}

// unwrapScript the content of a rendered <script> element
func unwrapScript(rendered string) string {
	content := strings.TrimSpace(rendered)
	if strings.HasPrefix(content, "<script") {
		if end := strings.IndexByte(content, '>'); end >= 0 {
			content = content[end+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "</script>")
	return strings.TrimSpace(content)
}

// NtjsElement `<ntjs script="Name" depends="A, B">code</ntjs>` declares an inline script. Renders nothing. The code
// is raw text, `<script>code</script>` is also accepted.
var NtjsElement = &sht.Directive{
	Name:       "ntjs",
	Restrict:   sht.ELEMENT,
	Priority:   1000,
	Terminal:   true,
	Transclude: true,
	RawText:    true,
	Compile: func(node *sht.Node, attrs *sht.Attributes, c *sht.Compiler) (*sht.DirectiveMethods, error) {
		if strings.TrimSpace(attrs.Get("script")) == "" {
			return nil, errorNtjsScript(node.DebugTag())
		}

		name, err := newAttrValue(attrs.Get("script"))
		if err != nil {
			return nil, err
		}
		depends, err := newAttrValue(attrs.Get("depends"))
		if err != nil {
			return nil, err
		}

		tag := node.DebugTag()
		wrapScriptContent(node)

		return &sht.DirectiveMethods{
			Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
				user, exists := GetAssetUser(scope)
				if !exists {
					slog.Warn("ntjs element ignored", "error", errorNoAssetUser("ntjs"), "element", tag)
					return nil
				}

				content := ""
				if transclude != nil {
					content = unwrapScript(transclude("", nil).String())
				}
				user.UseScript(name.Eval(scope), ParseDepends(depends.Eval(scope)), content)
				return nil
			},
		}, nil
	},
}

// assetOutputDirective an element replaced by content resolved after the whole page was rendered
func assetOutputDirective(name string, output func(user AssetUser) string) *sht.Directive {
	return &sht.Directive{
		Name:       name,
		Restrict:   sht.ELEMENT,
		Priority:   1000,
		Terminal:   true,
		Transclude: true,
		Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
			user, exists := GetAssetUser(scope)
			if !exists {
				slog.Warn("asset output ignored", "error", errorNoAssetUser(name))
				return nil
			}
			return sht.DeferredRendered(func() string {
				// emission registers the package assets of the scripts
				script, err := user.Script()
				if err != nil {
					slog.Warn("script emission failed", "directive", name, "error", err)
				}
				return output(&emitted{AssetUser: user, script: script})
			})
		},
	}
}

// emitted an AssetUser whose Script was already computed
type emitted struct {
	AssetUser
	script string
}

func (e *emitted) Script() (string, error) {
	return e.script, nil
}

// NtjsStyles `<ntjs-styles/>` link tags of the stylesheets used by the page
var NtjsStyles = assetOutputDirective("ntjs-styles", func(user AssetUser) string {
	var lines []string
	for _, href := range user.Stylesheets() {
		lines = append(lines, `<link rel="stylesheet" href="`+sht.HtmlEscape(href)+`">`)
	}
	return strings.Join(lines, "\n")
})

// NtjsScripts `<ntjs-scripts/>` script tags of the javascripts used by the page, followed by the inline scripts
var NtjsScripts = assetOutputDirective("ntjs-scripts", func(user AssetUser) string {
	var lines []string
	for _, src := range user.Javascripts() {
		lines = append(lines, `<script src="`+sht.HtmlEscape(src)+`"></script>`)
	}
	if script, _ := user.Script(); script != "" {
		lines = append(lines, "<script>\n"+script+"\n</script>")
	}
	return strings.Join(lines, "\n")
})

// NtjsAutoload `<ntjs-autoload/>` loads the assets of the page from the browser
var NtjsAutoload = assetOutputDirective("ntjs-autoload", func(user AssetUser) string {
	if autoload := user.ScriptAutoload(); autoload != "" {
		return "<script>\n" + autoload + "</script>"
	}
	return ""
})
