package directives

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

var errorTextArgs = cmn.Err(
	"directive.text.args",
	"Invalid arguments.", "Directive: '@%s'", "Expected: %s", "Received: %v",
)

// assetIds the identifiers in the argument list, sequences are flattened. Values that are not strings are logged and
// skipped.
func assetIds(args []interface{}) []string {
	var ids []string
	for _, arg := range args {
		switch value := arg.(type) {
		case string:
			if value = strings.TrimSpace(value); value != "" {
				ids = append(ids, value)
			}
		case []string:
			ids = append(ids, assetIds(toInterfaces(value))...)
		case []interface{}:
			ids = append(ids, assetIds(value)...)
		case nil:
		default:
			slog.Warn("asset id ignored, a string is expected", "value", value, "type", fmt.Sprintf("%T", value))
		}
	}
	return ids
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// toMap accepts nil and maps with string keys
func toMap(value interface{}) (map[string]any, bool) {
	switch m := value.(type) {
	case nil:
		return nil, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	}
	return nil, false
}

// assetTextDirective `@css('app.css')`, `@js(['a.js', 'b.js'])`
func assetTextDirective(name string, use func(user AssetUser, id string)) *sht.TextDirective {
	return &sht.TextDirective{
		Name: name,
		Exec: func(scope *sht.Scope, args []interface{}) (string, error) {
			user, exists := GetAssetUser(scope)
			if !exists {
				return "", errorNoAssetUser(name)
			}
			for _, id := range assetIds(args) {
				use(user, id)
			}
			return "", nil
		},
	}
}

// CssText `@css(expr)` the page uses the stylesheet
var CssText = assetTextDirective("css", func(user AssetUser, id string) {
	user.UseStylesheet(id)
})

// JsText `@js(expr)` the page uses the javascript
var JsText = assetTextDirective("js", func(user AssetUser, id string) {
	user.UseJavascript(id)
})

// NtjsText `@ntjs('Name', 'code', ['Dep'])` declares a script, the code and dependencies can be in any order
var NtjsText = &sht.TextDirective{
	Name: "ntjs",
	Exec: func(scope *sht.Scope, args []interface{}) (string, error) {
		user, exists := GetAssetUser(scope)
		if !exists {
			return "", errorNoAssetUser("ntjs")
		}
		return "", user.DeclareScript(args...)
	},
}

// TransText `@trans('key', {name: value}, 'domain')` translated text, escaped
var TransText = &sht.TextDirective{
	Name: "trans",
	Exec: func(scope *sht.Scope, args []interface{}) (string, error) {
		user, exists := GetAssetUser(scope)
		if !exists {
			return "", errorNoAssetUser("trans")
		}
		if len(args) == 0 || len(args) > 3 {
			return "", errorTextArgs("trans", "(key, vars?, domain?)", args)
		}

		key := fmt.Sprint(args[0])
		var vars map[string]any
		domain := ""
		if len(args) > 1 {
			var ok bool
			if vars, ok = toMap(args[1]); !ok {
				return "", errorTextArgs("trans", "(key, vars?, domain?)", args)
			}
		}
		if len(args) > 2 && args[2] != nil {
			domain = fmt.Sprint(args[2])
		}
		return sht.HtmlEscape(user.Trans(key, vars, domain)), nil
	},
}

// URLText `@url('route', {id: 1})` url of a named route, escaped
var URLText = &sht.TextDirective{
	Name: "url",
	Exec: func(scope *sht.Scope, args []interface{}) (string, error) {
		user, exists := GetAssetUser(scope)
		if !exists {
			return "", errorNoAssetUser("url")
		}
		if len(args) == 0 || len(args) > 2 {
			return "", errorTextArgs("url", "(name, options?)", args)
		}
		var options map[string]any
		if len(args) > 1 {
			var ok bool
			if options, ok = toMap(args[1]); !ok {
				return "", errorTextArgs("url", "(name, options?)", args)
			}
		}
		return sht.HtmlEscape(user.URL(fmt.Sprint(args[0]), options)), nil
	},
}

// VarText `@var('name', expr)` sets a variable in the scope
var VarText = &sht.TextDirective{
	Name: "var",
	Exec: func(scope *sht.Scope, args []interface{}) (string, error) {
		if len(args) != 2 {
			return "", errorTextArgs("var", "(name, value)", args)
		}
		name, ok := args[0].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return "", errorTextArgs("var", "(name, value)", args)
		}
		scope.Set(strings.TrimSpace(name), args[1])
		return "", nil
	},
}

// Directives the element and attribute directives of the bridge
func Directives() []*sht.Directive {
	return []*sht.Directive{IFElement, IFAttribute, Script, Link, NtjsElement, NtjsStyles, NtjsScripts, NtjsAutoload}
}

// TextDirectives the text directives of the bridge
func TextDirectives() []*sht.TextDirective {
	return []*sht.TextDirective{CssText, JsText, NtjsText, TransText, URLText, VarText}
}
