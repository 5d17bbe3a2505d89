package jsc

import (
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

var errorJsParse = cmn.Err(
	"jsc.parse",
	"SyntaxError: the inline script could not be parsed.", "Script: %s", "Cause: %s",
)

var errorJsModule = cmn.Err(
	"jsc.module",
	"Inline scripts cannot import or export.", "Script: %s", "Statement: %s",
)

// Scoped an inline script wrapped into its own function scope
type Scoped struct {
	Name         string
	Content      string
	Declarations []string // top level names declared by the script, in source order
}

func (s *Scoped) String() string {
	return s.Content
}

// Scope parses the source and wraps it into an immediately invoked function, so the top level
// declarations of one inline script don't leak into the global scope of the page.
//
// With debug the source is kept as written and prefixed by a comment with the script name and the
// names it scopes, otherwise the output is the compact form generated from the AST.
func Scope(name string, source string, debug bool) (*Scoped, error) {
	scoped := &Scoped{Name: name}

	source = strings.TrimSpace(source)
	if source == "" {
		return scoped, nil
	}

	ast, err := js.Parse(parse.NewInputString(source), js.Options{})
	if err != nil {
		return nil, errorJsParse(name, err)
	}

	module := findFirst(ast, isModuleStatement)
	if module != nil {
		return nil, errorJsModule(name, module.JS())
	}

	scoped.Declarations = declarations(ast)

	if debug {
		header := name
		if len(scoped.Declarations) > 0 {
			header += " (scoped: " + strings.Join(scoped.Declarations, ", ") + ")"
		}
		scoped.Content = "/* " + header + " */\n(function () {\n" + source + "\n})();\n"
	} else {
		scoped.Content = "(function(){" + ast.JS() + "})();"
	}

	return scoped, nil
}

// declarations names declared by the top level statements (var, let, const, function, class)
func declarations(ast *js.AST) []string {
	var names []string
	for _, stmt := range ast.BlockStmt.List {
		switch s := stmt.(type) {
		case *js.VarDecl:
			for _, item := range s.List {
				if v, isVar := item.Binding.(*js.Var); isVar {
					names = append(names, v.String())
				}
			}
		case *js.FuncDecl:
			if s.Name != nil {
				names = append(names, s.Name.String())
			}
		case *js.ClassDecl:
			if s.Name != nil {
				names = append(names, s.Name.String())
			}
		}
	}
	return names
}
