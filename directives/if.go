package directives

import (
	"log/slog"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

var errorIfCond = cmn.Err(
	"directive.if.cond",
	"The condition of the if directive is empty.", "Attribute: '%s'", "Element: %s",
)

func createIfDirective(node *sht.Node, attrs *sht.Attributes, attr string) (*sht.DirectiveMethods, error) {
	cond := attrs.Get(attr)
	if strings.TrimSpace(cond) == "" {
		return nil, errorIfCond(attr, node.DebugTag())
	}

	// @TODO: https://github.com/antonmedv/expr/blob/master/docs/Visitor-and-Patch.md
	expression, err := sht.ParseExpression(cond)
	if err != nil {
		return nil, err
	}

	return &sht.DirectiveMethods{
		Process: func(scope *sht.Scope, attrs *sht.Attributes, transclude sht.TranscludeFunc) *sht.Rendered {
			current := expression

			// the attribute was changed by a directive with higher priority, parse again
			// empty values make the expression falsy
			if newCond := attrs.Get(attr); newCond != cond {
				current = nil
				if strings.TrimSpace(newCond) != "" {
					parsed, parseErr := sht.ParseExpression(newCond)
					if parseErr != nil {
						slog.Warn("if directive condition is invalid", "cond", newCond, "error", parseErr)
					}
					current = parsed
				}
			}

			if current != nil && current.EvalBool(scope) {
				return transclude("", nil)
			}
			return nil
		},
	}, nil
}

// IFElement `<if cond="true"/>`
var IFElement = &sht.Directive{
	Name:       "if",
	Restrict:   sht.ELEMENT,
	Priority:   600,
	Terminal:   true,
	Transclude: true,
	Compile: func(node *sht.Node, attrs *sht.Attributes, c *sht.Compiler) (*sht.DirectiveMethods, error) {
		return createIfDirective(node, attrs, "cond")
	},
}

// IFAttribute `<element if="true"/>`
var IFAttribute = &sht.Directive{
	Name:       "if",
	Restrict:   sht.ATTRIBUTE,
	Priority:   599,
	Terminal:   true,
	Transclude: "element",
	Compile: func(node *sht.Node, attrs *sht.Attributes, c *sht.Compiler) (*sht.DirectiveMethods, error) {
		return createIfDirective(node, attrs, "if")
	},
}
