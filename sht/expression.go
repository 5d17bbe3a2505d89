package sht

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/syntax-framework/ntjs/cmn"
)

var errorExpressionCompile = cmn.Err(
	"expression.compile",
	"Invalid expression.", "Expression: '%s'", "Cause: %v",
)

var errorInterpolateUnclosed = cmn.Err(
	"interpolate.unclosed",
	"Expression was not closed, missing '}'.", "Text: '%s'",
)

type Expression struct {
	source  string
	program *vm.Program
}

// Eval runs the expression against the scope
func (e *Expression) Eval(scope *Scope) (interface{}, error) {
	return expr.Run(e.program, scope)
}

// Exec runs the expression, errors are logged and result in nil
func (e *Expression) Exec(scope *Scope) interface{} {
	output, err := e.Eval(scope)
	if err != nil {
		slog.Warn("expression failed", "expression", e.source, "error", err)
		return nil
	}
	return output
}

func (e *Expression) EvalBool(scope *Scope) bool {
	if e == nil {
		return false
	}
	result := e.Exec(scope)
	if result == nil || result == false || result == -1 || result == 0 || result == "false" || result == "" {
		return false
	}
	return true
}

func (e *Expression) EvalString(scope *Scope) string {
	if e == nil {
		return ""
	}
	result := e.Exec(scope)
	if result == nil {
		return ""
	}
	return fmt.Sprintf("%v", result)
}

// compiled expressions are shared by all templates
var expressionCache = struct {
	sync.RWMutex
	items map[string]*Expression
}{items: map[string]*Expression{}}

// ParseExpression process a single expression
func ParseExpression(exp string) (*Expression, error) {
	exp = strings.TrimSpace(exp)

	expressionCache.RLock()
	expression, exists := expressionCache.items[exp]
	expressionCache.RUnlock()
	if exists {
		return expression, nil
	}

	program, err := expr.Compile(exp)
	if err != nil {
		return nil, errorExpressionCompile(exp, err)
	}
	expression = &Expression{source: exp, program: program}

	expressionCache.Lock()
	expressionCache.items[exp] = expression
	expressionCache.Unlock()

	return expression, nil
}

// DynamicInterpolate dynamic part of !{expression}, unescaped
type DynamicInterpolate struct {
	expression *Expression
}

func (d *DynamicInterpolate) Exec(scope *Scope) interface{} {
	return d.expression.EvalString(scope)
}

// DynamicInterpolateEscaped dynamic part of #{expression}
type DynamicInterpolateEscaped struct {
	expression *Expression
}

func (d *DynamicInterpolateEscaped) Exec(scope *Scope) interface{} {
	return HtmlEscape(d.expression.EvalString(scope))
}

// Interpolate Compiles a string with markup into an interpolation function. Returns nil when the text has no
// expression.
//
//	String Unescaped: !{riskyBusiness}
//	String Escaped:   #{expression}
//
//	exp, _ := Interpolate("Hello #{name}!")
//	exp.Exec(scope).String() == "Hello Syntax!"
func Interpolate(text string) (*Compiled, error) {
	return interpolate(text, true)
}

// InterpolateRaw same as Interpolate, but `#{}` is not escaped. Used where the output is escaped later, as the
// values of attributes.
func InterpolateRaw(text string) (*Compiled, error) {
	return interpolate(text, false)
}

func interpolate(text string, escape bool) (*Compiled, error) {
	if !strings.Contains(text, "!{") && !strings.Contains(text, "#{") {
		return nil, nil
	}

	var static []string
	var dynamics []Dynamic

	content := &bytes.Buffer{}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if (c != '!' && c != '#') || i+1 >= len(runes) || runes[i+1] != '{' {
			content.WriteRune(c)
			continue
		}

		end := findExpressionEnd(runes, i+2)
		if end < 0 {
			return nil, errorInterpolateUnclosed(text)
		}

		expression, err := ParseExpression(string(runes[i+2 : end]))
		if err != nil {
			return nil, err
		}

		static = append(static, content.String())
		content = &bytes.Buffer{}

		if c == '#' && escape {
			dynamics = append(dynamics, &DynamicInterpolateEscaped{expression: expression})
		} else {
			dynamics = append(dynamics, &DynamicInterpolate{expression: expression})
		}
		i = end
	}
	static = append(static, content.String())

	return newCompiled(static, dynamics), nil
}

// findExpressionEnd index of the '}' that closes an expression started at "start", -1 if not found. Braces inside
// string literals are ignored.
func findExpressionEnd(runes []rune, start int) int {
	depth := 0
	var quote rune
	for i := start; i < len(runes); i++ {
		c := runes[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
