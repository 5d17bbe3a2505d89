package sht

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
)

var errorTextDirectiveUnclosed = cmn.Err(
	"directive.text.unclosed",
	"Text directive was not closed, missing ')'.", "Directive: '@%s'", "File: '%s'", "Line: %d",
)

// TextDirectiveFunc executed at render time with the evaluated arguments. The returned string is written, as is, in
// place of the directive.
type TextDirectiveFunc func(scope *Scope, args []interface{}) (string, error)

// TextDirective a directive written in text content: `@name(arg1, arg2)`. The arguments are expressions. Write
// `@@name(` to output the text literally.
//
// The template is parsed as html before the text directives are compiled, so the arguments can not contain markup.
// Use entities (`@trans('&lt;b&gt;')`) or a variable instead.
type TextDirective struct {
	Name string
	Exec TextDirectiveFunc
}

// TextDirectives groups the list of registered text directives
type TextDirectives struct {
	parent *TextDirectives
	byName map[string]*TextDirective
}

// Add a new text directive, replacing any directive with the same name on this list
func (d *TextDirectives) Add(directive *TextDirective) {
	directive.Name = strings.ToLower(strings.TrimSpace(directive.Name))
	if d.byName == nil {
		d.byName = map[string]*TextDirective{}
	}
	d.byName[directive.Name] = directive
}

// Get a directive by name, looking at the parent list when not found
func (d *TextDirectives) Get(name string) *TextDirective {
	if d == nil {
		return nil
	}
	if directive, exists := d.byName[strings.ToLower(name)]; exists {
		return directive
	}
	return d.parent.Get(name)
}

// NewChild creates a new list, which keeps a reference to the current one
func (d *TextDirectives) NewChild() *TextDirectives {
	return &TextDirectives{parent: d}
}

// DynamicTextDirective dynamic part that runs a text directive
type DynamicTextDirective struct {
	directive *TextDirective
	args      *Expression
	file      string
	line      int
}

func (d *DynamicTextDirective) Exec(scope *Scope) interface{} {
	var args []interface{}
	if d.args != nil {
		result, err := d.args.Eval(scope)
		if err != nil {
			slog.Warn("text directive arguments failed",
				"directive", d.directive.Name, "file", d.file, "line", d.line, "error", err,
			)
			return nil
		}
		var isList bool
		if args, isList = toInterfaces(result); !isList {
			slog.Warn("text directive arguments are not a list",
				"directive", d.directive.Name, "file", d.file, "line", d.line, "type", fmt.Sprintf("%T", result),
			)
			return nil
		}
	}

	output, err := d.directive.Exec(scope, args)
	if err != nil {
		slog.Warn("text directive failed",
			"directive", d.directive.Name, "file", d.file, "line", d.line, "error", err,
		)
		return nil
	}
	return output
}

// toInterfaces the items of any slice or array. Expression lists with a single element type are typed ([]string,
// []float64), mixed lists are []interface{}.
func toInterfaces(value interface{}) ([]interface{}, bool) {
	switch list := value.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return list, true
	case []string:
		out := make([]interface{}, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isDirectiveNameChar(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// compileTextDirectives replaces the registered "@name(args)" forms of a text node by dynamic tokens
func (c *Compiler) compileTextDirectives(node *Node) (string, error) {
	text := node.Data
	if !strings.Contains(text, "@") {
		return text, nil
	}

	out := &bytes.Buffer{}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '@' {
			out.WriteByte(ch)
			continue
		}

		// escaped "@@"
		if i+1 < len(text) && text[i+1] == '@' {
			out.WriteByte('@')
			i++
			continue
		}

		// "user@domain(" is not a directive
		if i > 0 && isDirectiveNameChar(text[i-1]) {
			out.WriteByte(ch)
			continue
		}

		nameEnd := i + 1
		for nameEnd < len(text) && isDirectiveNameChar(text[nameEnd]) {
			nameEnd++
		}
		name := text[i+1 : nameEnd]
		directive := c.TextDirectives.Get(name)
		if name == "" || directive == nil || nameEnd >= len(text) || text[nameEnd] != '(' {
			out.WriteByte(ch)
			continue
		}

		end := findClosingParen(text, nameEnd+1)
		if end < 0 {
			return "", errorTextDirectiveUnclosed(name, node.File, node.Line)
		}

		dynamic := &DynamicTextDirective{directive: directive, file: node.File, line: node.Line}
		if args := strings.TrimSpace(text[nameEnd+1 : end]); args != "" {
			expression, err := ParseExpression("[" + args + "]")
			if err != nil {
				return "", err
			}
			dynamic.args = expression
		}

		_, token := c.addDynamic(dynamic)
		out.WriteString(" " + token) // extra space, see syntaxDynamicIndexRegex
		i = end
	}
	return out.String(), nil
}

// findClosingParen index of the ')' that closes a list started at "start", -1 if not found. Parentheses inside
// string literals are ignored.
func findClosingParen(text string, start int) int {
	depth := 0
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
