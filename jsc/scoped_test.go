package jsc

import (
	"strings"
	"testing"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
	"github.com/tdewolff/test"
)

// testNormalizeJs parses and regenerates the code, so that formatting differences are ignored
func testNormalizeJs(t *testing.T, code string) string {
	ast, err := js.Parse(parse.NewInputString(code), js.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return ast.JS()
}

func Test_Scope(t *testing.T) {
	var tests = []struct {
		source   string
		expected string
		names    string
	}{
		{
			`var a = 1;`,
			`(function(){ var a = 1; })();`,
			"a",
		},
		{
			`let x = 1, y = 2; const z = x + y; function sum(a, b) { return a + b } class Modal {}`,
			`(function(){ let x = 1, y = 2; const z = x + y; function sum(a, b) { return a + b } class Modal {} })();`,
			"x, y, z, sum, Modal",
		},
		{
			`$(function () { $('.tooltip').tooltip(); });`,
			`(function(){ $(function () { $('.tooltip').tooltip(); }); })();`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			scoped, err := Scope("Test", tt.source, false)
			if err != nil {
				t.Fatal(err)
			}
			test.String(t, testNormalizeJs(t, scoped.Content), testNormalizeJs(t, tt.expected), "Scope(name, source, false) | invalid output")
			test.String(t, strings.Join(scoped.Declarations, ", "), tt.names, "Scope(name, source, false) | invalid declarations")
		})
	}
}

func Test_Scope_Debug(t *testing.T) {
	scoped, err := Scope("App.Form", "  var form = document.forms[0];\n", true)
	if err != nil {
		t.Fatal(err)
	}
	expected := "/* App.Form (scoped: form) */\n(function () {\nvar form = document.forms[0];\n})();\n"
	test.String(t, scoped.Content, expected, "Scope(name, source, true) | invalid output")

	scoped, err = Scope("Tooltip", "$('.tooltip').tooltip();", true)
	if err != nil {
		t.Fatal(err)
	}
	test.String(t, scoped.Content, "/* Tooltip */\n(function () {\n$('.tooltip').tooltip();\n})();\n")
}

func Test_Scope_Empty(t *testing.T) {
	scoped, err := Scope("Empty", " \n\t ", false)
	if err != nil {
		t.Fatal(err)
	}
	test.String(t, scoped.Content, "", "Scope(name, \"\", false) | expected empty output")
	test.T(t, len(scoped.Declarations), 0)
}

func Test_Scope_Errors(t *testing.T) {
	var tests = []struct {
		source string
		code   string
	}{
		{`var a = ;`, "jsc.parse"},
		{`function ( {`, "jsc.parse"},
		{`export const a = 1;`, "jsc.module"},
		{`export default function init() {}`, "jsc.module"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := Scope("Broken", tt.source, false)
			if err == nil {
				t.Fatal("Scope(name, source, false) | expect to receive error")
			}
			if !cmn.IsCode(err, tt.code) {
				t.Errorf("Scope(name, source, false) | invalid error\n expected: [%s] .......\n   actual: %s", tt.code, err.Error())
			}
			if !strings.Contains(err.Error(), "Script: Broken") {
				t.Errorf("Scope(name, source, false) | error must contain the script name\n   actual: %s", err.Error())
			}
		})
	}
}

func Test_FindFirst(t *testing.T) {
	ast, err := js.Parse(parse.NewInputString("var a = 1; function b() { return a; } b();"), js.Options{})
	if err != nil {
		t.Fatal(err)
	}

	fn := findFirst(ast, func(node js.INode) bool {
		_, isFunc := node.(*js.FuncDecl)
		return isFunc
	})
	if fn == nil {
		t.Fatal("findFirst() | function not found")
	}

	if module := findFirst(ast, isModuleStatement); module != nil {
		t.Errorf("findFirst() | unexpected module statement %s", module.JS())
	}
}
