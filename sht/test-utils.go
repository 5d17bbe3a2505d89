package sht

import (
	"strings"
	"testing"
)

func TestUnindentedTemplate(template string) string {
	if strings.HasPrefix(template, "\n    ") {
		template = strings.ReplaceAll(template, "\n    ", "\n")
	}
	return strings.TrimSpace(template)
}

// TestSystem a template system for tests, using the informed global directives
func TestSystem(directives *Directives, textDirectives *TextDirectives) *TemplateSystem {
	return NewTemplateSystem(nil, directives, textDirectives)
}

// TestCompile compiles a template and already tests the expected static parts
func TestCompile(t *testing.T, template string, static []string, system *TemplateSystem) *Compiled {
	t.Helper()
	template = TestUnindentedTemplate(template)
	compiled, err := NewCompiler(system).Compile(template, "template.html")
	if err != nil {
		t.Fatal(err)
	}
	if static != nil && len(static) != len(compiled.static) {
		t.Errorf("compiler.Compile(template) | invalid compiled.static size\n   actual: %q\n expected: %q", compiled.static, static)
		return compiled
	}
	for i, expected := range static {
		if actual := compiled.static[i]; actual != expected {
			t.Errorf("compiler.Compile(template) | invalid compiled.static[%d]\n   actual: %q\n expected: %q", i, actual, expected)
		}
	}
	return compiled
}

// TestRender renders a compiled and already tests the expected result
func TestRender(t *testing.T, compiled *Compiled, scope *Scope, values map[string]interface{}, expected string) *Rendered {
	t.Helper()
	expected = TestUnindentedTemplate(expected)

	if scope == nil {
		scope = NewRootScope()
	}
	for key, value := range values {
		scope.Set(key, value)
	}
	rendered := compiled.Exec(scope)

	if actual := rendered.String(); actual != expected {
		t.Errorf("compiled.Exec(scope).String() | invalid output\n   actual: %q\n expected: %q", actual, expected)
	}
	return rendered
}

// TestTemplate compiles and renders the template, testing the expected output
func TestTemplate(t *testing.T, template string, values map[string]interface{}, expected string, system *TemplateSystem) {
	t.Helper()
	compiled := TestCompile(t, template, nil, system)
	TestRender(t, compiled, nil, values, expected)
}
