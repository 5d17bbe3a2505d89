package sht

import (
	"fmt"
	"strings"
	"testing"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/tdewolff/test"
)

func Test_Interpolation(t *testing.T) {

	template := `
    <div class="out #{valueOne ? 'class-true' : 'class-false'}">
      !{valueOne ? 'value-true' : 'value-false' }
      Other text
      #{html}
    </div>`

	static := []string{
		"<div",
		">\n  ",
		"\n  Other text\n  ",
		"\n</div>",
	}

	expected := `
    <div class="out class-true">
      value-true
      Other text
      &lt;b&gt;
    </div>`

	values := map[string]interface{}{
		"valueOne": true,
		"html":     "<b>",
	}

	compiled := TestCompile(t, template, static, TestSystem(nil, nil))
	TestRender(t, compiled, nil, values, expected)
}

func Test_Static_Attributes_Keep_Order(t *testing.T) {
	template := `<div class="a" id="b" data-role="c">text</div>`
	compiled := TestCompile(t, template, []string{template}, TestSystem(nil, nil))
	TestRender(t, compiled, nil, nil, template)
}

func Test_Dynamic_Attributes_Keep_Order(t *testing.T) {
	template := `<input type="text" disabled value="#{value}" data-id="x">`
	compiled := TestCompile(t, template, []string{"<input", "/>"}, TestSystem(nil, nil))
	TestRender(t, compiled, nil, map[string]interface{}{"value": "a<b"}, `<input type="text" disabled value="a&lt;b" data-id="x"/>`)
}

func Test_Dynamic_Attributes_Escaped_Once(t *testing.T) {
	values := map[string]interface{}{"text": "a&b", "html": "<b>"}
	TestTemplate(t, `<a title="#{text}" data-x="!{html}">x</a>`, values, `<a title="a&amp;b" data-x="&lt;b&gt;">x</a>`, TestSystem(nil, nil))
	TestTemplate(t, `<a title="x #{text} y">x</a>`, values, `<a title="x a&amp;b y">x</a>`, TestSystem(nil, nil))
}

func Test_Text_Directive(t *testing.T) {
	system := TestSystem(nil, nil)
	system.RegisterText(&TextDirective{
		Name: "upper",
		Exec: func(scope *Scope, args []interface{}) (string, error) {
			var parts []string
			for _, arg := range args {
				parts = append(parts, fmt.Sprint(arg))
			}
			return strings.ToUpper(strings.Join(parts, ",")), nil
		},
	})

	template := `<p>@upper('a', name) and @@upper(x) mail@upper(y) @unknown(z) @upper()</p>`
	compiled := TestCompile(t, template, []string{"<p>", " and @upper(x) mail@upper(y) @unknown(z) ", "</p>"}, system)
	TestRender(t, compiled, nil, map[string]interface{}{"name": "bob"}, `<p>A,BOB and @upper(x) mail@upper(y) @unknown(z) </p>`)
}

func Test_Text_Directive_Typed_Lists(t *testing.T) {
	system := TestSystem(nil, nil)
	system.RegisterText(&TextDirective{
		Name: "upper",
		Exec: func(scope *Scope, args []interface{}) (string, error) {
			var parts []string
			for _, arg := range args {
				parts = append(parts, fmt.Sprint(arg))
			}
			return strings.ToUpper(strings.Join(parts, ",")), nil
		},
	})

	TestTemplate(t, `<p>@upper('a', 'b')</p>`, nil, `<p>A,B</p>`, system)
	TestTemplate(t, `<p>@upper(1, 2)</p>`, nil, `<p>1,2</p>`, system)
	TestTemplate(t, `<p>@upper('site.css')</p>`, nil, `<p>SITE.CSS</p>`, system)
}

func Test_ToInterfaces(t *testing.T) {
	var tests = []struct {
		name     string
		value    interface{}
		expected []interface{}
		isList   bool
	}{
		{"nil", nil, nil, false},
		{"string", "a", nil, false},
		{"interfaces", []interface{}{"a", 1}, []interface{}{"a", 1}, true},
		{"strings", []string{"a", "b"}, []interface{}{"a", "b"}, true},
		{"ints", []int{1, 2}, []interface{}{1, 2}, true},
		{"array", [2]float64{1, 2}, []interface{}{float64(1), float64(2)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, isList := toInterfaces(tt.value)
			test.T(t, isList, tt.isList, "toInterfaces(value) | invalid list check")
			test.T(t, actual, tt.expected, "toInterfaces(value) | invalid output")
		})
	}
}

func Test_Text_Directive_Unclosed(t *testing.T) {
	system := TestSystem(nil, nil)
	system.RegisterText(&TextDirective{Name: "css", Exec: func(scope *Scope, args []interface{}) (string, error) {
		return "", nil
	}})

	_, err := NewCompiler(system).Compile(`<p>@css('site.css'</p>`, "template.html")
	if !cmn.IsCode(err, "directive.text.unclosed") {
		t.Errorf("compiler.Compile(template) | invalid error\n expected: [directive.text.unclosed] ...\n   actual: %v", err)
	}
}

func Test_Text_Directive_Failure_Renders_Nothing(t *testing.T) {
	system := TestSystem(nil, nil)
	system.RegisterText(&TextDirective{Name: "fail", Exec: func(scope *Scope, args []interface{}) (string, error) {
		return "", fmt.Errorf("failed")
	}})
	TestTemplate(t, `<p>a@fail(1)b</p>`, nil, `<p>a@fail(1)b</p>`, system)
	TestTemplate(t, `<p>a @fail(1)b</p>`, nil, `<p>a b</p>`, system)
}

func Test_Deferred_Output(t *testing.T) {
	system := TestSystem(nil, nil)
	system.Register(&Directive{
		Name:       "count",
		Restrict:   ELEMENT,
		Terminal:   true,
		Transclude: true,
		Process: func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) *Rendered {
			total, _ := scope.Context.Get("total").(int)
			scope.Context.Set("total", total+1)
			return nil
		},
	})
	system.Register(&Directive{
		Name:       "total",
		Restrict:   ELEMENT,
		Terminal:   true,
		Transclude: true,
		Process: func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) *Rendered {
			return DeferredRendered(func() string {
				return fmt.Sprint(scope.Context.Get("total"))
			})
		},
	})

	TestTemplate(t, `<b><total></total></b><count></count><count></count>`, nil, `<b>2</b>`, system)
}

func Test_Transclude_Children(t *testing.T) {
	system := TestSystem(nil, nil)
	system.Register(&Directive{
		Name:       "repeat",
		Restrict:   ELEMENT,
		Priority:   500,
		Terminal:   true,
		Transclude: true,
		Process: func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) *Rendered {
			static := []string{"", "", ""}
			return &Rendered{
				Static: &static,
				Dynamics: []interface{}{
					transclude("", func(s *Scope) { s.SetLocal("i", 1) }),
					transclude("", func(s *Scope) { s.SetLocal("i", 2) }),
				},
			}
		},
	})

	TestTemplate(t, `<ul><repeat times="2"><li>#{i}</li></repeat></ul>`, nil, `<ul><li>1</li><li>2</li></ul>`, system)
}

func Test_Directive_Priority(t *testing.T) {
	var order []string
	directive := func(name string, priority int) *Directive {
		return &Directive{
			Name:     name,
			Restrict: ATTRIBUTE,
			Priority: priority,
			Process: func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) *Rendered {
				order = append(order, name)
				return nil
			},
		}
	}

	system := TestSystem(nil, nil)
	system.Register(directive("low", 1))
	system.Register(directive("high", 10))
	system.Register(directive("middle", 5))

	TestTemplate(t, `<div low middle high class="x"></div>`, nil, `<div class="x"></div>`, system)
	test.String(t, strings.Join(order, ","), "high,middle,low", "directives | invalid execution order")
}

func Test_Parse_Error(t *testing.T) {
	var tests = []struct {
		template string
		code     string
	}{
		{`<div><span></div>`, "parse.endingTag"},
		{`</div>`, "parse.endingTag"},
		{`<p>#{value</p>`, "interpolate.unclosed"},
		{`<p>#{value +}</p>`, "expression.compile"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			_, err := NewCompiler(TestSystem(nil, nil)).Compile(tt.template, "template.html")
			if !cmn.IsCode(err, tt.code) {
				t.Errorf("compiler.Compile(template) | invalid error\n expected: [%s] ...\n   actual: %v", tt.code, err)
			}
		})
	}
}

func Test_Register_Assets(t *testing.T) {
	c := NewCompiler(TestSystem(nil, nil))

	a, err := c.RegisterAssetURL("/js/main.js?v=1", cmn.Javascript)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.RegisterAssetURL("/js/main.js?v=1", cmn.Javascript)
	if a != b {
		t.Errorf("compiler.RegisterAssetURL(src) | the same url must return the same asset")
	}
	test.String(t, a.Name, "main")

	other, _ := c.RegisterAssetURL("/vendor/main.js", cmn.Javascript)
	if other.Name == "main" || !strings.HasPrefix(other.Name, "main-") {
		t.Errorf("compiler.RegisterAssetURL(src) | name conflict not solved: %s", other.Name)
	}

	inline := c.RegisterAssetContent("console.log(1)", cmn.Javascript)
	test.T(t, inline.Size, int64(len("console.log(1)")))
	if !strings.HasPrefix(inline.Integrity, "sha512-") || inline.Etag == "" {
		t.Errorf("compiler.RegisterAssetContent(content) | integrity and etag expected: %+v", inline)
	}
	test.T(t, len(c.Assets()), 3)
}
