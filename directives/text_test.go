package directives

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
	"github.com/tdewolff/test"
)

func Test_Text_Directives_Assets(t *testing.T) {
	template := `
    <div>
      @css('/a.css') @css(['/b.css', '/a.css'])
      @js('/x.js')
      <p>@ntjs('Foo', 'var a;', ['Bar'])@ntjs('Baz', ['Qux'], 'var b;')</p>
      mail@js(x) @@css(y)
    </div>`

	scope, user := testScope()
	compiled := sht.TestCompile(t, template, nil, testSystem())
	rendered := compiled.Exec(scope).String()

	calls := strings.Join([]string{
		"UseStylesheet(/a.css)",
		"UseStylesheet(/b.css)",
		"UseStylesheet(/a.css)",
		"UseJavascript(/x.js)",
		"DeclareScript([Foo var a; [Bar]])",
		"DeclareScript([Baz [Qux] var b;])",
	}, "\n")
	test.String(t, user.debug(), calls, "text directives | invalid calls")
	test.T(t, user.css.List(), []string{"/a.css", "/b.css"})

	if !strings.Contains(rendered, "mail@js(x) @css(y)") {
		t.Errorf("text directives | invalid output\n   actual: %q", rendered)
	}
	if !strings.Contains(rendered, "<p></p>") {
		t.Errorf("text directives | @ntjs must not write content\n   actual: %q", rendered)
	}
}

func Test_Text_Directives_Output(t *testing.T) {
	var tests = []struct {
		template string
		values   map[string]interface{}
		expected string
	}{
		{`<h1>@var('title', 'Hello')#{title}</h1>`, nil, `<h1>Hello</h1>`},
		{`<h1>@var('title', name + '!')#{title}</h1>`, map[string]interface{}{"name": "Ana"}, `<h1>Ana!</h1>`},
		{`<p>@trans('greeting')</p>`, nil, `<p>greeting[]</p>`},
		{`<p>@trans('greeting', nil, 'admin')</p>`, nil, `<p>greeting[]admin</p>`},
		{`<p>@trans(key)</p>`, map[string]interface{}{"key": "<b>"}, `<p>&lt;b&gt;[]</p>`},
		{`<a>@url('home')</a>`, nil, `<a>/home</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			scope, _ := testScope()
			compiled := sht.TestCompile(t, tt.template, nil, testSystem())
			sht.TestRender(t, compiled, scope, tt.values, tt.expected)
		})
	}
}

func Test_Text_Directives_Markup_In_Arguments(t *testing.T) {
	// arguments are text content, the html is parsed first
	_, err := sht.NewCompiler(testSystem()).Compile(`<p>@trans('<b>')</p>`, "page.html")
	if !cmn.IsCode(err, "parse.endingTag") {
		t.Errorf("compiler.Compile(template) | invalid error\n expected: [parse.endingTag] ...\n   actual: %v", err)
	}

	scope, _ := testScope()
	compiled := sht.TestCompile(t, `<p>@trans('&lt;b&gt;')</p>`, nil, testSystem())
	sht.TestRender(t, compiled, scope, nil, `<p>&lt;b&gt;[]</p>`)
}

func Test_Text_Directives_Invalid_Arguments(t *testing.T) {
	var tests = []string{
		`<p>@var('title')</p>`,
		`<p>@var(1, 2)</p>`,
		`<p>@trans()</p>`,
		`<p>@trans('a', 'b')</p>`,
		`<p>@url('a', 1)</p>`,
	}
	for _, template := range tests {
		t.Run(template, func(t *testing.T) {
			scope, _ := testScope()
			compiled := sht.TestCompile(t, template, nil, testSystem())
			sht.TestRender(t, compiled, scope, nil, `<p></p>`)
		})
	}
}

func Test_AssetIds(t *testing.T) {
	out := &bytes.Buffer{}
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(out, nil)))
	defer slog.SetDefault(previous)

	args := []interface{}{"a.js", " ", []interface{}{"b.js", []string{"c.js"}}, 10, nil}
	test.T(t, assetIds(args), []string{"a.js", "b.js", "c.js"})

	logged := out.String()
	if strings.Count(logged, "asset id ignored") != 1 || !strings.Contains(logged, "type=int") {
		t.Errorf("assetIds(args) | the number must be logged once\n   actual: %s", logged)
	}
}

func Test_ToMap(t *testing.T) {
	m, ok := toMap(map[string]string{"id": "1"})
	test.T(t, ok, true)
	test.T(t, m["id"], "1")

	_, ok = toMap([]string{"id"})
	test.T(t, ok, false)

	m, ok = toMap(nil)
	test.T(t, ok, true)
	test.T(t, len(m), 0)
}
