package ntjs

import (
	"strings"
	"testing"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/script"
	"github.com/tdewolff/test"
)

func testCatalog(t *testing.T) *script.Catalog {
	catalog, err := script.LoadCatalog("testdata/packages.yaml", "testdata/cdn.json")
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func Test_Factory_Assets_Dedup(t *testing.T) {
	f := NewFactory(nil, nil, nil, Options{})
	f.UseStylesheet("site.css")
	f.UseStylesheet("site.css")
	f.AddAsset("site.css", cmn.Stylesheet, cmn.PriorityFirst)
	f.UseJavascript("site.css")

	test.T(t, f.Stylesheets(), []string{"site.css"}, "Factory.Stylesheets() | invalid output")
	test.T(t, f.Javascripts(), []string{"site.css"}, "Factory.Javascripts() | each type has its own bucket")
}

func Test_Factory_Assets_First_Before_Default(t *testing.T) {
	a := NewFactory(nil, nil, nil, Options{})
	a.AddAsset("a", cmn.Javascript, cmn.PriorityFirst)
	a.AddAsset("b", cmn.Javascript, cmn.PriorityDefault)

	b := NewFactory(nil, nil, nil, Options{})
	b.AddAsset("b", cmn.Javascript, cmn.PriorityDefault)
	b.AddAsset("a", cmn.Javascript, cmn.PriorityFirst)

	test.T(t, a.Javascripts(), []string{"a", "b"})
	test.T(t, b.Javascripts(), []string{"a", "b"})
}

func Test_Factory_GenerateAsset(t *testing.T) {
	var tests = []struct {
		base     string
		prefix   string
		pkg      *script.Package
		name     string
		kind     cmn.AssetType
		expected string
	}{
		{"", "", &script.Package{ID: "JQuery", Repository: "jquery"}, "jquery.min.js", cmn.Javascript, "/cdn/jquery/jquery.min.js"},
		{"/app/", "", &script.Package{ID: "Bootstrap", Dirs: map[string]string{"js": "/js/"}}, "bootstrap.min.js", cmn.Javascript, "/app/cdn/bootstrap/js/bootstrap.min.js"},
		{"/app", "assets", &script.Package{ID: "BootstrapIcons", Dirs: map[string]string{"css": "font"}}, "bootstrap-icons.css", cmn.Stylesheet, "/app/assets/bootstrap-icons/font/bootstrap-icons.css"},
		{"/app", "", &script.Package{ID: "BootstrapIcons", Dirs: map[string]string{"css": "font"}}, "icons.js", cmn.Javascript, "/app/cdn/bootstrap-icons/icons.js"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			f := NewFactory(nil, nil, nil, Options{BaseURL: tt.base, AssetPrefix: tt.prefix})
			test.String(t, f.GenerateAsset(tt.pkg, tt.name, tt.kind), tt.expected, "Factory.GenerateAsset() | invalid output")
		})
	}
}

func Test_Factory_Resolve(t *testing.T) {
	f := NewFactory(nil, nil, nil, Options{})
	test.String(t, f.Resolve("Form.Date"), "App/Script/Form/Date")

	f = NewFactory(nil, nil, nil, Options{Namespace: "Site/"})
	test.String(t, f.Resolve("Menu"), "Site/Menu")
}

func Test_Factory_UseScript(t *testing.T) {
	f := NewFactory(nil, nil, nil, Options{})
	f.UseScript("Foo", []string{"Bar", "Baz"}, "inline code")
	f.UseScript("Empty", nil, "")

	foo, exists := f.Manager().Get("Foo")
	if !exists {
		t.Fatal("Factory.UseScript() | script not created")
	}
	test.T(t, foo.IsIncluded(), true)
	test.T(t, foo.Dependencies(), []string{"Bar", "Baz"})
	test.String(t, foo.Content(), "inline code")

	empty, _ := f.Manager().Get("Empty")
	test.T(t, empty.IsIncluded(), true)
	test.T(t, len(empty.Dependencies()), 0)
	test.String(t, empty.Content(), "")
}

func Test_Factory_DeclareScript_Orders(t *testing.T) {
	a := NewFactory(nil, nil, nil, Options{})
	if err := a.DeclareScript("Foo", "inline code", []string{"Bar", "Baz"}); err != nil {
		t.Fatal(err)
	}
	b := NewFactory(nil, nil, nil, Options{})
	if err := b.DeclareScript("Foo", []interface{}{"Bar", "Baz"}, "inline code"); err != nil {
		t.Fatal(err)
	}

	sa, _ := a.Manager().Get("Foo")
	sb, _ := b.Manager().Get("Foo")
	test.T(t, sa.Dependencies(), sb.Dependencies())
	test.String(t, sa.Content(), sb.Content())
	test.T(t, sa.IsIncluded(), sb.IsIncluded())
}

func Test_Factory_Bootstrap(t *testing.T) {
	f := NewFactory(testCatalog(t), nil, nil, DefaultOptions())

	output, err := f.Script()
	if err != nil {
		t.Fatal(err)
	}
	test.String(t, output, "", "Factory.Script() | packages have no inline code")

	test.T(t, f.Stylesheets(), []string{
		"/cdn/bootstrap/css/bootstrap.min.css",
		"/cdn/bootstrap-icons/font/bootstrap-icons.css",
	})
	test.T(t, f.Javascripts(), []string{
		"/cdn/jquery/jquery.min.js",
		"/cdn/popperjs/umd/popper.min.js",
		"/cdn/bootstrap/js/bootstrap.min.js",
	})
}

func Test_Factory_CDN(t *testing.T) {
	options := DefaultOptions()
	options.UseCDN = true
	f := NewFactory(testCatalog(t), nil, nil, options)

	if _, err := f.Script(); err != nil {
		t.Fatal(err)
	}
	test.T(t, f.Stylesheets(), []string{
		"https://cdn.jsdelivr.net/npm/bootstrap@5.3.2/dist/css/bootstrap.min.css",
		"/cdn/bootstrap-icons/font/bootstrap-icons.css",
	})
}

func Test_Factory_Script(t *testing.T) {
	f := NewFactory(testCatalog(t), nil, nil, Options{Debug: true})
	f.UseScript("Page", []string{"Form"}, "$('form').form();")

	output, err := f.Script()
	if err != nil {
		t.Fatal(err)
	}
	expected := "/* Form */\n(function () {\n$.fn.form = function () { return this; };\n})();\n" +
		"\n" +
		"/* Page */\n(function () {\n$('form').form();\n})();\n"
	test.String(t, output, expected, "Factory.Script() | invalid output")
	test.T(t, f.Javascripts(), []string{"/cdn/jquery/jquery.min.js"})

	// computed once
	f.UseScript("Late", nil, "var late = true;")
	again, _ := f.Script()
	test.String(t, again, expected, "Factory.Script() | must be cached")
}

func Test_Factory_Script_Error(t *testing.T) {
	f := NewFactory(testCatalog(t), nil, nil, Options{})
	f.UseScript("Page", []string{"Missing"}, "")

	_, err := f.Script()
	if !cmn.IsCode(err, "script.dependency.unknown") {
		t.Errorf("Factory.Script() | expected [script.dependency.unknown] error, actual: %v", err)
	}
	_, again := f.Script()
	if again != err {
		t.Errorf("Factory.Script() | the error must be cached")
	}
}

func Test_Factory_ScriptAutoload(t *testing.T) {
	f := NewFactory(testCatalog(t), nil, nil, DefaultOptions())
	f.UseStylesheet("/site.css")

	autoload := f.ScriptAutoload()
	for _, expected := range []string{`"/cdn/bootstrap/css/bootstrap.min.css"`, `"/site.css"`, `"/cdn/jquery/jquery.min.js"`} {
		if !strings.Contains(autoload, expected) {
			t.Errorf("Factory.ScriptAutoload() | missing %s\n   actual: %s", expected, autoload)
		}
	}
}

type testHost struct{}

func (testHost) Trans(text string, vars map[string]any, domain string) string {
	return strings.ToUpper(text) + domain
}

func (testHost) URL(name string, options map[string]any) string {
	return "/r/" + name
}

func Test_Factory_Host_Services(t *testing.T) {
	f := NewFactory(nil, nil, nil, Options{})
	test.String(t, f.Trans("hello", nil, ""), "hello", "Factory.Trans() | without translator")
	test.String(t, f.URL("home", nil), "home", "Factory.URL() | without router")

	f = NewFactory(nil, testHost{}, testHost{}, Options{})
	test.String(t, f.Trans("hello", nil, "@admin"), "HELLO@admin")
	test.String(t, f.URL("home", nil), "/r/home")
}
