package directives

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
	"github.com/syntax-framework/ntjs/sht"
)

// testSystem a template system with all directives of this package
func testSystem() *sht.TemplateSystem {
	system := sht.TestSystem(nil, nil)
	for _, directive := range Directives() {
		system.Register(directive)
	}
	for _, directive := range TextDirectives() {
		system.RegisterText(directive)
	}
	return system
}

// testUser records the calls received from the directives
type testUser struct {
	calls   []string
	css     cmn.AssetBucket
	js      cmn.AssetBucket
	scripts []string
}

func (u *testUser) log(format string, args ...interface{}) {
	u.calls = append(u.calls, fmt.Sprintf(format, args...))
}

func (u *testUser) AddAsset(id string, kind cmn.AssetType, priority cmn.Priority) {
	u.log("AddAsset(%s, %s, %s)", id, kind, priority)
	if kind == cmn.Stylesheet {
		u.css.Add(id, priority)
	} else {
		u.js.Add(id, priority)
	}
}

func (u *testUser) UseStylesheet(id string) {
	u.log("UseStylesheet(%s)", id)
	u.css.Add(id, cmn.PriorityDefault)
}

func (u *testUser) UseJavascript(id string) {
	u.log("UseJavascript(%s)", id)
	u.js.Add(id, cmn.PriorityDefault)
}

func (u *testUser) UseScript(name string, deps []string, content string) {
	u.log("UseScript(%s, %q, %q)", name, deps, content)
	u.scripts = append(u.scripts, "run('"+name+"');")
}

func (u *testUser) DeclareScript(args ...any) error {
	if len(args) == 0 {
		return fmt.Errorf("missing name")
	}
	u.log("DeclareScript(%v)", args)
	return nil
}

func (u *testUser) Stylesheets() []string {
	return u.css.List()
}

func (u *testUser) Javascripts() []string {
	return u.js.List()
}

func (u *testUser) Script() (string, error) {
	return strings.Join(u.scripts, "\n"), nil
}

func (u *testUser) ScriptAutoload() string {
	return "load(" + strings.Join(append(u.css.List(), u.js.List()...), ",") + ");\n"
}

func (u *testUser) Trans(text string, vars map[string]any, domain string) string {
	var keys []string
	for k, v := range vars {
		keys = append(keys, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(keys)
	return text + "[" + strings.Join(keys, ",") + "]" + domain
}

func (u *testUser) URL(name string, options map[string]any) string {
	return "/" + name
}

func (u *testUser) debug() string {
	return strings.Join(u.calls, "\n")
}

// testScope a scope with a new testUser
func testScope() (*sht.Scope, *testUser) {
	user := &testUser{}
	scope := sht.NewRootScope()
	WithAssetUser(scope, user)
	return scope, user
}
