package script

import (
	"encoding/json"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
)

// Loader loads stylesheets and javascripts from the browser, javascripts one after the other
type Loader struct {
	stylesheets cmn.IndexedSet[string]
	javascripts cmn.IndexedSet[string]
}

func (l *Loader) AddStylesheet(url string) {
	if url != "" {
		l.stylesheets.Add(url)
	}
}

func (l *Loader) AddJavascript(url string) {
	if url != "" {
		l.javascripts.Add(url)
	}
}

func (l *Loader) Stylesheets() []string {
	return l.stylesheets.ToArray()
}

func (l *Loader) Javascripts() []string {
	return l.javascripts.ToArray()
}

// Autoload the loader code. When all javascripts are loaded the "ntjs:loaded" event is dispatched on document.
func (l *Loader) Autoload() string {
	if l.stylesheets.IsEmpty() && l.javascripts.IsEmpty() {
		return ""
	}

	b := &strings.Builder{}
	b.WriteString("(function (d) {\n")
	b.WriteString("  var css = ")
	b.WriteString(jsonArray(l.stylesheets.ToArray()))
	b.WriteString(", js = ")
	b.WriteString(jsonArray(l.javascripts.ToArray()))
	b.WriteString(";\n")
	b.WriteString(`  css.forEach(function (href) {
    if (d.querySelector('link[href="' + href + '"]')) return;
    var e = d.createElement('link');
    e.rel = 'stylesheet';
    e.href = href;
    d.head.appendChild(e);
  });
  (function next(i) {
    if (i >= js.length) {
      d.dispatchEvent(new Event('ntjs:loaded'));
      return;
    }
    var e = d.createElement('script');
    e.src = js[i];
    e.onload = function () { next(i + 1); };
    d.head.appendChild(e);
  })(0);
})(document);
`)
	return b.String()
}

func jsonArray(items []string) string {
	if items == nil {
		items = []string{}
	}
	// []string always marshals
	out, _ := json.Marshal(items)
	return string(out)
}
