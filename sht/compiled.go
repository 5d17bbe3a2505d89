package sht

import (
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
)

// Compiled structure representing a Compiled template
type Compiled struct {
	Assets      []*cmn.Asset // Reference to all resources that can be used by this compiled
	static      []string     // a list of literal strings
	dynamics    []Dynamic    // functions to get the dynamics part of this Compiled
	fingerprint string       // used to identify the static part of this Compiled
	root        bool
}

// Exec the rendering of the Compiled, applying the informed scope
func (c *Compiled) Exec(scope *Scope) *Rendered {
	out := &Rendered{
		Root:        c.root,
		Static:      &c.static, // never change
		Dynamics:    make([]interface{}, len(c.dynamics)),
		Fingerprint: c.Fingerprint(),
	}

	for i, dynamic := range c.dynamics {
		switch result := dynamic.Exec(scope).(type) {
		case nil:
		case string:
			out.Dynamics[i] = result
		case *Rendered:
			if result != nil {
				out.Dynamics[i] = result
				out.Assets = append(out.Assets, result.Assets...)
				result.Assets = nil
			}
		case *Compiled:
			if result != nil {
				rendered := result.Exec(scope)
				out.Dynamics[i] = rendered
				out.Assets = append(out.Assets, rendered.Assets...)
				rendered.Assets = nil
			}
		default:
			out.Dynamics[i] = result
		}
	}

	return out
}

func newCompiled(static []string, dynamics []Dynamic) *Compiled {
	return &Compiled{
		static:      static,
		dynamics:    dynamics,
		fingerprint: HashXXH64([]byte(strings.Join(static, ""))),
	}
}

// Fingerprint Get static fingerprint
func (c *Compiled) Fingerprint() string {
	return c.fingerprint
}

// IsStatic true when the compiled has no dynamic part
func (c *Compiled) IsStatic() bool {
	return len(c.dynamics) == 0
}
