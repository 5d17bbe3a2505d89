package sht

import (
	"strings"
)

// TranscludeFunc function available in the Process method when the directive has transclude
type TranscludeFunc func(slot string, preRender func(scope *Scope)) *Rendered

// DirectiveProcessFunc function executed before rendering the element associated with a directive.
// When the directive is transclude, the original content is replaced at runtime by the returned Rendered
type DirectiveProcessFunc func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) (rendered *Rendered)

// DirectiveLeaveFunc function executed after rendering the element associated with a directive
type DirectiveLeaveFunc func(scope *Scope)

// DirectiveCompileFunc a function that visits an html element and can make adjustments to the template at compile
// time
type DirectiveCompileFunc func(node *Node, attrs *Attributes, c *Compiler) (*DirectiveMethods, error)

type directiveProcessInfo struct {
	name       string
	callback   DirectiveProcessFunc
	transclude bool // when true, the transclude parameter will be created for this execution
}

// DirectiveRestrict The directive must be found in specific location.
type DirectiveRestrict uint8

const (
	ELEMENT   DirectiveRestrict = 1 << iota // element name
	ATTRIBUTE                               // attribute
)

// DirectiveMethods returned by the Compile function, override the Directive methods
type DirectiveMethods struct {
	Process DirectiveProcessFunc
	Leave   DirectiveLeaveFunc
}

// Directive extends the html with custom elements and attributes
//
// https://code.tutsplus.com/tutorials/mastering-angularjs-directives--cms-22511
type Directive struct {
	Name string
	// When there are multiple Directives defined on a single HTML node, sometimes it is necessary to specify the order
	// in which the Directives are applied. The Priority is used to sort the Directives before their Compile functions
	// get called. Directive with greater numerical priority are compiled first. The default priority is 0.
	Priority int
	Restrict DirectiveRestrict
	// true - transclude the child nodes of the directive's element.
	// "element" - transclude the whole of the directive's element including any directives on this element that are
	// defined at a lower priority than this directive.
	Transclude interface{}
	// If set to true then the current priority will be the last set of Directives which will execute (any Directive at
	// the current priority will still execute). The child nodes of the element are not compiled.
	Terminal bool
	// Element directives only. The content of the element is not parsed as html, it is kept as text, the way the
	// content of <script> is.
	RawText bool
	// When true, a new child scope that inherits from its parent will be created for the directive's element.
	Scope   bool
	Compile DirectiveCompileFunc
	Process DirectiveProcessFunc
	Leave   DirectiveLeaveFunc
}

func (d *Directive) Normalize() {
	d.Name = strings.ToLower(strings.TrimSpace(d.Name))
	if d.Priority < 0 {
		d.Priority = 0
	}
	if d.Restrict == 0 {
		d.Restrict = ELEMENT | ATTRIBUTE
	}
}

// DynamicDirectives dynamic part that runs the directives of a Node
type DynamicDirectives struct {
	attrs           *Attributes // template attrs
	hidden          []string    // attributes that are not rendered
	scope           bool
	terminal        bool
	transclude      bool
	process         []*directiveProcessInfo
	leave           []DirectiveLeaveFunc
	transcludeSlots map[string]*Compiled
}

func (nd *DynamicDirectives) Exec(scope *Scope) interface{} {
	attrs := nd.attrs.Clone()

	if nd.scope {
		scope = scope.New(false)
	}

	var rendered *Rendered

	// PROCESS
	for _, info := range nd.process {
		if !info.transclude {
			info.callback(scope, attrs, nil)
		} else {
			rendered = info.callback(scope, attrs, createTranscludeFn(scope, nd.transcludeSlots))
		}
	}

	// LEAVE
	for _, leave := range nd.leave {
		leave(scope)
	}

	if nd.transclude {
		return rendered
	}
	for _, name := range nd.hidden {
		attrs.Remove(name)
	}
	return attrs.Render()
}

func createTranscludeFn(scope *Scope, slots map[string]*Compiled) TranscludeFunc {
	return func(slot string, preRender func(scope *Scope)) *Rendered {
		if slot == "" {
			slot = "*"
		}

		compiled, exist := slots[slot]
		if !exist {
			return nil
		}

		scopeT := scope
		if preRender != nil {
			scopeT = scope.New(false)
			preRender(scopeT)
		}

		return compiled.Exec(scopeT)
	}
}
