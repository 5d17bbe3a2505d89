package sht

import (
	"sort"
)

// Directives groups the list of registered directives
type Directives struct {
	parent *Directives
	list   []*Directive
	byName map[string][]*Directive
}

// Contains checks if this directive is already registered in this list or in the parent list
func (d *Directives) Contains(directive *Directive) bool {
	for _, o := range d.list {
		if o == directive {
			return true
		}
	}
	if d.parent != nil {
		return d.parent.Contains(directive)
	}
	return false
}

// Add a new directive.
func (d *Directives) Add(directive *Directive) {
	if d.Contains(directive) {
		return
	}
	directive.Normalize()
	d.list = append(d.list, directive)
	if d.byName == nil {
		d.byName = map[string][]*Directive{}
	}
	d.byName[directive.Name] = append(d.byName[directive.Name], directive)
}

// rawTextElements names of the element directives whose content is raw text
func (d *Directives) rawTextElements() []string {
	var names []string
	for ; d != nil; d = d.parent {
		for _, directive := range d.list {
			if directive.RawText && directive.Restrict&ELEMENT != 0 {
				names = append(names, directive.Name)
			}
		}
	}
	return names
}

// NewChild creates a new list, which keeps a reference to the current one
func (d *Directives) NewChild() *Directives {
	return &Directives{parent: d}
}

// collect Looks for directives on the given node, sorted by priority (higher first). Directives with priority
// greater or equal to maxPriority are ignored. Returns the names of the attributes that matched a directive.
func (d *Directives) collect(node *Node, maxPriority int) ([]*Directive, []string, error) {

	found := map[*Directive]bool{}
	var directives []*Directive
	add := func(directive *Directive) {
		if !found[directive] && directive.Priority < maxPriority {
			found[directive] = true
			directives = append(directives, directive)
		}
	}

	// use the node name: <directive>
	for _, directive := range d.lookup(NormalizeName(node.Data), ELEMENT) {
		add(directive)
	}

	// iterate over the attributes
	var attrNames []string
	for _, attr := range node.Attributes.List() {
		matches := d.lookup(attr.Name, ATTRIBUTE)
		for _, directive := range matches {
			add(directive)
		}
		if len(matches) > 0 {
			attrNames = append(attrNames, attr.Name)
			continue
		}

		interpolate, err := attrInterpolateDirective(attr.Name, attr.Value)
		if err != nil {
			return nil, nil, err
		}
		if interpolate != nil {
			add(interpolate)
		}
	}

	sort.SliceStable(directives, func(i, j int) bool {
		a, b := directives[i], directives[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Name < b.Name
	})

	return directives, attrNames, nil
}

func (d *Directives) lookup(name string, location DirectiveRestrict) []*Directive {
	var out []*Directive
	for _, definition := range d.byName[name] {
		if definition.Restrict&location != 0 {
			out = append(out, definition)
		}
	}
	if d.parent != nil {
		out = append(out, d.parent.lookup(name, location)...)
	}
	return out
}

// attrInterpolateDirective creates a directive that interpolates the value of an attribute, nil when the value has
// no expression. Values are escaped once, by Attributes.Render.
func attrInterpolateDirective(name string, value string) (*Directive, error) {
	interpolateFn, err := InterpolateRaw(value)
	if err != nil {
		return nil, err
	}

	// no interpolation found -> ignore
	if interpolateFn == nil {
		return nil, nil
	}

	return &Directive{
		Name:     "attr-interpolate:" + name,
		Priority: 100,
		Process: func(scope *Scope, attrs *Attributes, transclude TranscludeFunc) *Rendered {
			compiled := interpolateFn

			// the attribute was updated by another directive
			if current := attrs.Get(name); current != value {
				var err error
				if compiled, err = InterpolateRaw(current); err != nil || compiled == nil {
					return nil
				}
			}

			attrs.Set(name, compiled.Exec(scope).String())
			return nil
		},
	}, nil
}
