package sht

import (
	"bytes"
	"strings"
)

// Attribute represents an html attribute
type Attribute struct {
	Name      string // normalized name, see NormalizeName
	Key       string // name as written in the template
	Value     string
	Namespace string
}

// Attributes abstraction of the attributes of an html Node, keeps the template order
type Attributes struct {
	list []*Attribute
}

func NewAttribute(key string, value string, namespace string) *Attribute {
	return &Attribute{
		Name:      NormalizeName(key),
		Key:       strings.TrimSpace(key),
		Value:     value,
		Namespace: namespace,
	}
}

func (a *Attributes) find(name string) *Attribute {
	if a == nil {
		return nil
	}
	name = NormalizeName(name)
	for _, attr := range a.list {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// Add appends an attribute, as is. Attributes without name are ignored.
func (a *Attributes) Add(attr *Attribute) {
	if attr.Name == "" {
		return
	}
	a.list = append(a.list, attr)
}

// List of attributes, in template order
func (a *Attributes) List() []*Attribute {
	if a == nil {
		return nil
	}
	return a.list
}

// Len number of attributes
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.list)
}

// Clone internal use, copy the attributes to be changed at runtime
func (a *Attributes) Clone() *Attributes {
	out := &Attributes{}
	for _, attr := range a.List() {
		clone := *attr
		out.list = append(out.list, &clone)
	}
	return out
}

func (a *Attributes) Get(name string) string {
	if attr := a.find(name); attr != nil {
		return attr.Value
	}
	return ""
}

func (a *Attributes) Exists(name string) bool {
	return a.find(name) != nil
}

func (a *Attributes) Set(name string, value string) {
	if attr := a.find(name); attr != nil {
		attr.Value = value
		return
	}
	a.Add(NewAttribute(name, value, ""))
}

// Remove the attribute from the list, returns the removed value
func (a *Attributes) Remove(name string) string {
	name = NormalizeName(name)
	for i, attr := range a.List() {
		if attr.Name == name {
			a.list = append(a.list[:i], a.list[i+1:]...)
			return attr.Value
		}
	}
	return ""
}

// HasClass Determine whether the element is assigned the given class.
func (a *Attributes) HasClass(value string) bool {
	for _, c := range strings.Fields(a.Get("class")) {
		if c == value {
			return true
		}
	}
	return false
}

// AddClass Adds the specified class(es) to element
func (a *Attributes) AddClass(value string) {
	classes := strings.Fields(a.Get("class"))
	changed := false
	for _, c := range strings.Fields(value) {
		if !a.HasClass(c) {
			classes = append(classes, c)
			changed = true
		}
	}
	if changed {
		a.Set("class", strings.Join(classes, " "))
	}
}

// RemoveClass Remove a single class or multiple classes from element
func (a *Attributes) RemoveClass(value string) {
	remove := CreateBoolMap(strings.Fields(value))
	if len(remove) == 0 {
		return
	}
	var classes []string
	for _, c := range strings.Fields(a.Get("class")) {
		if !remove[c] {
			classes = append(classes, c)
		}
	}
	a.Set("class", strings.Join(classes, " "))
}

// Render the attributes as html, values are escaped. Boolean attributes are written without value.
//
// Output: ` class="` + "a b" + `" disabled id="` + "main" + `"`
func (a *Attributes) Render() *Rendered {
	var static []string
	var dynamics []interface{}

	current := &bytes.Buffer{}
	for _, attr := range a.List() {
		current.WriteByte(' ')
		if attr.Namespace != "" {
			current.WriteString(attr.Namespace)
			current.WriteByte(':')
		}
		current.WriteString(attr.Key)

		if attr.Value == "" && HtmlBooleanAttributes[attr.Name] {
			continue
		}

		current.WriteString(`="`)
		static = append(static, current.String())
		dynamics = append(dynamics, HtmlEscape(attr.Value))

		current = &bytes.Buffer{}
		current.WriteByte('"')
	}
	static = append(static, current.String())

	return &Rendered{
		Static:   &static,
		Dynamics: dynamics,
	}
}
