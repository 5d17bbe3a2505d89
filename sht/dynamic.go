package sht

// Dynamic represents a dynamic part of a Compiled
type Dynamic interface {
	// Exec a function that takes a scope argument, and returns the dynamic content.
	// @return nil, string, *Compiled, *Rendered, Deferred
	Exec(scope *Scope) interface{}
}

// DynamicFunc allows to use a function as a Dynamic
type DynamicFunc func(scope *Scope) interface{}

func (f DynamicFunc) Exec(scope *Scope) interface{} {
	return f(scope)
}

// DynamicCompiled a dynamic that just executes a compiled
type DynamicCompiled struct {
	Compiled *Compiled
}

func (d *DynamicCompiled) Exec(scope *Scope) interface{} {
	return d.Compiled.Exec(scope)
}

// Deferred content that is only known after the whole template has been executed (eg. the list of assets used by
// the page, written in the <head>). Resolved when the Rendered is written.
type Deferred interface {
	Resolve() string
}

// DeferredFunc allows to use a function as a Deferred
type DeferredFunc func() string

func (f DeferredFunc) Resolve() string {
	return f()
}

// DeferredRendered a Rendered whose only content is resolved on write
func DeferredRendered(fn func() string) *Rendered {
	return &Rendered{
		Static:   &[]string{"", ""},
		Dynamics: []interface{}{DeferredFunc(fn)},
	}
}
