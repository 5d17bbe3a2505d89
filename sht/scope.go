package sht

// Scope data available to expressions and directives during the execution of a Compiled
type Scope struct {
	Context *Context // allows directives to save context information during execution
	root    *Scope
	parent  *Scope
	data    map[string]interface{}
}

func NewRootScope() *Scope {
	scope := &Scope{
		Context: NewContext(),
		data:    map[string]interface{}{},
	}
	scope.root = scope
	return scope
}

// New creates a child scope sharing the same Context. When isolate is true the child does not see the values of
// this scope.
func (s *Scope) New(isolate bool) *Scope {
	child := &Scope{
		Context: s.Context,
		root:    s.root,
		data:    map[string]interface{}{},
	}
	if !isolate {
		child.parent = s
	}
	return child
}

// Root the scope created by NewRootScope
func (s *Scope) Root() *Scope {
	return s.root
}

// Get a value from scope or parent scope
func (s *Scope) Get(key string) (value interface{}, exists bool) {
	value, exists = s.data[key]
	if !exists && s.parent != nil {
		value, exists = s.parent.Get(key)
	}
	return
}

// Set a value in scope. When a parent scope already has the key, the value is changed there.
func (s *Scope) Set(key string, value interface{}) {
	if s.root == s {
		// fast
		s.data[key] = value
		return
	}

	for ref := s; ref != nil; ref = ref.parent {
		if _, exists := ref.data[key]; exists {
			ref.data[key] = value
			return
		}
	}
	s.data[key] = value
}

// SetLocal a value in this scope only, shadowing parent values
func (s *Scope) SetLocal(key string, value interface{}) {
	s.data[key] = value
}

// Fetch used by expressions https://github.com/antonmedv/expr/blob/master/docs/Optimizations.md#reduced-use-of-reflect
func (s *Scope) Fetch(key interface{}) interface{} {
	if keyStr, ok := key.(string); ok {
		value, exists := s.Get(keyStr)
		if exists {
			return value
		}
	}
	return ""
}
