package sht

import (
	"fmt"
	"log/slog"
)

// TemplateSystem configuration, loading and compilation of templates
type TemplateSystem struct {
	Loader         func(filepath string) (string, error)
	Directives     *Directives
	TextDirectives *TextDirectives
}

// NewTemplateSystem creates a system whose directives inherit from the informed lists (that can be nil)
func NewTemplateSystem(
	loader func(filepath string) (string, error), directives *Directives, textDirectives *TextDirectives,
) *TemplateSystem {
	if directives == nil {
		directives = &Directives{}
	}
	if textDirectives == nil {
		textDirectives = &TextDirectives{}
	}
	return &TemplateSystem{
		Loader:         loader,
		Directives:     directives.NewChild(),
		TextDirectives: textDirectives.NewChild(),
	}
}

// Register a directive in this system
func (s *TemplateSystem) Register(directive *Directive) {
	s.Directives.Add(directive)
}

// RegisterText register a text directive in this system
func (s *TemplateSystem) RegisterText(directive *TextDirective) {
	s.TextDirectives.Add(directive)
}

// Load load an html file
func (s *TemplateSystem) Load(filepath string) (string, error) {
	if s.Loader == nil {
		return "", fmt.Errorf("sht: no loader to load %q", filepath)
	}
	return s.Loader(filepath)
}

// Compile loads and compiles a template file. The returned Context holds the information saved by directives at
// compile time, including the compile metric.
func (s *TemplateSystem) Compile(filepath string) (*Compiled, *Context, error) {
	content, err := s.Load(filepath)
	if err != nil {
		return nil, nil, err
	}
	return s.CompileString(content, filepath)
}

// CompileString compiles the template content, filepath is used to resolve relative resources and in messages
func (s *TemplateSystem) CompileString(content string, filepath string) (*Compiled, *Context, error) {
	compiler := NewCompiler(s)

	var compiled *Compiled
	err := compiler.Context.Timing.Measure("compile", "Template compile", func() (err error) {
		compiled, err = compiler.Compile(content, filepath)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("template compiled", "file", filepath, "dynamics", len(compiled.dynamics), "assets", len(compiled.Assets))

	return compiled, compiler.Context, nil
}

// NewScope creates a new scope that can be used to render a compiled
func (s *TemplateSystem) NewScope() *Scope {
	return NewRootScope()
}
