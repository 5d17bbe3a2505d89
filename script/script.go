package script

import (
	"strings"
)

// Script a named inline script declared while rendering a page
type Script struct {
	name     string
	included bool
	depends  []string
	content  strings.Builder
}

// Name of the script
func (s *Script) Name() string {
	return s.name
}

// Include marks the script to be part of the output
func (s *Script) Include() *Script {
	s.included = true
	return s
}

// IsIncluded checks if the script will be part of the output
func (s *Script) IsIncluded() bool {
	return s.included
}

// DependsOn adds dependencies (scripts or packages), ignoring blank and repeated names
func (s *Script) DependsOn(depends ...string) *Script {
	for _, dep := range depends {
		dep = strings.TrimSpace(dep)
		if dep == "" || s.dependsOn(dep) {
			continue
		}
		s.depends = append(s.depends, dep)
	}
	return s
}

func (s *Script) dependsOn(name string) bool {
	for _, dep := range s.depends {
		if dep == name {
			return true
		}
	}
	return false
}

// Dependencies names of the dependencies, in declaration order
func (s *Script) Dependencies() []string {
	return append([]string{}, s.depends...)
}

// Add appends inline code to the script
func (s *Script) Add(content string) *Script {
	content = strings.TrimSpace(content)
	if content == "" {
		return s
	}
	if s.content.Len() > 0 {
		s.content.WriteByte('\n')
	}
	s.content.WriteString(content)
	return s
}

// Content the inline code of the script
func (s *Script) Content() string {
	return s.content.String()
}
