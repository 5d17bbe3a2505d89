package host

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Routes named path patterns, `/users/{id}`. Options fill the parameters, the remaining ones become the query.
type Routes struct {
	mu     sync.RWMutex
	routes map[string]string
}

func NewRoutes(routes map[string]string) *Routes {
	r := &Routes{routes: map[string]string{}}
	for name, pattern := range routes {
		r.routes[name] = pattern
	}
	return r
}

// Set adds or replaces a route
func (r *Routes) Set(name, pattern string) {
	r.mu.Lock()
	r.routes[name] = pattern
	r.mu.Unlock()
}

// URL path of the named route. Unknown routes give the name itself.
func (r *Routes) URL(name string, options map[string]any) string {
	r.mu.RLock()
	pattern, exists := r.routes[name]
	r.mu.RUnlock()
	if !exists {
		return name
	}

	query := url.Values{}
	for key, value := range options {
		param := "{" + key + "}"
		text := toString(value)
		if strings.Contains(pattern, param) {
			pattern = strings.ReplaceAll(pattern, param, url.PathEscape(text))
		} else {
			query.Set(key, text)
		}
	}
	if len(query) > 0 {
		// Encode sorts by key
		return pattern + "?" + query.Encode()
	}
	return pattern
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
