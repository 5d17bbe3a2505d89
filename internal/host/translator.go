// Package host provides the translation and route services of the demo host.
package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/syntax-framework/ntjs/cmn"
)

// DefaultDomain domain used when none is informed
const DefaultDomain = "messages"

// Translator messages by domain, loaded from <domain>.yaml files. Nested keys are joined with ".".
type Translator struct {
	mu      sync.RWMutex
	domains map[string]map[string]string
}

func NewTranslator() *Translator {
	return &Translator{domains: map[string]map[string]string{}}
}

// LoadTranslator loads every .yaml/.yml file of the directory. A missing directory gives an empty translator.
func LoadTranslator(dir string) (*Translator, error) {
	t := NewTranslator()
	if err := t.Load(dir); err != nil {
		return nil, err
	}
	return t, nil
}

// Load replaces the catalogs with the files of the directory
func (t *Translator) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("translations directory not found", "dir", dir)
			t.replace(map[string]map[string]string{})
			return nil
		}
		return fmt.Errorf("reading translations %s: %w", dir, err)
	}

	domains := map[string]map[string]string{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		file := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading translations %s: %w", file, err)
		}
		messages, err := ParseMessages(data)
		if err != nil {
			return fmt.Errorf("translations %s: %w", file, err)
		}
		domains[strings.TrimSuffix(entry.Name(), ext)] = messages
	}

	t.replace(domains)
	slog.Debug("translations loaded", "dir", dir, "domains", len(domains))
	return nil
}

func (t *Translator) replace(domains map[string]map[string]string) {
	t.mu.Lock()
	t.domains = domains
	t.mu.Unlock()
}

// Add messages to a domain
func (t *Translator) Add(domain string, messages map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.domains[domain] == nil {
		t.domains[domain] = map[string]string{}
	}
	for key, value := range messages {
		t.domains[domain][key] = value
	}
}

// ParseMessages flat key -> message map of a YAML document
func ParseMessages(data []byte) (map[string]string, error) {
	var tree map[string]any
	if err := cmn.UnmarshalYAML(data, &tree); err != nil {
		return nil, err
	}
	messages := map[string]string{}
	flatten("", tree, messages)
	return messages, nil
}

func flatten(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			flatten(joinKey(prefix, key), child, out)
		}
	case map[any]any:
		for key, child := range v {
			flatten(joinKey(prefix, fmt.Sprint(key)), child, out)
		}
	case nil:
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Trans the message of the key in the domain, or the key itself. Placeholders `:name` are replaced by the vars.
func (t *Translator) Trans(text string, vars map[string]any, domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}

	t.mu.RLock()
	message, exists := t.domains[domain][text]
	t.mu.RUnlock()
	if !exists {
		message = text
	}
	return Substitute(message, vars)
}

// Substitute replaces `:name` placeholders, longest names first so `:name` does not break `:names`
func Substitute(message string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(message, ":") {
		return message
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		message = strings.ReplaceAll(message, ":"+key, fmt.Sprint(vars[key]))
	}
	return message
}
