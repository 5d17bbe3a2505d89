package cmn

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxYAMLSize limits catalog files read as YAML (1MB)
var MaxYAMLSize = 1 << 20

var (
	ErrYAMLEmpty    = errors.New("yaml: nil or empty data")
	ErrYAMLTooLarge = errors.New("yaml: input exceeds maximum size")
)

// UnmarshalYAML parses a YAML document into v
func UnmarshalYAML(data []byte, v any) error {
	if len(data) == 0 {
		return ErrYAMLEmpty
	}
	if len(data) > MaxYAMLSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrYAMLTooLarge, len(data), MaxYAMLSize)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}
