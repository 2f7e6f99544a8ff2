package settings

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// ErrEmptyDocument is returned when FromYAML receives no data.
var ErrEmptyDocument = errors.New("settings: empty yaml document")

// FromYAML parses a YAML document into the nested mapping shape New expects
// for the static configuration.
func FromYAML(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	var static map[string]any
	if err := yaml.Unmarshal(data, &static); err != nil {
		return nil, fmt.Errorf("settings: parse yaml: %w", err)
	}
	return static, nil
}
