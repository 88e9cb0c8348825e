package knowledge

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"legal-workers/internal/common/validation"

	"gopkg.in/yaml.v3"
)

var fileSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["entries"],
	"properties": {
		"entries": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["keywords", "response"],
				"properties": {
					"id": {"type": "string"},
					"keywords": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
					"response": {"type": "string", "minLength": 1},
					"baseConfidence": {"type": "number", "minimum": 0, "maximum": 1},
					"suggestedActions": {"type": "array", "items": {"type": "string"}},
					"relatedSections": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`)

type file struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads a YAML knowledge base. A file without entries is rejected
// with ErrEmptyBase.
func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses, schema-checks and builds a Base from YAML.
func Load(r io.Reader) (*Base, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyBase
	}

	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	res, err := fileSchema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, res.Summary())
	}

	var parsed file
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if len(parsed.Entries) == 0 {
		return nil, ErrEmptyBase
	}

	return NewBase(parsed.Entries)
}

// Marshal renders a Base as YAML in the format Load accepts.
func Marshal(b *Base) ([]byte, error) {
	return yaml.Marshal(file{Entries: b.Entries()})
}
