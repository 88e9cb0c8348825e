package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const querySchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string"},
		"language": {"type": "string", "maxLength": 16}
	}
}`

func TestSchema_ValidateRaw(t *testing.T) {
	s := MustCompile(querySchema)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"valid", `{"query":"what is bail","language":"hindi"}`, true},
		{"empty query allowed", `{"query":""}`, true},
		{"missing query", `{"language":"hindi"}`, false},
		{"wrong type", `{"query":42}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateRaw([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Contains(t, res.Summary(), "query")
			} else {
				assert.Empty(t, res.Summary())
			}
		})
	}
}

func TestSchema_ValidateGoValue(t *testing.T) {
	s := MustCompile(querySchema)
	res, err := s.Validate(map[string]interface{}{"query": "bail", "language": "a-very-long-language-tag"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "language", res.Errors[0].Field)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestSchema_ValidateRaw_MalformedDocument(t *testing.T) {
	s := MustCompile(querySchema)
	_, err := s.ValidateRaw([]byte(`{"query":`))
	assert.Error(t, err)
}
