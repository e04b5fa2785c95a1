package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/apigen/pkg/models"
)

// Input formats recognised by Decode.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatOpenAPI = "openapi"
)

// DetectFormat reports whether data looks like JSON or YAML. JSON documents
// start with '{' or '[' once leading whitespace is skipped.
func DetectFormat(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses a JSON or YAML schema document. It does not validate the
// result; call Validate on the returned schema.
func Decode(data []byte) (*models.Schema, error) {
	format := DetectFormat(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Format: format, Err: errors.New("empty document")}
	}

	var s models.Schema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
	default:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
		if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
			return nil, &DecodeError{Format: format, Err: fmt.Errorf("document root must be a mapping")}
		}
		if err := root.Decode(&s); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
	}

	return &s, nil
}
