package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON Schema every config file must satisfy.
const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"api_key": {"type": "string"},
		"database_url": {"type": "string"},
		"locations": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"minItems": 1
		},
		"limit": {"type": "integer", "minimum": 30, "maximum": 50},
		"relay_url": {"type": "string"},
		"interval_seconds": {"type": "integer", "minimum": 1},
		"run_at_start": {"type": "boolean"},
		"port": {"type": "integer", "minimum": 1, "maximum": 65535},
		"seen_max_entries": {"type": "integer", "minimum": 1},
		"seen_ttl_seconds": {"type": "integer", "minimum": 1},
		"verbose": {"type": "boolean"}
	}
}`

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateConfigBytes validates raw config file content against the schema.
func ValidateConfigBytes(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
