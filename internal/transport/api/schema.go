package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/slok/webgen/internal/transport"
)

// responseValidator checks the generation service response shape: a JSON
// object with a non empty string field holding the HTML.
type responseValidator struct {
	field  string
	schema *gojsonschema.Schema
}

func newResponseValidator(field string) (*responseValidator, error) {
	raw := map[string]any{
		"type":     "object",
		"required": []string{field},
		"properties": map[string]any{
			field: map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compiling response schema: %w", err)
	}

	return &responseValidator{field: field, schema: schema}, nil
}

func (r *responseValidator) artifact(data []byte) (string, error) {
	result, err := r.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// Not even JSON.
		return "", fmt.Errorf("%w: %s", transport.ErrMalformedResponse, err)
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return "", fmt.Errorf("%w: %s", transport.ErrMalformedResponse, strings.Join(errs, "; "))
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("%w: %s", transport.ErrMalformedResponse, err)
	}

	var artifact string
	if err := json.Unmarshal(body[r.field], &artifact); err != nil {
		return "", fmt.Errorf("%w: %s", transport.ErrMalformedResponse, err)
	}

	return artifact, nil
}
