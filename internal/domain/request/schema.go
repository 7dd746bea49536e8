// Where: internal/domain/request/schema.go
// What: JSON schema for the invocation payload and the decode entrypoint.
// Why: Reject wrongly shaped input at the boundary with field-level messages.
package request

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const schemaURL = "versionsync://payload.schema.json"

//go:embed payload.schema.json
var payloadSchema string

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Decode parses a JSON or YAML payload, checks it against the payload schema
// and decodes it. Empty input decodes to the zero Payload.
func Decode(raw []byte) (Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Payload{}, nil
	}

	jsonData, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return Payload{}, &ConfigError{Problems: []Problem{{Field: "payload", Reason: fmt.Sprintf("not valid JSON or YAML: %v", err)}}}
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return Payload{}, &ConfigError{Problems: []Problem{{Field: "payload", Reason: err.Error()}}}
	}

	sch, err := loadSchema()
	if err != nil {
		return Payload{}, fmt.Errorf("load payload schema: %w", err)
	}
	if err := sch.Validate(document); err != nil {
		return Payload{}, &ConfigError{Problems: schemaProblems(err)}
	}

	var payload Payload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return Payload{}, &ConfigError{Problems: []Problem{{Field: "payload", Reason: err.Error()}}}
	}
	return payload, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, payloadSchema)
	})
	return compiledSchema, schemaErr
}

func schemaProblems(err error) []Problem {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []Problem{{Field: "payload", Reason: err.Error()}}
	}
	var out []Problem
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Problem{Field: fieldName(e.InstanceLocation), Reason: e.Message})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return out
}

func fieldName(instanceLocation string) string {
	field := strings.Trim(instanceLocation, "/")
	if field == "" {
		return "payload"
	}
	return strings.ReplaceAll(field, "/", ".")
}
