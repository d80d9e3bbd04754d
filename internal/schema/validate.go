package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Check parses and compiles a JSON schema document, reporting why it is not
// usable as a tool parameter schema.
func Check(schemaJSON string) error {
	if len(schemaJSON) == 0 {
		return fmt.Errorf("empty schema")
	}
	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader([]byte(schemaJSON))); err != nil {
		return fmt.Errorf("schema resource: %w", err)
	}
	if _, err := c.Compile("schema.json"); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}

// Validate checks a JSON document against a schema. An empty schema accepts
// any document.
func Validate(schemaJSON string, raw json.RawMessage) error {
	if len(schemaJSON) == 0 {
		return nil
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty json")
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader([]byte(schemaJSON))); err != nil {
		return fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return s.Validate(doc)
}
