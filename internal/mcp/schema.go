package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

// inputSchema builds the tool input schema from the catalog parameter specs.
// Additional properties are allowed: read tools turn unknown keys into
// filter[key] query parameters and write tools send them as attributes.
func inputSchema(spec persona.ToolSpec) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(spec.Params))
	var required []string
	for _, p := range spec.Params {
		props[p.Name] = paramSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{
		Type:        "object",
		Description: spec.Description,
		Properties:  props,
		Required:    required,
	}
}

func paramSchema(p persona.ParamSpec) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        p.Type,
		Description: p.Description,
	}
	switch p.Type {
	case persona.TypeArray:
		item := p.Items
		if item == "" {
			item = persona.TypeString
		}
		s.Items = &jsonschema.Schema{Type: item}
		if p.AcceptString {
			s.Type = ""
			s.Types = []string{persona.TypeString, persona.TypeArray}
		}
	case persona.TypeString:
		if p.Required {
			minLen := 1
			s.MinLength = &minLen
		}
	}
	return s
}

// resolveSchema resolves a tool schema once at registration.
func resolveSchema(spec persona.ToolSpec, schema *jsonschema.Schema) (*jsonschema.Resolved, error) {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve %s input schema: %w", spec.Name, err)
	}
	return resolved, nil
}

// parseArguments decodes raw tool arguments. Absent and null arguments are an
// empty invocation.
func parseArguments(tool string, raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, &argumentError{tool: tool, reason: "arguments must be a JSON object"}
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// validateArguments checks args against the resolved input schema.
func validateArguments(tool string, schema *jsonschema.Resolved, args map[string]any) error {
	if schema == nil {
		return nil
	}
	if err := schema.Validate(args); err != nil {
		return &argumentError{tool: tool, reason: err.Error()}
	}
	return nil
}
