package openapi

import (
	"fmt"

	opts "github.com/goliatone/go-siteopts"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator that describes the override document
// accepted for a registry as an OpenAPI request body.
func NewGenerator(options ...GeneratorOption) opts.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return generator{config: cfg}
}

func (g generator) Generate(registry *opts.Registry) (opts.SchemaDocument, error) {
	if registry == nil {
		return opts.SchemaDocument{}, fmt.Errorf("openapi: %w", opts.ErrNilRegistry)
	}
	builder := newOpenAPIDocumentBuilder(g.config, newComponentRegistry(), registry)
	document, err := builder.build()
	if err != nil {
		return opts.SchemaDocument{}, err
	}
	return opts.SchemaDocument{
		Format:   opts.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}

// optionSchema describes the override accepted for one option.
func optionSchema(d opts.Descriptor, components *componentRegistry) map[string]any {
	schema := typeSchema(d.Type, components)
	if d.Description != "" {
		schema["description"] = d.Description
	}
	if _, deferred := d.Deferred(); deferred {
		schema["x-deferred"] = map[string]any{
			"kind":       opts.DefaultKind(d),
			"references": toAnyList(d.References()),
		}
	} else if d.HasDefault() {
		if v, err := opts.Coerce(d.Type, d.Default); err == nil {
			schema["default"] = v.Plain()
		}
	}
	return schema
}

func typeSchema(t opts.Type, components *componentRegistry) map[string]any {
	if ref := components.reference(t); ref != "" {
		// 3.0 ignores siblings of $ref, so wrap it to keep description and default.
		return map[string]any{
			"allOf": []any{map[string]any{"$ref": ref}},
		}
	}
	switch t {
	case opts.TypeString:
		return map[string]any{"type": "string"}
	case opts.TypeBool:
		return map[string]any{"type": "boolean"}
	case opts.TypeInteger:
		return map[string]any{"type": "integer"}
	case opts.TypeMapping:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{},
		}
	case opts.TypeSequence:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{},
		}
	default:
		return map[string]any{}
	}
}

func toAnyList(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
