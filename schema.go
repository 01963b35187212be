package opts

import (
	"fmt"
)

// SchemaFormat identifies the document produced by a SchemaGenerator.
type SchemaFormat string

const (
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	SchemaFormatOpenAPI     SchemaFormat = "openapi"
)

// SchemaDocument wraps a generated schema.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator describes a registry in some schema format.
type SchemaGenerator interface {
	Generate(registry *Registry) (SchemaDocument, error)
}

// FieldDescriptor summarises one option for listings.
type FieldDescriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Default     string   `json:"default" yaml:"default"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
	Static      bool     `json:"static_check" yaml:"static_check"`
	Runtime     bool     `json:"runtime_check" yaml:"runtime_check"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Describe lists the registry in registration order.
func Describe(registry *Registry) []FieldDescriptor {
	fields := make([]FieldDescriptor, 0, registry.Len())
	for d := range registry.All() {
		fields = append(fields, FieldDescriptor{
			Name:        d.Name,
			Type:        d.Type.String(),
			Default:     DefaultKind(d),
			References:  d.References(),
			Static:      d.StaticCheck != nil,
			Runtime:     d.RuntimeCheck != nil,
			Description: d.Description,
		})
	}
	return fields
}

// DefaultKind names how d obtains a value without an override: none,
// literal, alias, template, expression, compute or deferred.
func DefaultKind(d Descriptor) string {
	switch d.Default.(type) {
	case nil:
		return "none"
	case alias:
		return "alias"
	case template:
		return "template"
	case expression:
		return "expression"
	case compute:
		return "compute"
	case Deferred:
		return "deferred"
	default:
		return "literal"
	}
}

// DefaultSchemaGenerator returns the descriptor listing generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(registry *Registry) (SchemaDocument, error) {
	if registry == nil {
		return SchemaDocument{}, fmt.Errorf("opts: schema: %w", ErrNilRegistry)
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: Describe(registry),
	}, nil
}
