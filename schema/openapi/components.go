package openapi

import (
	"sort"

	opts "github.com/goliatone/go-siteopts"
)

// componentRegistry publishes the shared schemas for option types that carry
// a textual encoding. Only types referenced by the registry are emitted.
type componentRegistry struct {
	used map[string]map[string]any
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{used: map[string]map[string]any{}}
}

var typeComponents = map[opts.Type]struct {
	name   string
	schema map[string]any
}{
	opts.TypeIPAddress: {
		name: "IPAddress",
		schema: map[string]any{
			"type":        "string",
			"format":      "ip-address",
			"description": "IPv4 or IPv6 address",
		},
	},
	opts.TypeIPNetwork: {
		name: "IPNetwork",
		schema: map[string]any{
			"type":        "string",
			"format":      "ip-network",
			"description": "Network in CIDR notation; host bits may be set",
		},
	},
	opts.TypeIPRange: {
		name: "IPRange",
		schema: map[string]any{
			"type":        "string",
			"format":      "ip-range",
			"description": "Inclusive address range written first-last",
		},
	},
	opts.TypeDuration: {
		name: "Duration",
		schema: map[string]any{
			"oneOf": []any{
				map[string]any{"type": "number", "description": "seconds"},
				map[string]any{"type": "string", "format": "duration"},
			},
		},
	},
}

// reference returns the $ref for t, or "" when t is described inline.
func (r *componentRegistry) reference(t opts.Type) string {
	component, ok := typeComponents[t]
	if !ok {
		return ""
	}
	r.used[component.name] = component.schema
	return "#/components/schemas/" + component.name
}

func (r *componentRegistry) publish(name string, schema map[string]any) string {
	r.used[name] = schema
	return "#/components/schemas/" + name
}

func (r *componentRegistry) names() []string {
	names := make([]string, 0, len(r.used))
	for name := range r.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *componentRegistry) componentsMap() map[string]any {
	if len(r.used) == 0 {
		return nil
	}
	out := make(map[string]any, len(r.used))
	for _, name := range r.names() {
		out[name] = r.used[name]
	}
	return out
}
