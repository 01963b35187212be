package layering

// Merged is the outcome of flattening a chain: one value per option name and
// the layer that supplied it.
type Merged struct {
	Values  map[string]any
	Origins map[string]Layer
}

// Merge flattens the chain. An option set in a stronger layer replaces the
// weaker value as a whole; mappings are not merged key by key. Values are
// deep-copied so the result never aliases a layer.
func (c Chain) Merge() Merged {
	merged := Merged{
		Values:  map[string]any{},
		Origins: map[string]Layer{},
	}
	for i := len(c.ordered) - 1; i >= 0; i-- {
		layer := c.ordered[i]
		for name, value := range layer.Values {
			merged.Values[name] = cloneValue(value)
			merged.Origins[name] = Layer{Level: layer.Level, Origin: layer.Origin}
		}
	}
	return merged
}

// MergeLayers composes value maps ordered from strongest to weakest.
func MergeLayers(layers ...map[string]any) map[string]any {
	out := map[string]any{}
	for i := len(layers) - 1; i >= 0; i-- {
		for name, value := range layers[i] {
			out[name] = cloneValue(value)
		}
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for key, item := range typed {
			clone[key] = cloneValue(item)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, item := range typed {
			clone[i] = cloneValue(item)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}
