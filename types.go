package opts

import (
	"net/netip"
	"strconv"
	"time"
)

// Type is the declared type of an option. TypeAny accepts values verbatim.
type Type int

const (
	TypeAny Type = iota
	TypeString
	TypeBool
	TypeInteger
	TypeIPAddress
	TypeIPNetwork
	TypeDuration
	TypeIPRange
	TypeMapping
	TypeSequence
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "integer"
	case TypeIPAddress:
		return "ip-address"
	case TypeIPNetwork:
		return "ip-network"
	case TypeDuration:
		return "duration"
	case TypeIPRange:
		return "ip-range"
	case TypeMapping:
		return "mapping"
	case TypeSequence:
		return "sequence"
	default:
		return "any"
	}
}

// Shape decides how a value is serialized.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeScalar
	ShapeMapping
	ShapeSequence
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeMapping:
		return "mapping"
	case ShapeSequence:
		return "sequence"
	default:
		return "other"
	}
}

// ScalarKind refines ShapeScalar values.
type ScalarKind int

const (
	KindNone ScalarKind = iota
	KindString
	KindBool
	KindInteger
	KindIPAddress
	KindIPNetwork
)

// Entry is one key of a mapping value, in insertion order.
type Entry struct {
	Key   string
	Value Value
}

// Value is a classified option value. The shape is assigned once when the
// value is coerced and never inferred again.
type Value struct {
	shape    Shape
	kind     ScalarKind
	scalar   any
	entries  []Entry
	elements []Value
}

// Shape returns the serialization shape.
func (v Value) Shape() Shape { return v.shape }

// Kind returns the scalar kind, KindNone for non-scalars.
func (v Value) Kind() ScalarKind { return v.kind }

// IsScalar reports whether v is one of the shell scalar kinds.
func (v Value) IsScalar() bool { return v.shape == ShapeScalar }

// Entries returns mapping entries in order. Nil for non-mappings.
func (v Value) Entries() []Entry {
	if v.shape != ShapeMapping {
		return nil
	}
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Lookup returns the mapping entry stored under key.
func (v Value) Lookup(key string) (Value, bool) {
	for _, entry := range v.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Elements returns sequence elements in order. Nil for non-sequences.
func (v Value) Elements() []Value {
	if v.shape != ShapeSequence {
		return nil
	}
	out := make([]Value, len(v.elements))
	copy(out, v.elements)
	return out
}

// Len reports the number of entries or elements; zero for scalars.
func (v Value) Len() int {
	switch v.shape {
	case ShapeMapping:
		return len(v.entries)
	case ShapeSequence:
		return len(v.elements)
	default:
		return 0
	}
}

// Native returns the Go representation: scalars as stored (string, bool,
// int64, netip.Addr, netip.Prefix, time.Duration, IPRange), mappings as
// map[string]any and sequences as []any.
func (v Value) Native() any {
	switch v.shape {
	case ShapeMapping:
		out := make(map[string]any, len(v.entries))
		for _, entry := range v.entries {
			out[entry.Key] = entry.Value.Native()
		}
		return out
	case ShapeSequence:
		out := make([]any, len(v.elements))
		for i, elem := range v.elements {
			out[i] = elem.Native()
		}
		return out
	default:
		return v.scalar
	}
}

// Plain returns a representation limited to strings, bools, numbers, maps and
// slices, suitable for expression engines and encoders.
func (v Value) Plain() any {
	switch v.shape {
	case ShapeMapping:
		out := make(map[string]any, len(v.entries))
		for _, entry := range v.entries {
			out[entry.Key] = entry.Value.Plain()
		}
		return out
	case ShapeSequence:
		out := make([]any, len(v.elements))
		for i, elem := range v.elements {
			out[i] = elem.Plain()
		}
		return out
	}
	switch typed := v.scalar.(type) {
	case netip.Addr, netip.Prefix, IPRange, time.Duration:
		return v.String()
	default:
		return typed
	}
}

// String renders scalars and Other values in their canonical text form.
// Mappings and sequences render as empty strings.
func (v Value) String() string {
	switch typed := v.scalar.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		if typed {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(typed, 10)
	case netip.Addr:
		return typed.String()
	case netip.Prefix:
		return typed.String()
	case time.Duration:
		return typed.String()
	case IPRange:
		return typed.String()
	default:
		return ""
	}
}

// Str returns the string scalar.
func (v Value) Str() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok
}

// Bool returns the bool scalar.
func (v Value) Bool() (bool, bool) {
	b, ok := v.scalar.(bool)
	return b, ok
}

// Int returns the integer scalar.
func (v Value) Int() (int64, bool) {
	i, ok := v.scalar.(int64)
	return i, ok
}

// Addr returns the IP address scalar.
func (v Value) Addr() (netip.Addr, bool) {
	a, ok := v.scalar.(netip.Addr)
	return a, ok
}

// Prefix returns the IP network scalar.
func (v Value) Prefix() (netip.Prefix, bool) {
	p, ok := v.scalar.(netip.Prefix)
	return p, ok
}

// Duration returns the duration value.
func (v Value) Duration() (time.Duration, bool) {
	d, ok := v.scalar.(time.Duration)
	return d, ok
}

// Range returns the IP range value.
func (v Value) Range() (IPRange, bool) {
	r, ok := v.scalar.(IPRange)
	return r, ok
}
