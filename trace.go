package opts

import (
	"encoding/json"
	"fmt"
)

// Source records where a resolved value came from.
type Source int

const (
	SourceUnknown Source = iota
	SourceOverride
	SourceDefault
	SourceDeferred
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceDefault:
		return "default"
	case SourceDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "override":
		*s = SourceOverride
	case "default":
		*s = SourceDefault
	case "deferred":
		*s = SourceDeferred
	case "unknown", "":
		*s = SourceUnknown
	default:
		return fmt.Errorf("opts: unknown source %q", text)
	}
	return nil
}

// Trace captures the provenance of one resolved option.
type Trace struct {
	Option     string   `json:"option"`
	Source     Source   `json:"source"`
	References []string `json:"references,omitempty"`
	Value      any      `json:"value,omitempty"`
	Step       int      `json:"step"`
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
