package layering

import (
	"fmt"
	"slices"
)

// Level identifies the precedence of a layer. Higher levels override lower
// levels when layering.
type Level int

const (
	// LevelUnknown marks a layer without metadata; such layers are dropped.
	LevelUnknown Level = iota
	// LevelFile is the weakest layer, read from a settings file.
	LevelFile
	// LevelStore holds snapshots saved to a state store.
	LevelStore
	// LevelEnv holds overrides taken from the process environment.
	LevelEnv
	// LevelFlag is the strongest layer, given on the command line.
	LevelFlag
)

func (l Level) String() string {
	switch l {
	case LevelFile:
		return "file"
	case LevelStore:
		return "store"
	case LevelEnv:
		return "env"
	case LevelFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// ParseLevel converts a textual level into a Level.
func ParseLevel(value string) Level {
	switch value {
	case "file", "FILE":
		return LevelFile
	case "store", "STORE":
		return LevelStore
	case "env", "ENV":
		return LevelEnv
	case "flag", "FLAG":
		return LevelFlag
	default:
		return LevelUnknown
	}
}

// Layer is one set of overrides and where it came from.
type Layer struct {
	Level  Level
	Origin string // file path, snapshot key, env prefix or flag name
	Values map[string]any
}

// Identifier returns a stable slug such as "file/site.yaml".
func (l Layer) Identifier() string {
	return fmt.Sprintf("%s/%s", l.Level, l.Origin)
}

// Chain is the layering sequence ordered from strongest to weakest.
type Chain struct {
	ordered []Layer
}

// NewChain orders layers strongest first, keeping the given order among
// layers of one level. Unknown levels and repeated identifiers are dropped.
func NewChain(layers ...Layer) Chain {
	filtered := make([]Layer, 0, len(layers))
	seen := map[string]struct{}{}

	for _, layer := range layers {
		if layer.Level == LevelUnknown {
			continue
		}
		id := layer.Identifier()
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, layer)
	}

	slices.SortStableFunc(filtered, func(a, b Layer) int {
		return int(b.Level) - int(a.Level)
	})

	return Chain{ordered: filtered}
}

// Ordered returns the layers from strongest (index 0) to weakest.
func (c Chain) Ordered() []Layer {
	return slices.Clone(c.ordered)
}

// Len reports the number of layers.
func (c Chain) Len() int {
	return len(c.ordered)
}

// Strongest returns the first layer (zero layer if empty).
func (c Chain) Strongest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[0]
}

// Weakest returns the final layer (zero layer if empty).
func (c Chain) Weakest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[len(c.ordered)-1]
}
