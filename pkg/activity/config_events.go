package activity

import (
	"sort"
	"strings"
	"time"
)

// Event verbs emitted over a configuration run.
const (
	VerbConfigResolved  = "config.resolved"
	VerbConfigValidated = "config.validated"
	VerbConfigExported  = "config.exported"
	VerbOptionOverride  = "config.option.overridden"
)

// RunContext identifies the resolution run an event belongs to.
type RunContext struct {
	RunID     string
	Site      string
	Options   int
	Overrides []string
	Metadata  map[string]any
}

// ConfigEventInput describes the common fields for configuration events.
type ConfigEventInput struct {
	ActorID    string
	UserID     string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	Option     string
	Phase      string
	Value      any
	Run        RunContext
	OccurredAt time.Time
}

// BuildConfigResolvedEvent describes a successful resolution run.
func BuildConfigResolvedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigResolved, "config", input)
}

// BuildConfigValidatedEvent describes a passed validation phase. Phase is
// "static" or "runtime".
func BuildConfigValidatedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigValidated, "config", input)
}

// BuildConfigExportedEvent describes shell statements written for a run.
func BuildConfigExportedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigExported, "config", input)
}

// BuildOptionOverriddenEvent describes one option taking an override value.
func BuildOptionOverriddenEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbOptionOverride, "config.option", input)
}

func buildConfigEvent(verb, objectType string, input ConfigEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Value != nil {
		metadata = ensureMetadata(metadata)
		metadata["value"] = input.Value
	}
	if input.Run.Options > 0 {
		metadata = ensureMetadata(metadata)
		metadata["options"] = input.Run.Options
	}
	if len(input.Run.Overrides) > 0 {
		overrides := append([]string{}, input.Run.Overrides...)
		sort.Strings(overrides)
		metadata = ensureMetadata(metadata)
		metadata["overrides"] = overrides
	}
	if len(input.Run.Metadata) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["run_metadata"] = cloneMap(input.Run.Metadata)
	}

	option := strings.TrimSpace(input.Option)
	runID := strings.TrimSpace(input.Run.RunID)
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" && objectType == "config.option" {
		objectID = option
	}
	if objectID == "" {
		objectID = runID
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		RunID:      runID,
		Site:       strings.TrimSpace(input.Run.Site),
		Option:     option,
		Phase:      strings.TrimSpace(input.Phase),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
