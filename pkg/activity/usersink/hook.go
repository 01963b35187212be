package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-siteopts/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards configuration events to a go-users ActivitySink. Actor is
// recorded when an event carries no actor of its own, which is the case for
// unattended agent runs.
type Hook struct {
	Sink  usertypes.ActivitySink
	Actor uuid.UUID
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       cloneMap(normalized.Metadata),
		OccurredAt: normalized.OccurredAt,
	}
	if record.ActorID == uuid.Nil {
		record.ActorID = h.Actor
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	for key, value := range map[string]string{
		"run_id": normalized.RunID,
		"site":   normalized.Site,
		"option": normalized.Option,
		"phase":  normalized.Phase,
	} {
		if value != "" {
			record.Data = withData(record.Data, key, value)
		}
	}

	return h.Sink.Log(ctx, record)
}

func withData(data map[string]any, key string, value any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data[key] = value
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
