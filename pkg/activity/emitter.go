package activity

import (
	"context"
	"strings"
)

// Config controls the defaults an Emitter stamps on events.
type Config struct {
	Enabled bool
	Channel string
	Site    string
}

// Emitter forwards events to hooks, filling in the channel and site of the
// process when an event leaves them empty.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	site    string
}

// NewEmitter builds an emitter. The channel defaults to "siteopts".
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "siteopts"
	}
	live := cloneHooks(hooks)
	return &Emitter{
		hooks:   live,
		enabled: cfg.Enabled && len(live) > 0,
		channel: channel,
		site:    strings.TrimSpace(cfg.Site),
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit applies the defaults and notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.Site) == "" {
		event.Site = e.site
	}
	return e.hooks.Notify(ctx, event)
}

// Hooks returns the emitter as a single hook, or nil when it is disabled.
func (e *Emitter) Hooks() Hooks {
	if !e.Enabled() {
		return nil
	}
	return Hooks{HookFunc(e.Emit)}
}

func cloneHooks(hooks Hooks) Hooks {
	var live Hooks
	for _, hook := range hooks {
		if hook != nil {
			live = append(live, hook)
		}
	}
	return live
}
