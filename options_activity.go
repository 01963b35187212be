package opts

import (
	"context"

	"github.com/goliatone/go-siteopts/pkg/activity"
)

// WithActivityHooks attaches activity hooks to a resolution run. Hooks are
// cloned and nil entries dropped. The resolved Config keeps them for the
// validation events.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *optionsConfig) {
		cfg.activityHooks = normalized
	}
}

// WithContext sets the context handed to activity hooks.
func WithContext(ctx context.Context) Option {
	return func(cfg *optionsConfig) {
		cfg.ctx = ctx
	}
}

// ActivityHooks returns a copy of the hooks the configuration was resolved
// with.
func (c *Config) ActivityHooks() activity.Hooks {
	if c == nil {
		return nil
	}
	return cloneActivityHooks(c.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// notify emits event to the configured hooks. Hook failures never fail a run;
// they are returned for the caller to log.
func (c *Config) notify(ctx context.Context, event activity.Event) error {
	if c == nil || len(c.hooks) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = c.ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return c.hooks.Notify(ctx, event)
}

func (c *Config) runContext() activity.RunContext {
	return activity.RunContext{
		RunID:     c.runID,
		Options:   c.Len(),
		Overrides: c.Overridden(),
	}
}
