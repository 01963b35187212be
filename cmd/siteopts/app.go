package main

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	opts "github.com/goliatone/go-siteopts"
	"github.com/goliatone/go-siteopts/pkg/activity"
	"github.com/goliatone/go-siteopts/pkg/loader"
	"github.com/goliatone/go-siteopts/site"
)

// app carries the shared state of one invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	settings settings
	logger   *log.Logger
	fs       afero.Fs
	probe    opts.Probe
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		fs:     afero.NewOsFs(),
		settings: settings{
			LogLevel: "warn",
		},
	}
}

// setup validates the global flags and configures logging.
func (a *app) setup() error {
	if err := a.settings.validate(); err != nil {
		return err
	}
	level, err := log.ParseLevel(a.settings.LogLevel)
	if err != nil {
		return err
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: "siteopts",
		Level:  level,
	})
	return nil
}

func (a *app) registry() (*opts.Registry, error) {
	return site.NewRegistry(site.Settings{SecretKey: a.settings.SecretKey})
}

// resolve loads overrides from every source and resolves the site catalog.
func (a *app) resolve(ctx context.Context) (*opts.Config, error) {
	registry, err := a.registry()
	if err != nil {
		return nil, err
	}
	merged, err := loader.New(registry,
		loader.WithFs(a.fs),
		loader.WithFiles(a.settings.Files...),
		loader.WithAssignments(a.settings.Assignments...),
		loader.WithEnv(!a.settings.NoEnv),
	).Load(ctx)
	if err != nil {
		return nil, err
	}
	for name, layer := range merged.Origins {
		a.logger.Debug("override", "option", name, "level", layer.Level, "origin", layer.Origin)
	}

	options := []opts.Option{
		opts.WithContext(ctx),
		opts.WithLogger(resolveLogger(a.logger)),
		opts.WithEvaluatorLogger(evaluatorLogger(a.logger)),
		opts.WithActivityHooks(a.hooks()),
		opts.WithHookErrorHandler(func(err error) {
			a.logger.Warn("activity hook failed", "err", err)
		}),
	}
	if a.settings.IgnoreUnknown {
		options = append(options, opts.WithIgnoreUnknown())
	}
	return opts.Resolve(merged.Values, registry, options...)
}

func (a *app) validateOptions(ctx context.Context) []opts.ValidateOption {
	options := []opts.ValidateOption{opts.WithValidateContext(ctx)}
	if a.settings.CollectAll {
		options = append(options, opts.WithCollectAll())
	}
	return options
}

// hooks routes activity events through an emitter that logs them when
// --activity-log is set.
func (a *app) hooks() activity.Hooks {
	sink := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		a.logger.Info(event.Verb, "run", event.RunID, "option", event.Option, "phase", event.Phase, "channel", event.Channel)
		return nil
	})
	return activity.NewEmitter(activity.Hooks{sink}, activity.Config{
		Enabled: a.settings.ActivityLog,
		Channel: "siteopts.cli",
	}).Hooks()
}
