package opts

import (
	"context"
	"errors"

	"github.com/goliatone/go-siteopts/pkg/activity"
)

// ErrNilConfig is returned when a validation phase receives no configuration.
var ErrNilConfig = errors.New("opts: config is nil")

// ValidateOption configures a validation phase.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	collectAll bool
	ctx        context.Context
}

// WithCollectAll reports every failing option as one joined error instead of
// stopping at the first. The phase still fails as a whole.
func WithCollectAll() ValidateOption {
	return func(cfg *validateConfig) {
		cfg.collectAll = true
	}
}

// WithValidateContext sets the context handed to activity hooks by
// ValidateStatic.
func WithValidateContext(ctx context.Context) ValidateOption {
	return func(cfg *validateConfig) {
		cfg.ctx = ctx
	}
}

func applyValidateOptions(options []ValidateOption) validateConfig {
	cfg := validateConfig{}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return cfg
}

// ValidateStatic runs every static check in registry order. It performs no
// I/O.
func ValidateStatic(cfg *Config, options ...ValidateOption) error {
	if cfg == nil {
		return ErrNilConfig
	}
	vc := applyValidateOptions(options)
	var errs []error
	for d := range cfg.registry.All() {
		if d.StaticCheck == nil {
			continue
		}
		if err := d.StaticCheck(cfg.values[d.Name], cfg); err != nil {
			failure := staticFailure(d.Name, err)
			if !vc.collectAll {
				return failure
			}
			errs = append(errs, failure)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	cfg.emit(vc.ctx, activity.BuildConfigValidatedEvent(activity.ConfigEventInput{
		Phase: "static",
		Run:   cfg.runContext(),
	}))
	return nil
}

func staticFailure(name string, err error) *ConfigError {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		failure := StaticCheckError(name, "expression failed")
		failure.Cause = err
		return failure
	}
	if errors.Is(err, ErrNoEvaluator) {
		failure := StaticCheckError(name, "expression engine unavailable")
		failure.Cause = err
		return failure
	}
	return StaticCheckError(name, err.Error())
}

// ValidateRuntime runs every runtime check in registry order against probe.
// It must be invoked explicitly, after static validation, on the target host.
// A nil probe queries the local system.
func ValidateRuntime(ctx context.Context, cfg *Config, probe Probe, options ...ValidateOption) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if probe == nil {
		probe = NewSystemProbe()
	}
	vc := applyValidateOptions(options)
	var errs []error
	for d := range cfg.registry.All() {
		if d.RuntimeCheck == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.RuntimeCheck(ctx, cfg.values[d.Name], probe); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return err
			}
			failure := RuntimeCheckError(d.Name, err.Error())
			if !vc.collectAll {
				return failure
			}
			errs = append(errs, failure)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	cfg.emit(ctx, activity.BuildConfigValidatedEvent(activity.ConfigEventInput{
		Phase: "runtime",
		Run:   cfg.runContext(),
	}))
	return nil
}
