package opts

import "time"

// DefaultJSTimeout bounds one JSCheck evaluation.
const DefaultJSTimeout = time.Second

type jsEvaluatorConfig struct {
	cache     ProgramCache
	functions *FunctionRegistry
	timeout   time.Duration
}

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsEvaluatorConfig)

// JSWithProgramCache shares compiled programs through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry to scripts as call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts scripts running longer than d. Zero or negative
// disables the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		cfg.timeout = d
	}
}

func applyJSEvaluatorOptions(options []JSEvaluatorOption) jsEvaluatorConfig {
	cfg := jsEvaluatorConfig{timeout: DefaultJSTimeout}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return cfg
}
