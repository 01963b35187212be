package opts

import "time"

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Option   string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to a resolution run.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *optionsConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}

// ResolveEvent describes how one option obtained its value.
type ResolveEvent struct {
	Option   string
	Source   Source
	Refs     []string
	Duration time.Duration
	Err      error
}

// Logger records resolution events.
type Logger interface {
	LogResolution(ResolveEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(ResolveEvent)

// LogResolution implements Logger.
func (f LoggerFunc) LogResolution(event ResolveEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogResolution(ResolveEvent) {}

// WithLogger attaches a resolution logger.
func WithLogger(logger Logger) Option {
	return func(cfg *optionsConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
