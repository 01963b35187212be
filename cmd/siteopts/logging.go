package main

import (
	"github.com/charmbracelet/log"

	opts "github.com/goliatone/go-siteopts"
)

func resolveLogger(logger *log.Logger) opts.Logger {
	return opts.LoggerFunc(func(event opts.ResolveEvent) {
		if event.Err != nil {
			logger.Warn("resolve", "option", event.Option, "source", event.Source, "err", event.Err)
			return
		}
		logger.Debug("resolve", "option", event.Option, "source", event.Source, "refs", event.Refs, "took", event.Duration)
	})
}

func evaluatorLogger(logger *log.Logger) opts.EvaluatorLogger {
	return opts.EvaluatorLoggerFunc(func(event opts.EvaluatorLogEvent) {
		if event.Err != nil {
			logger.Warn("evaluate", "engine", event.Engine, "option", event.Option, "expr", event.Expr, "err", event.Err)
			return
		}
		logger.Debug("evaluate", "engine", event.Engine, "option", event.Option, "took", event.Duration)
	})
}
