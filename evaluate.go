package opts

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("opts: evaluator not configured")

// RuleContext is the environment an expression runs against. Option names the
// option being resolved or checked, Value is its current value (nil while a
// default is being computed) and Config maps option names to plain values.
type RuleContext struct {
	Option string
	Value  any
	Config map[string]any
}

// Evaluator runs expressions for one engine.
type Evaluator interface {
	Evaluate(ctx RuleContext, expression string) (any, error)
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Config == nil {
		ctx.Config = map[string]any{}
	}
	return ctx
}

// bindings returns the variables visible to an expression: every config entry
// by name plus "value" and "config".
func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	env := make(map[string]any, len(ctx.Config)+2)
	for key, value := range ctx.Config {
		env[key] = value
	}
	env["value"] = ctx.Value
	env["config"] = ctx.Config
	return env
}

// evaluators builds engines on demand from the shared function registry and
// program cache, logging each evaluation.
type evaluators struct {
	functions *FunctionRegistry
	cache     ProgramCache
	logger    EvaluatorLogger
	custom    map[string]Evaluator
}

func (e *evaluators) engine(name string) (Evaluator, error) {
	if e == nil {
		e = &evaluators{}
	}
	if custom, ok := e.custom[name]; ok && custom != nil {
		return custom, nil
	}
	var evaluator Evaluator
	switch name {
	case "expr":
		var options []ExprEvaluatorOption
		if e.cache != nil {
			options = append(options, ExprWithProgramCache(e.cache))
		}
		if e.functions != nil {
			options = append(options, ExprWithFunctionRegistry(e.functions))
		}
		evaluator = NewExprEvaluator(options...)
	case "cel":
		var options []CELEvaluatorOption
		if e.cache != nil {
			options = append(options, CELWithProgramCache(e.cache))
		}
		if e.functions != nil {
			options = append(options, CELWithFunctionRegistry(e.functions))
		}
		evaluator = NewCELEvaluator(options...)
	case "js":
		var options []JSEvaluatorOption
		if e.cache != nil {
			options = append(options, JSWithProgramCache(e.cache))
		}
		if e.functions != nil {
			options = append(options, JSWithFunctionRegistry(e.functions))
		}
		evaluator = NewJSEvaluator(options...)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEvaluator, name)
	}
	return evaluator, nil
}

// evaluate runs expression on the named engine and logs the attempt.
func (e *evaluators) evaluate(engine string, ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(engine, fmt.Errorf("expression must not be empty"))
	}
	evaluator, err := e.engine(engine)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expression)
	evalErr = wrapEvaluationError(engine, expression, ctx.Option, evalErr)
	e.log(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expression,
		Option:   ctx.Option,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (e *evaluators) log(event EvaluatorLogEvent) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.LogEvaluation(event)
}
