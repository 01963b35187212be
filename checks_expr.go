package opts

import "fmt"

// ExprCheck passes when the expr-lang expression returns true. The
// expression sees the value as `value`, the configuration as `config`, and
// every option by name.
func ExprCheck(expression string) StaticCheck {
	return expressionCheck("expr", expression)
}

// CELCheck is ExprCheck for a CEL expression.
func CELCheck(expression string) StaticCheck {
	return expressionCheck("cel", expression)
}

// JSCheck is ExprCheck for a JavaScript expression. It requires the js_eval
// build tag and fails with ErrNoEvaluator otherwise.
func JSCheck(expression string) StaticCheck {
	return expressionCheck("js", expression)
}

func expressionCheck(engine, expression string) StaticCheck {
	return func(v Value, cfg *Config) error {
		var engines *evaluators
		snapshot := map[string]any{}
		if cfg != nil {
			engines = cfg.engines
			snapshot = cfg.Snapshot()
		}
		result, err := engines.evaluate(engine, RuleContext{Value: v.Plain(), Config: snapshot}, expression)
		if err != nil {
			return err
		}
		ok, isBool := result.(bool)
		if !isBool {
			return fmt.Errorf("%s expression %q returned %T, expected bool", engine, expression, result)
		}
		if !ok {
			return fmt.Errorf("does not satisfy %s", expression)
		}
		return nil
	}
}
