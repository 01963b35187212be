//go:build js_eval

package opts

import (
	"strings"
	"testing"
	"time"
)

func TestJSEvaluatorInterruptsLongScripts(t *testing.T) {
	evaluator := NewJSEvaluator(JSWithTimeout(20 * time.Millisecond))
	_, err := evaluator.Evaluate(RuleContext{}, "(function(){ while (true) {} })()")
	if err == nil || !strings.Contains(err.Error(), "script exceeded") {
		t.Fatalf("expected interrupt error, got %v", err)
	}
}

func TestJSEvaluatorCallsFunctions(t *testing.T) {
	evaluator := NewJSEvaluator(JSWithFunctionRegistry(DefaultFunctions()))
	got, err := evaluator.Evaluate(RuleContext{Value: "wu"}, `call("upper", value) === "WU"`)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}
