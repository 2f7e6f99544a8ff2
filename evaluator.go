package settings

import (
	"fmt"
	"time"
)

// Evaluator executes selector expressions against a binding environment.
type Evaluator interface {
	Evaluate(env map[string]any, expr string) (any, error)
	Compile(expr string) (CompiledSelector, error)
}

// CompiledSelector represents a reusable selector expression program.
type CompiledSelector interface {
	Evaluate(env map[string]any) (any, error)
}

// selectorEnv builds the bindings visible to selector expressions: the opaque
// call-time options plus the evaluation timestamp.
func selectorEnv(opts CallOptions) map[string]any {
	options := map[string]any(opts)
	if options == nil {
		options = map[string]any{}
	}
	return map[string]any{
		"options": options,
		"now":     time.Now(),
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	// The JS evaluator only exists behind the js_eval build tag, so dispatch
	// on the type name instead of the type itself.
	switch fmt.Sprintf("%T", e) {
	case "*settings.exprEvaluator":
		return "expr"
	case "*settings.celEvaluator":
		return "cel"
	case "*settings.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
