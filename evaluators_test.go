package settings

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]any
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *mapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []ExprEvaluatorOption{}
			if cache != nil {
				opts = append(opts, ExprWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, ExprWithFunctionRegistry(registry))
			}
			return NewExprEvaluator(opts...)
		},
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []CELEvaluatorOption{}
			if cache != nil {
				opts = append(opts, CELWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, CELWithFunctionRegistry(registry))
			}
			return NewCELEvaluator(opts...)
		},
	},
}

func TestEvaluatorsBuildSelectorFromOptions(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, nil)
			env := selectorEnv(CallOptions{"userId": "u-1"})

			result, err := evaluator.Evaluate(env, `{"userId": options.userId}`)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			selector, ok := asSelectorMap(result)
			if !ok {
				t.Fatalf("expected a mapping result, got %T", result)
			}
			if !reflect.DeepEqual(selector, map[string]any{"userId": "u-1"}) {
				t.Fatalf("unexpected selector %#v", selector)
			}
		})
	}
}

func TestEvaluatorsRejectEmptyExpression(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, nil)
			if _, err := evaluator.Evaluate(selectorEnv(nil), ""); err == nil {
				t.Fatalf("expected error for empty expression")
			}
			if _, err := evaluator.Compile(""); err == nil {
				t.Fatalf("expected compile error for empty expression")
			}
		})
	}
}

func TestEvaluatorsUseRegistryFunctions(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			registry := NewFunctionRegistry()
			if err := registry.Register("tenant", func(args ...any) (any, error) {
				return "t-1", nil
			}); err != nil {
				t.Fatalf("register: %v", err)
			}

			evaluator := factory.new(nil, registry)
			result, err := evaluator.Evaluate(selectorEnv(nil), `{"tenantId": call("tenant")}`)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			selector, ok := asSelectorMap(result)
			if !ok {
				t.Fatalf("expected a mapping result, got %T", result)
			}
			if selector["tenantId"] != "t-1" {
				t.Fatalf("unexpected selector %#v", selector)
			}
		})
	}
}

func TestEvaluatorsReuseCachedPrograms(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			cache := newMapCache()
			evaluator := factory.new(cache, nil)
			expression := `{"userId": options.userId}`

			for i := 0; i < 3; i++ {
				if _, err := evaluator.Evaluate(selectorEnv(CallOptions{"userId": "u"}), expression); err != nil {
					t.Fatalf("evaluate %d: %v", i, err)
				}
			}
			if len(cache.entries) != 1 {
				t.Fatalf("expected one cached program, got %d", len(cache.entries))
			}
			if cache.hits < 2 {
				t.Fatalf("expected cache hits on repeat evaluations, got %d", cache.hits)
			}
		})
	}
}

func TestEvaluatorsCompileOnce(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(newMapCache(), nil)
			compiled, err := evaluator.Compile(`{"userId": options.userId}`)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			result, err := compiled.Evaluate(selectorEnv(CallOptions{"userId": "u-2"}))
			if err != nil {
				t.Fatalf("evaluate compiled: %v", err)
			}
			selector, ok := asSelectorMap(result)
			if !ok || selector["userId"] != "u-2" {
				t.Fatalf("unexpected compiled result %#v", result)
			}
		})
	}
}

func TestEvaluationErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "options.x", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "options.x" {
		t.Fatalf("unexpected metadata: %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to unwrap to base")
	}

	rewrapped := wrapEvaluationError("cel", "other", err)
	if rewrapped != err {
		t.Fatalf("expected existing EvaluationError to pass through")
	}
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("plan", func(args ...any) (any, error) { return "pro", nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("plan", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected empty name to fail")
	}

	value, err := registry.Call("PLAN")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if value != "pro" {
		t.Fatalf("unexpected call result %v", value)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}

	clone := registry.Clone()
	if !reflect.DeepEqual(clone.Names(), []string{"plan"}) {
		t.Fatalf("unexpected clone names %v", clone.Names())
	}
}

func TestJSEvaluatorAvailability(t *testing.T) {
	evaluator := NewJSEvaluator()
	if jsEvaluatorAvailable() {
		if evaluator == nil {
			t.Fatalf("expected JS evaluator with js_eval build tag")
		}
		return
	}
	if evaluator != nil {
		t.Fatalf("expected nil JS evaluator without js_eval build tag")
	}
}
