package settings

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEvaluator executes selector expressions using github.com/expr-lang/expr.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate compiles and runs expression against the binding environment.
func (e *exprEvaluator) Evaluate(env map[string]any, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("expr", fmt.Errorf("expression must not be empty"))
	}
	env = e.withRegistryBindings(env)
	if e.cache == nil {
		result, err := exprlang.Eval(expression, env)
		if err != nil {
			return nil, wrapEvaluationError("expr", expression, err)
		}
		return result, nil
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, err)
	}
	return result, nil
}

// Compile returns a compiled selector that evaluates expression per call.
func (e *exprEvaluator) Compile(expression string) (CompiledSelector, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("expr", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &exprCompiledSelector{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type exprCompiledSelector struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (s *exprCompiledSelector) Evaluate(env map[string]any) (any, error) {
	if s.evaluator == nil {
		return nil, wrapEvaluatorError("expr", fmt.Errorf("compiled selector missing evaluator"))
	}
	if s.program == nil {
		return s.evaluator.Evaluate(env, s.expression)
	}
	env = s.evaluator.withRegistryBindings(env)
	result, err := exprlang.Run(s.program, env)
	if err != nil {
		return nil, wrapEvaluationError("expr", s.expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) withRegistryBindings(env map[string]any) map[string]any {
	if env == nil {
		env = map[string]any{}
	}
	if e.registry == nil {
		return env
	}
	bound := make(map[string]any, len(env)+len(e.registry.Names())+1)
	for key, value := range env {
		bound[key] = value
	}
	bound["call"] = func(name string, arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
	for _, name := range e.registry.Names() {
		fn := name
		bound[fn] = func(arguments ...any) (any, error) {
			return e.registry.Call(fn, arguments...)
		}
	}
	return bound
}

func (e *exprEvaluator) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEvaluator) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
