package settings

import (
	"fmt"
	"reflect"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(env map[string]any, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(env))
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	return celValue(out), nil
}

func (e *celEvaluator) Compile(expression string) (CompiledSelector, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	if _, err := e.loadOrCompile(expression); err != nil {
		return nil, err
	}
	return &celCompiledSelector{
		evaluator:  e,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapEvaluatorError("cel", err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("options", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType},
			celgo.DynType,
			celgo.FunctionBinding(e.callBinding()),
		)))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(env map[string]any) map[string]any {
	activation := make(map[string]any, len(env)+1)
	for key, value := range env {
		activation[key] = value
	}
	if _, ok := activation["options"]; !ok {
		activation["options"] = map[string]any{}
	}
	if e.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return activation
}

type celCompiledSelector struct {
	evaluator  *celEvaluator
	expression string
}

func (s *celCompiledSelector) Evaluate(env map[string]any) (any, error) {
	if s.evaluator == nil {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("compiled selector missing evaluator"))
	}
	program, err := s.evaluator.loadOrCompile(s.expression)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(s.evaluator.activation(env))
	if err != nil {
		return nil, wrapEvaluationError("cel", s.expression, err)
	}
	return celValue(out), nil
}

var mapStringAnyType = reflect.TypeOf(map[string]any{})

// celValue unwraps a CEL result, converting map results to map[string]any so
// they can serve as query selectors.
func celValue(out ref.Val) any {
	if out == nil {
		return nil
	}
	if _, ok := out.(traits.Mapper); ok {
		if native, err := out.ConvertToNative(mapStringAnyType); err == nil {
			return native
		}
	}
	return out.Value()
}

func (e *celEvaluator) callBinding() functions.FunctionOp {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("settings: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("settings: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("settings: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
