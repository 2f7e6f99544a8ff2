// Package settings resolves configuration values at dotted paths by layering
// prioritized, lazily-queried overrides on top of an immutable static
// fallback document.
package settings

import (
	"context"
	"fmt"

	"github.com/goliatone/go-settings/internal/lookup"
	"github.com/goliatone/go-settings/layering"
	"github.com/goliatone/go-settings/pkg/audit"
)

// CallOptions is the opaque per-call mapping handed to dynamic store and
// selector sources. The engine never inspects it beyond the optional
// actorId/userId/tenantId keys used for audit events.
type CallOptions map[string]any

// Resolver combines a static configuration document with an ordered list of
// override layers. It holds no mutable state between calls, so a single
// Resolver is safe for concurrent use as long as the backing stores support
// concurrent reads.
type Resolver struct {
	static     map[string]any
	layers     []Layer
	evaluator  Evaluator
	logger     LookupLogger
	hooks      audit.Hooks
	fieldsHint bool
}

// Option configures a Resolver at construction.
type Option func(*resolverConfig)

type resolverConfig struct {
	evaluator  Evaluator
	cache      ProgramCache
	functions  *FunctionRegistry
	logger     LookupLogger
	hooks      audit.Hooks
	fieldsHint bool
}

// WithEvaluator overrides the selector-expression evaluator. The default is
// an expr-lang evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *resolverConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache wires a cache for compiled selector expressions into the
// default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *resolverConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes custom functions to selector expressions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *resolverConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithLogger attaches a lookup logger. The default logger discards events.
func WithLogger(logger LookupLogger) Option {
	return func(cfg *resolverConfig) {
		if logger == nil {
			cfg.logger = noopLookupLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithAuditHooks attaches audit hooks notified after each resolution. Nil
// entries are dropped.
func WithAuditHooks(hooks audit.Hooks) Option {
	normalized := cloneAuditHooks(hooks)
	return func(cfg *resolverConfig) {
		cfg.hooks = normalized
	}
}

// WithFieldsHint asks stores to return only the looked-up field. This is a
// transfer-size optimization for over-fetch-sensitive environments and must
// not change observable results.
func WithFieldsHint() Option {
	return func(cfg *resolverConfig) {
		cfg.fieldsHint = true
	}
}

// New constructs a Resolver over a static configuration document and a layer
// list ordered by decreasing authority (first layer is strongest). The static
// document is always the weakest source and the authority on which paths
// exist at all.
func New(static map[string]any, layers []Layer, opts ...Option) *Resolver {
	cfg := resolverConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	evaluator := cfg.evaluator
	if evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}

	logger := cfg.logger
	if logger == nil {
		logger = noopLookupLogger{}
	}

	return &Resolver{
		static:     static,
		layers:     append([]Layer(nil), layers...),
		evaluator:  evaluator,
		logger:     logger,
		hooks:      cfg.hooks,
		fieldsHint: cfg.fieldsHint,
	}
}

// Resolve returns the value at path after layering every override that
// defines it on top of the static fallback. With no layer overrides the
// static value is returned untouched; nil means nothing is defined at path.
// Path accepts a dotted string, a []string segment slice, a Path, or nil for
// the root.
func (r *Resolver) Resolve(path any, opts CallOptions) (any, error) {
	return r.resolve(path, opts, nil)
}

// ResolveTraced resolves like Resolve and additionally reports per-layer
// provenance for the lookup.
func (r *Resolver) ResolveTraced(path any, opts CallOptions) (any, Trace, error) {
	var trace Trace
	value, err := r.resolve(path, opts, &trace)
	return value, trace, err
}

func (r *Resolver) resolve(path any, opts CallOptions, trace *Trace) (any, error) {
	segments, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	if trace != nil {
		trace.Path = segments.Key()
	}

	results := make([]audit.LayerResult, 0, len(r.layers))
	collected := make([]any, 0, len(r.layers))
	for i, layer := range r.layers {
		outcome, err := r.resolveLayer(i, layer, segments, opts)
		if err != nil {
			return nil, err
		}
		if trace != nil {
			trace.Layers = append(trace.Layers, LayerProvenance{
				Layer:    layer.label(i),
				Selector: outcome.selector,
				Path:     outcome.key,
				Value:    outcome.value,
				Found:    outcome.found,
			})
		}
		results = append(results, audit.LayerResult{Layer: layer.label(i), Found: outcome.found})
		if outcome.found {
			collected = append(collected, outcome.value)
		}
	}

	var value any
	merged := false
	if len(collected) == 0 {
		value, _ = lookup.Get(r.static, segments)
	} else {
		staticValue, ok := lookup.Get(r.static, segments)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedStaticFallback, segments)
		}
		// Weakest last: the merge engine folds from the back, so the
		// strongest layer is applied in the final step.
		value = layering.Merge(append(collected, staticValue)...)
		merged = true
	}

	r.emitAudit(opts, segments, results, merged)
	return value, nil
}

func (r *Resolver) emitAudit(opts CallOptions, path Path, layers []audit.LayerResult, merged bool) {
	if !r.hooks.Enabled() {
		return
	}
	event := audit.BuildResolveEvent(audit.ResolveEventInput{
		ActorID:  stringOption(opts, "actorId"),
		UserID:   stringOption(opts, "userId"),
		TenantID: stringOption(opts, "tenantId"),
		Path:     path.Key(),
		Layers:   layers,
		Merged:   merged,
	})
	_ = r.hooks.Notify(context.Background(), event)
}

func stringOption(opts CallOptions, key string) string {
	if opts == nil {
		return ""
	}
	value, _ := opts[key].(string)
	return value
}

func cloneAuditHooks(hooks audit.Hooks) audit.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]audit.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return audit.Hooks(normalized)
}
