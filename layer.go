package settings

import (
	"fmt"
	"time"

	"github.com/goliatone/go-settings/internal/lookup"
)

// Layer declares one prioritized, lazily-queried source of configuration
// overrides. Layers are ordered by the caller in decreasing order of
// authority; the first layer handed to New is the strongest.
type Layer struct {
	// Name labels the layer in traces, log events, and audit metadata.
	// Optional; unnamed layers are reported by position.
	Name string
	// Source yields the backing store, either fixed or per call.
	Source StoreSource
	// Selector yields the query matching the single document holding this
	// layer's overrides.
	Selector SelectorSource
	// Prefix is an optional path (dotted string or segment slice) prepended
	// to the requested path before the in-document lookup.
	Prefix any
}

func (l Layer) label(index int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("layer[%d]", index)
}

// StoreSource resolves the store backing a layer. Use FixedStore for a handle
// known up front and StoreFunc when the store depends on call-time options.
type StoreSource interface {
	resolveStore(opts CallOptions) (Store, error)
}

type fixedStore struct {
	store Store
}

// FixedStore wraps a concrete store handle as a StoreSource.
func FixedStore(store Store) StoreSource {
	return fixedStore{store: store}
}

func (s fixedStore) resolveStore(CallOptions) (Store, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: fixed store is nil", ErrInvalidProvider)
	}
	return s.store, nil
}

// StoreFunc derives the store from call-time options.
type StoreFunc func(opts CallOptions) (Store, error)

func (f StoreFunc) resolveStore(opts CallOptions) (Store, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: store func is nil", ErrInvalidProvider)
	}
	store, err := f(opts)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store func returned nil", ErrInvalidProvider)
	}
	return store, nil
}

// SelectorSource resolves the query selecting a layer's document. Use
// FixedSelector for a static query, SelectorFunc when the query depends on
// call-time options, and SelectorExpr to synthesize it from an expression.
type SelectorSource interface {
	resolveSelector(r *Resolver, opts CallOptions) (map[string]any, error)
}

// FixedSelector is a static query mapping used as-is on every call.
type FixedSelector map[string]any

func (s FixedSelector) resolveSelector(*Resolver, CallOptions) (map[string]any, error) {
	return map[string]any(s), nil
}

// SelectorFunc derives the query mapping from call-time options.
type SelectorFunc func(opts CallOptions) (map[string]any, error)

func (f SelectorFunc) resolveSelector(_ *Resolver, opts CallOptions) (map[string]any, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: selector func is nil", ErrInvalidSelector)
	}
	selector, err := f(opts)
	if err != nil {
		return nil, err
	}
	if selector == nil {
		return nil, fmt.Errorf("%w: selector func returned nil", ErrInvalidSelector)
	}
	return selector, nil
}

// SelectorExpr synthesizes the query mapping by evaluating an expression
// against the call-time options. The expression runs on the resolver's
// configured evaluator (expr-lang unless overridden) with `options` bound to
// the call options, and must produce a mapping.
type SelectorExpr string

func (e SelectorExpr) resolveSelector(r *Resolver, opts CallOptions) (map[string]any, error) {
	if e == "" {
		return nil, fmt.Errorf("%w: selector expression is empty", ErrInvalidSelector)
	}
	result, err := r.evaluator.Evaluate(selectorEnv(opts), string(e))
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(r.evaluator), string(e), err)
	}
	selector, ok := asSelectorMap(result)
	if !ok {
		return nil, fmt.Errorf("%w: expression %q produced %T, want a mapping", ErrInvalidSelector, string(e), result)
	}
	return selector, nil
}

func asSelectorMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		selector := make(map[string]any, len(v))
		for key, entry := range v {
			name, ok := key.(string)
			if !ok {
				return nil, false
			}
			selector[name] = entry
		}
		return selector, true
	default:
		return nil, false
	}
}

// layerOutcome is the result of one layer lookup. found reports whether the
// layer produced a value at all; a present-but-nil field counts as produced.
type layerOutcome struct {
	value    any
	found    bool
	key      string
	selector map[string]any
}

// resolveLayer performs the single read a layer contributes to one resolution:
// store, selector, prefixed lookup path, one FindOne, then in-document
// extraction.
func (r *Resolver) resolveLayer(index int, layer Layer, path Path, opts CallOptions) (layerOutcome, error) {
	if layer.Source == nil {
		return layerOutcome{}, fmt.Errorf("%w: %s has no store source", ErrInvalidProvider, layer.label(index))
	}
	if layer.Selector == nil {
		return layerOutcome{}, fmt.Errorf("%w: %s has no selector", ErrInvalidSelector, layer.label(index))
	}

	store, err := layer.Source.resolveStore(opts)
	if err != nil {
		return layerOutcome{}, err
	}
	selector, err := layer.Selector.resolveSelector(r, opts)
	if err != nil {
		return layerOutcome{}, err
	}
	prefix, err := NormalizePath(layer.Prefix)
	if err != nil {
		return layerOutcome{}, fmt.Errorf("%w: %s prefix %v", ErrInvalidPathPrefix, layer.label(index), layer.Prefix)
	}

	lookupPath := joinPaths(prefix, path)
	outcome := layerOutcome{key: lookupPath.Key(), selector: selector}

	findOpts := FindOptions{}
	if r.fieldsHint && len(lookupPath) > 0 {
		findOpts.Fields = []string{lookupPath.Key()}
	}

	start := time.Now()
	doc, err := store.FindOne(selector, findOpts)
	duration := time.Since(start)
	if err != nil {
		r.logger.LogLookup(LookupLogEvent{
			Layer:    layer.label(index),
			Path:     outcome.key,
			Duration: duration,
			Err:      err,
		})
		// Store errors propagate to the caller untranslated.
		return layerOutcome{}, err
	}

	if doc != nil {
		outcome.value, outcome.found = lookup.Get(doc, lookupPath)
	}
	r.logger.LogLookup(LookupLogEvent{
		Layer:    layer.label(index),
		Path:     outcome.key,
		Duration: duration,
		Found:    outcome.found,
	})
	return outcome, nil
}
