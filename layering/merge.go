// Package layering deep-merges dynamic configuration documents. Values are
// trees of map[string]any mappings, sequences, and scalars, the shape produced
// by document stores and parsed configuration files.
package layering

import "reflect"

type kind int

const (
	kindScalar kind = iota
	kindNil
	kindMapping
	kindSequence
)

// Merge composes values ordered from strongest to weakest, returning a fresh
// tree that keeps data from stronger values while filling gaps from weaker
// ones. Mappings merge recursively key by key. Sequences never merge element
// wise: a stronger sequence replaces the weaker value outright, and a stronger
// explicit nil preserves a weaker sequence. Scalars are overwritten by the
// stronger value.
func Merge(values ...any) any {
	if len(values) == 0 {
		return nil
	}
	merged := Clone(values[len(values)-1])
	for i := len(values) - 2; i >= 0; i-- {
		merged = mergeValue(values[i], merged)
	}
	return merged
}

func mergeValue(strong, weak any) any {
	switch kindOf(strong) {
	case kindSequence:
		return Clone(strong)
	case kindNil:
		if kindOf(weak) == kindSequence {
			return Clone(weak)
		}
		return nil
	case kindMapping:
		strongMap := strong.(map[string]any)
		weakMap, ok := weak.(map[string]any)
		if !ok {
			return Clone(strong)
		}
		result := make(map[string]any, len(weakMap)+len(strongMap))
		for key, value := range weakMap {
			result[key] = Clone(value)
		}
		for key, value := range strongMap {
			if existing, found := result[key]; found {
				result[key] = mergeValue(value, existing)
				continue
			}
			result[key] = Clone(value)
		}
		return result
	default:
		return Clone(strong)
	}
}

// Clone deep-copies the mapping and sequence spine of a document tree. Leaf
// scalars are shared, which is safe for the JSON-shaped values stores return.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(v))
		for key, entry := range v {
			clone[key] = Clone(entry)
		}
		return clone
	case []any:
		clone := make([]any, len(v))
		for i, entry := range v {
			clone[i] = Clone(entry)
		}
		return clone
	default:
		return value
	}
}

func kindOf(value any) kind {
	switch value.(type) {
	case nil:
		return kindNil
	case map[string]any:
		return kindMapping
	case []any:
		return kindSequence
	case string, []byte:
		return kindScalar
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		// Typed slices such as []string still follow sequence rules.
		return kindSequence
	default:
		return kindScalar
	}
}
