// Package memstore is a minimal in-memory document store for tests and
// examples. It answers equality selectors with Mongo-style dotted keys and
// makes no persistence assumptions.
package memstore

import (
	"reflect"
	"strings"
	"sync"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/internal/lookup"
	"github.com/goliatone/go-settings/layering"
	"github.com/google/uuid"
)

// Store holds documents in insertion order. FindOne returns the first
// document matching every selector key; selector keys use dotted notation and
// match by deep equality.
type Store struct {
	mu   sync.RWMutex
	docs []map[string]any
}

// New constructs a store seeded with docs. Documents are deep-copied and
// assigned an _id when they lack one.
func New(docs ...map[string]any) *Store {
	s := &Store{}
	for _, doc := range docs {
		s.Insert(doc)
	}
	return s
}

// Insert deep-copies doc into the store, assigning a fresh _id when missing,
// and returns the document id.
func (s *Store) Insert(doc map[string]any) string {
	clone, _ := layering.Clone(doc).(map[string]any)
	if clone == nil {
		clone = map[string]any{}
	}
	id, ok := clone["_id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		clone["_id"] = id
	}
	s.mu.Lock()
	s.docs = append(s.docs, clone)
	s.mu.Unlock()
	return id
}

// FindOne implements the settings store capability. A nil document means no
// match. The fields hint prunes the returned copy to the requested dotted
// paths without changing the value at any returned path.
func (s *Store) FindOne(selector map[string]any, opts settings.FindOptions) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if !matches(doc, selector) {
			continue
		}
		clone := layering.Clone(doc).(map[string]any)
		if len(opts.Fields) == 0 {
			return clone, nil
		}
		return project(clone, opts.Fields), nil
	}
	return nil, nil
}

func matches(doc, selector map[string]any) bool {
	for key, want := range selector {
		got, ok := lookup.Get(doc, strings.Split(key, "."))
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func project(doc map[string]any, fields []string) map[string]any {
	result := map[string]any{}
	for _, field := range fields {
		segments := strings.Split(field, ".")
		value, ok := lookup.Get(doc, segments)
		if !ok {
			continue
		}
		target := result
		for _, segment := range segments[:len(segments)-1] {
			next, ok := target[segment].(map[string]any)
			if !ok {
				next = map[string]any{}
				target[segment] = next
			}
			target = next
		}
		target[segments[len(segments)-1]] = value
	}
	return result
}
