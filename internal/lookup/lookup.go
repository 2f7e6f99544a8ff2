// Package lookup extracts values at segmented paths inside nested
// map[string]any documents.
package lookup

// Get walks doc along segments and returns the value found there. The second
// return reports presence: a key that exists with an explicit nil value is
// present, a missing key or a non-mapping intermediate is not. An empty
// segment list addresses the document itself.
func Get(doc map[string]any, segments []string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	if len(segments) == 0 {
		return doc, true
	}
	var current any = doc
	for _, segment := range segments {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mapping[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
