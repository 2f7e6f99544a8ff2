package settings

// FindOptions carries optional hints for a single-document lookup.
type FindOptions struct {
	// Fields restricts which dotted paths the store needs to return. It is a
	// transfer-size optimization only: restricting fields must never change
	// the value at any path that IS returned. Empty means no restriction.
	Fields []string
}

// Store is the capability a layer's backing store must expose: a synchronous
// single-document lookup. A nil document means no document matched. Lookup
// errors are propagated to the resolver's caller untranslated.
//
// Implementations must be safe for concurrent reads if the resolver is shared
// across goroutines.
type Store interface {
	FindOne(selector map[string]any, opts FindOptions) (map[string]any, error)
}
