package settings

// ProgramCache stores compiled expression programs keyed by expression
// strings. It caches compilation artifacts only; resolved configuration
// values are never cached.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
