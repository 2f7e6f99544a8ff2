package settings

import "github.com/goliatone/go-settings/internal/hydrate"

// As resolves path and decodes the result into T. Mappings decode into
// structs or maps, sequences into slices, scalars into their Go equivalents.
// Resolution errors are returned unchanged; decode failures report the path
// they were resolving.
func As[T any](r *Resolver, path any, opts CallOptions) (T, error) {
	var zero T
	value, err := r.Resolve(path, opts)
	if err != nil {
		return zero, err
	}
	segments, err := NormalizePath(path)
	if err != nil {
		return zero, err
	}
	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{Path: segments.Key()}, value)
}
