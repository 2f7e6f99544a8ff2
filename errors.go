package settings

import "errors"

var (
	// ErrInvalidPath indicates a path argument that is neither absent, a
	// dotted string, nor a segment slice.
	ErrInvalidPath = errors.New("settings: path must be a dotted string or a segment slice")
	// ErrInvalidProvider indicates a layer whose store source is missing or
	// produced something that cannot answer lookups.
	ErrInvalidProvider = errors.New("settings: layer provider is not a callable or a store")
	// ErrInvalidSelector indicates a layer whose selector is missing or did
	// not produce a plain query mapping.
	ErrInvalidSelector = errors.New("settings: layer selector is not a callable or a query mapping")
	// ErrInvalidPathPrefix indicates a layer path prefix with an unsupported
	// shape.
	ErrInvalidPathPrefix = errors.New("settings: layer path prefix must be a dotted string or a segment slice")
	// ErrUndefinedStaticFallback indicates a layer override at a path the
	// static configuration never defines. Layers may override a path, never
	// introduce one, so this points at incomplete static defaults.
	ErrUndefinedStaticFallback = errors.New("settings: layer override has no static fallback")
)
