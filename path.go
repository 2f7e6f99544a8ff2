package settings

import (
	"fmt"
	"strings"
)

// Path is an ordered sequence of segments addressing a location inside a
// nested configuration mapping. The empty path denotes the root.
type Path []string

// Key renders the path in dotted notation for in-document lookups.
func (p Path) Key() string {
	return strings.Join(p, ".")
}

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.Key()
}

// NormalizePath converts any accepted path representation into its canonical
// segment sequence. Accepted shapes are nil (the root), a dotted string, a
// []string segment slice, or a Path. Anything else fails with ErrInvalidPath.
// Slices are copied so callers can keep mutating their own reference.
func NormalizePath(path any) (Path, error) {
	switch v := path.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return Path(strings.Split(v, ".")), nil
	case []string:
		return Path(append([]string(nil), v...)), nil
	case Path:
		return append(Path(nil), v...), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidPath, path)
	}
}

// join concatenates a prefix and a requested path into the sequence used for
// the in-document lookup.
func joinPaths(prefix, path Path) Path {
	if len(prefix) == 0 {
		return path
	}
	joined := make(Path, 0, len(prefix)+len(path))
	joined = append(joined, prefix...)
	joined = append(joined, path...)
	return joined
}
