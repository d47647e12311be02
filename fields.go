package ctxlog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// Fields is a set of key/value pairs attached to log lines. Keys are
// strings by construction; values must be scalars: a string, a bool,
// any integer kind, any float kind, or nil.
type Fields map[string]any

// ErrValueNotScalar is returned when a merge carries a value outside the
// accepted scalar kinds. Rejecting at the boundary keeps every future
// rendered line clean.
var ErrValueNotScalar = errors.New("context value is not a scalar")

// validate checks every value against the accepted scalar kinds and
// aggregates one error per offending key.
func (f Fields) validate() error {
	var errs error

	for key, value := range f {
		if !isScalar(value) {
			errs = multierr.Append(errs,
				fmt.Errorf("%w: key %q holds %T", ErrValueNotScalar, key, value))
		}
	}

	return errs
}

// isScalar reports whether v belongs to the fixed set of accepted kinds.
func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// clone returns an independent copy of f. A nil receiver yields an empty
// non-nil map so callers never observe a nil mapping.
func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}

	return out
}

// sortedKeys returns the keys of f in ascending lexicographic order.
func (f Fields) sortedKeys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// String renders f as "k1=v1 k2=v2 ..." with keys sorted ascending.
// An empty set renders as the empty string.
func (f Fields) String() string {
	if len(f) == 0 {
		return ""
	}

	var sb strings.Builder

	for i, key := range f.sortedKeys() {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(formatScalar(f[key]))
	}

	return sb.String()
}

// formatScalar renders a single accepted scalar for output.
func formatScalar(v any) string {
	if v == nil {
		return "<nil>"
	}

	return cast.ToString(v)
}
