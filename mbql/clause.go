// Package mbql defines the wire form of query expressions: a clause is a
// tag symbol followed by positional arguments, encoded as a JSON array.
package mbql

import (
	"encoding/json"
	"math"
	"reflect"
)

// A Clause is one node of the expression tree. The first element is the tag
// identifying the clause's grammar; the rest are positional arguments, which
// may themselves be nested clauses.
type Clause []any

func New(tag string, args ...any) Clause {
	return append(Clause{tag}, args...)
}

// Tag returns the leading symbol of the clause, or "" if the clause is empty
// or its first element is not a symbol.
func (c Clause) Tag() string {
	if len(c) == 0 {
		return ""
	}
	s, _ := c[0].(string)
	return s
}

func (c Clause) Args() []any {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

func (c Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any(c))
}

func (c *Clause) UnmarshalJSON(b []byte) error {
	var elems []any
	if err := json.Unmarshal(b, &elems); err != nil {
		return err
	}
	*c = normalizeSeq(elems)
	return nil
}

// Normalize rewrites an expression into its canonical value shapes: every
// sequence becomes a Clause and every integral number becomes an int, so that
// expressions decoded from JSON compare equal to expressions built in code.
func Normalize(v any) any {
	switch v := v.(type) {
	case Clause:
		return normalizeSeq(v)
	case []any:
		return normalizeSeq(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v)
		}
		return v
	case float32:
		return Normalize(float64(v))
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return f
	default:
		return v
	}
}

func normalizeSeq(in []any) Clause {
	out := make(Clause, len(in))
	for i, v := range in {
		out[i] = Normalize(v)
	}
	return out
}

// Equal reports whether two expressions are structurally equal after
// normalization.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// ParseJSON decodes an expression from its JSON wire form. The result is
// normalized and may be a Clause, a bare number, or any other JSON value.
func ParseJSON(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

// Int extracts an integer argument, accepting the numeric kinds that survive
// a JSON round trip.
func Int(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), true
		}
	}
	return 0, false
}

// String extracts a string argument.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
