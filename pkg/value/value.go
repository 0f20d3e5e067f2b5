// Package value defines how indexed attribute values are classified,
// normalized and ordered.
package value

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

// ValueKind groups values that are mutually comparable
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindTime
)

// KindCount is the number of indexable kinds plus KindInvalid
const KindCount = int(KindTime) + 1

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// TypeMismatchError is the panic value raised when two values of different
// kinds are compared. It signals a caller bug, not a runtime condition.
type TypeMismatchError struct {
	Left  interface{}
	Right interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot compare %T (%v) with %T (%v)", e.Left, e.Left, e.Right, e.Right)
}

// InvalidValueError is the panic value raised when a value that cannot be
// indexed, such as nil, NaN or a map, is inserted into a store.
type InvalidValueError struct {
	Value interface{}
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("cannot index %T (%v)", e.Value, e.Value)
}

// Kind reports the kind of v without normalizing it
func Kind(v interface{}) ValueKind {
	_, kind := Normalize(v)
	return kind
}

// Normalize converts v into its canonical indexed form, so that equal values
// share one map key. Floats become float64. Integers become float64 when the
// conversion is exact and otherwise stay int64, or uint64 above MaxInt64.
func Normalize(v interface{}) (interface{}, ValueKind) {
	switch val := v.(type) {
	case string:
		return val, KindString
	case bool:
		return val, KindBool
	case time.Time:
		return val.UTC(), KindTime
	case float64:
		return normalizeFloat(val)
	case float32:
		return normalizeFloat(float64(val))
	case int:
		return normalizeInt(int64(val)), KindNumber
	case int8:
		return normalizeInt(int64(val)), KindNumber
	case int16:
		return normalizeInt(int64(val)), KindNumber
	case int32:
		return normalizeInt(int64(val)), KindNumber
	case int64:
		return normalizeInt(val), KindNumber
	case uint:
		return normalizeUint(uint64(val)), KindNumber
	case uint8:
		return normalizeInt(int64(val)), KindNumber
	case uint16:
		return normalizeInt(int64(val)), KindNumber
	case uint32:
		return normalizeInt(int64(val)), KindNumber
	case uint64:
		return normalizeUint(val), KindNumber
	}
	return nil, KindInvalid
}

func normalizeFloat(f float64) (interface{}, ValueKind) {
	if math.IsNaN(f) {
		return nil, KindInvalid
	}
	if f == 0 {
		f = 0 // -0 and +0 must map to the same key
	}
	return f, KindNumber
}

func normalizeInt(n int64) interface{} {
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if f := float64(n); f < 1<<63 && int64(f) == n {
		return f
	}
	return n
}

func normalizeUint(n uint64) interface{} {
	if n <= math.MaxInt64 {
		return normalizeInt(int64(n))
	}
	if f := float64(n); f < 1<<64 && uint64(f) == n {
		return f
	}
	return n
}

// compareNumbers orders two normalized numbers exactly, whatever mix of
// float64, int64 and uint64 they are held in.
func compareNumbers(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv), true
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv), true
		}
	case uint64:
		if bv, ok := b.(uint64); ok {
			return cmp.Compare(av, bv), true
		}
	}

	x, ok := bigNumber(a)
	if !ok {
		return 0, false
	}
	y, ok := bigNumber(b)
	if !ok {
		return 0, false
	}
	return x.Cmp(y), true
}

func bigNumber(v interface{}) (*big.Float, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return nil, false
		}
		return new(big.Float).SetFloat64(n), true
	case int64:
		return new(big.Float).SetInt64(n), true
	case uint64:
		return new(big.Float).SetUint64(n), true
	}
	return nil, false
}

// Compare returns -1, 0 or 1 ordering a against b. Both values must be
// normalized and of the same kind; otherwise Compare panics with a
// *TypeMismatchError.
func Compare(a, b interface{}) int {
	if c, ok := compareNumbers(a, b); ok {
		return c
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	panic(&TypeMismatchError{Left: a, Right: b})
}
