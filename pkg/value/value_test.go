package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
		kind     ValueKind
	}{
		{"int", 5, float64(5), KindNumber},
		{"uint8", uint8(7), float64(7), KindNumber},
		{"float32", float32(1.5), float64(1.5), KindNumber},
		{"negative zero", math.Copysign(0, -1), float64(0), KindNumber},
		{"int64 at 2^53", int64(1 << 53), float64(1 << 53), KindNumber},
		{"int64 above 2^53", int64(1<<53 + 1), int64(1<<53 + 1), KindNumber},
		{"max int64", int64(math.MaxInt64), int64(math.MaxInt64), KindNumber},
		{"min int64", int64(math.MinInt64), float64(math.MinInt64), KindNumber},
		{"uint64 fits int64", uint64(1<<53 + 1), int64(1<<53 + 1), KindNumber},
		{"uint64 power of two", uint64(1 << 63), float64(1 << 63), KindNumber},
		{"max uint64", uint64(math.MaxUint64), uint64(math.MaxUint64), KindNumber},
		{"string", "abc", "abc", KindString},
		{"bool", true, true, KindBool},
		{"time", now, now.UTC(), KindTime},
		{"nil", nil, nil, KindInvalid},
		{"nan", math.NaN(), nil, KindInvalid},
		{"map", map[string]interface{}{"a": 1}, nil, KindInvalid},
		{"slice", []interface{}{1, 2}, nil, KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := Normalize(tt.input)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.kind, Kind(tt.input))
		})
	}
}

func TestNormalizeNegativeZeroSharesKey(t *testing.T) {
	pos, _ := Normalize(0.0)
	neg, _ := Normalize(math.Copysign(0, -1))

	m := map[interface{}]int{pos: 1}
	_, found := m[neg]
	assert.True(t, found)
}

func TestNormalizeLargeIntegersStayDistinct(t *testing.T) {
	exact, _ := Normalize(int64(9007199254740992))
	above, _ := Normalize(int64(9007199254740993))
	asFloat, _ := Normalize(9007199254740992.0)

	m := map[interface{}]string{exact: "exact", above: "above"}
	assert.Len(t, m, 2)
	assert.Equal(t, "exact", m[asFloat])
	assert.Equal(t, 1, Compare(above, exact))
}

func TestCompare(t *testing.T) {
	early := time.Unix(100, 0).UTC()
	late := time.Unix(200, 0).UTC()

	tests := []struct {
		name     string
		a, b     interface{}
		expected int
	}{
		{"numbers less", 1.0, 2.0, -1},
		{"numbers equal", 3.0, 3.0, 0},
		{"numbers greater", 5.0, -5.0, 1},
		{"strings", "apple", "banana", -1},
		{"strings equal", "x", "x", 0},
		{"bools", false, true, -1},
		{"bools reversed", true, false, 1},
		{"bools equal", true, true, 0},
		{"times", early, late, -1},
		{"times reversed", late, early, 1},
		{"int64 past float precision", int64(1<<53 + 1), float64(1 << 53), 1},
		{"float against int64", float64(1 << 53), int64(1<<53 + 1), -1},
		{"int64 pair", int64(1<<53 + 1), int64(1<<53 + 3), -1},
		{"uint64 against int64", uint64(math.MaxUint64), int64(math.MaxInt64), 1},
		{"uint64 against float", uint64(math.MaxUint64), float64(1 << 64), -1},
		{"int64 against infinity", int64(math.MaxInt64), math.Inf(-1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
		})
	}
}

func TestCompareTypeMismatchPanics(t *testing.T) {
	assert.PanicsWithError(t, "cannot compare float64 (1) with string (1)", func() {
		Compare(1.0, "1")
	})

	defer func() {
		r := recover()
		mismatch, ok := r.(*TypeMismatchError)
		if assert.True(t, ok, "expected *TypeMismatchError, got %T", r) {
			assert.Equal(t, true, mismatch.Left)
			assert.Equal(t, 0.0, mismatch.Right)
		}
	}()
	Compare(true, 0.0)
}

func TestInvalidValueError(t *testing.T) {
	err := &InvalidValueError{Value: math.NaN()}
	assert.EqualError(t, err, "cannot index float64 (NaN)")
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "time", KindTime.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}
