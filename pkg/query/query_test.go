package query

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-index/pkg/domain"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Condition
	}{
		{"plain number", "30", domain.Condition{Field: "f", Op: domain.OpEqual, Value: 30.0}},
		{"plain string", "Alice", domain.Condition{Field: "f", Op: domain.OpEqual, Value: "Alice"}},
		{"bool", "true", domain.Condition{Field: "f", Op: domain.OpEqual, Value: true}},
		{"explicit eq", "eq:x", domain.Condition{Field: "f", Op: domain.OpEqual, Value: "x"}},
		{"greater", "gt:5", domain.Condition{Field: "f", Op: domain.OpGreater, Value: 5.0}},
		{"not equal", "ne:admin", domain.Condition{Field: "f", Op: domain.OpNotEqual, Value: "admin"}},
		{"lte", "lte:-1.5", domain.Condition{Field: "f", Op: domain.OpLessOrEqual, Value: -1.5}},
		{"in", "in:1,seven", domain.Condition{Field: "f", Op: domain.OpIn, Values: []interface{}{1.0, "seven"}}},
		{"between", "between:7,1", domain.Condition{Field: "f", Op: domain.OpBetween, Values: []interface{}{7.0, 1.0}}},
		{"unknown prefix is a value", "http://x", domain.Condition{Field: "f", Op: domain.OpEqual, Value: "http://x"}},
	}

	idCond, err := ParseCondition("_id", "in:1,2")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"1", "2"}, idCond.Values)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseCondition("f", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cond)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw      string
		expected interface{}
	}{
		{"42", 42.0},
		{"-7", -7.0},
		{"+3", 3.0},
		{"2.5", 2.5},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"9007199254740992", float64(9007199254740992)},
		{"9007199254740993", int64(9007199254740993)},
		{"18446744073709551615", uint64(18446744073709551615)},
		{"false", false},
		{"inf", "inf"},
		{"-Inf", "-Inf"},
		{"NaN", "NaN"},
		{"0x1F", "0x1F"},
		{"1_000", "1_000"},
		{"1e999", "1e999"},
		{"12abc", "12abc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseValue(tt.raw))
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	for _, raw := range []string{"between:1", "between:1,2,3", "between:1,z"} {
		_, err := ParseCondition("f", raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, domain.ErrInvalidCondition), raw)
	}

	_, err := ParseCondition("", "1")
	assert.True(t, errors.Is(err, domain.ErrInvalidCondition))

	assert.Error(t, Validate(domain.Condition{Field: "f", Op: "like"}))
	assert.Error(t, Validate(domain.Condition{Field: "f", Op: domain.OpIn}))
}

func TestParseConditions(t *testing.T) {
	params := map[string][]string{
		"role":  {"admin"},
		"age":   {"gte:18", "lt:65"},
		"limit": {"10"},
	}

	conds, err := ParseConditions(params, "limit", "offset")
	require.NoError(t, err)
	require.Len(t, conds, 3)
	assert.Equal(t, "age", conds[0].Field)
	assert.Equal(t, "age", conds[1].Field)
	assert.Equal(t, "role", conds[2].Field)

	_, err = ParseConditions(map[string][]string{"x": {"between:1"}})
	assert.Error(t, err)
}

func TestConditionPredicate(t *testing.T) {
	doc := domain.Document{"_id": "1", "age": 30, "name": "Alice", "active": true, "tags": []interface{}{"a"}}

	tests := []struct {
		name     string
		cond     domain.Condition
		expected bool
	}{
		{"eq number", domain.Condition{Field: "age", Op: domain.OpEqual, Value: 30.0}, true},
		{"eq other kind", domain.Condition{Field: "age", Op: domain.OpEqual, Value: "30"}, false},
		{"eq exact case", domain.Condition{Field: "name", Op: domain.OpEqual, Value: "alice"}, false},
		{"ne", domain.Condition{Field: "age", Op: domain.OpNotEqual, Value: 31}, true},
		{"ne other kind", domain.Condition{Field: "age", Op: domain.OpNotEqual, Value: "x"}, false},
		{"gt", domain.Condition{Field: "age", Op: domain.OpGreater, Value: 29}, true},
		{"lt", domain.Condition{Field: "age", Op: domain.OpLess, Value: 30}, false},
		{"lte", domain.Condition{Field: "age", Op: domain.OpLessOrEqual, Value: 30}, true},
		{"gte string", domain.Condition{Field: "name", Op: domain.OpGreaterOrEqual, Value: "B"}, false},
		{"in", domain.Condition{Field: "name", Op: domain.OpIn, Values: []interface{}{"Bob", "Alice"}}, true},
		{"in miss", domain.Condition{Field: "name", Op: domain.OpIn, Values: []interface{}{1, "Bob"}}, false},
		{"between", domain.Condition{Field: "age", Op: domain.OpBetween, Values: []interface{}{40, 30}}, true},
		{"between outside", domain.Condition{Field: "age", Op: domain.OpBetween, Values: []interface{}{31, 40}}, false},
		{"bool", domain.Condition{Field: "active", Op: domain.OpEqual, Value: true}, true},
		{"missing field", domain.Condition{Field: "email", Op: domain.OpEqual, Value: "x"}, false},
		{"unindexable field", domain.Condition{Field: "tags", Op: domain.OpEqual, Value: "a"}, false},
		{"unknown op", domain.Condition{Field: "age", Op: "like", Value: 30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConditionPredicate(tt.cond).Eval(doc))
		})
	}
}

func TestPredicateComposition(t *testing.T) {
	adult := PredicateFunc(func(doc domain.Document) bool {
		age, _ := doc["age"].(int)
		return age >= 18
	})
	named := ConditionPredicate(domain.Condition{Field: "name", Op: domain.OpEqual, Value: "Bob"})

	assert.True(t, And().Eval(domain.Document{}))
	assert.True(t, And(adult).Eval(domain.Document{"age": 20}))
	assert.True(t, And(adult, named).Eval(domain.Document{"age": 20, "name": "Bob"}))
	assert.False(t, And(adult, named).Eval(domain.Document{"age": 12, "name": "Bob"}))

	pred := FromConditions([]domain.Condition{
		{Field: "age", Op: domain.OpGreater, Value: 18},
		{Field: "name", Op: domain.OpIn, Values: []interface{}{"Bob", "Eve"}},
	})
	assert.True(t, pred.Eval(domain.Document{"age": 30, "name": "Eve"}))
	assert.False(t, pred.Eval(domain.Document{"age": 30, "name": "Alice"}))
	assert.True(t, MatchAll.Eval(nil))
}
