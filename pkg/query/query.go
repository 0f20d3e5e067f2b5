// Package query parses field conditions and evaluates them against documents.
package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/value"
)

var operators = map[string]domain.Operator{
	"eq":      domain.OpEqual,
	"ne":      domain.OpNotEqual,
	"lt":      domain.OpLess,
	"lte":     domain.OpLessOrEqual,
	"gt":      domain.OpGreater,
	"gte":     domain.OpGreaterOrEqual,
	"in":      domain.OpIn,
	"between": domain.OpBetween,
}

// ParseCondition parses a query parameter such as "gt:30", "in:red,blue" or
// "between:1,7". A value without a known operator prefix is an equality.
func ParseCondition(field, raw string) (domain.Condition, error) {
	cond := domain.Condition{Field: field, Op: domain.OpEqual}

	operand := raw
	if prefix, rest, found := strings.Cut(raw, ":"); found {
		if op, known := operators[prefix]; known {
			cond.Op = op
			operand = rest
		}
	}

	// document ids are always strings
	parse := ParseValue
	if field == domain.IDField {
		parse = func(raw string) interface{} { return raw }
	}

	switch cond.Op {
	case domain.OpIn:
		for _, part := range strings.Split(operand, ",") {
			cond.Values = append(cond.Values, parse(part))
		}
	case domain.OpBetween:
		parts := strings.Split(operand, ",")
		if len(parts) != 2 {
			return cond, errors.Wrapf(domain.ErrInvalidCondition, "between on %s needs two bounds, got %q", field, operand)
		}
		cond.Values = []interface{}{parse(parts[0]), parse(parts[1])}
	default:
		cond.Value = parse(operand)
	}

	if err := Validate(cond); err != nil {
		return cond, err
	}
	return cond, nil
}

var (
	integerLiteral = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLiteral = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// ParseValue types a raw query operand: plain decimal numbers and booleans are
// recognised, anything else stays a string. Integers keep full precision.
func ParseValue(raw string) interface{} {
	if integerLiteral.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v, _ := value.Normalize(n)
			return v
		}
		if n, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 64); err == nil {
			v, _ := value.Normalize(n)
			return v
		}
	}
	if decimalLiteral.MatchString(raw) {
		// out of range literals fail with ErrRange
		if num, err := strconv.ParseFloat(raw, 64); err == nil {
			return num
		}
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// Validate checks that a condition can be evaluated without a type mismatch
func Validate(cond domain.Condition) error {
	if cond.Field == "" {
		return errors.Wrap(domain.ErrInvalidCondition, "field name is required")
	}
	if _, known := operators[string(cond.Op)]; !known {
		return errors.Wrapf(domain.ErrInvalidCondition, "unknown operator %q", cond.Op)
	}
	switch cond.Op {
	case domain.OpIn:
		if len(cond.Values) == 0 {
			return errors.Wrapf(domain.ErrInvalidCondition, "in on %s needs at least one value", cond.Field)
		}
	case domain.OpBetween:
		if len(cond.Values) != 2 {
			return errors.Wrapf(domain.ErrInvalidCondition, "between on %s needs two bounds", cond.Field)
		}
		lo, hi := value.Kind(cond.Values[0]), value.Kind(cond.Values[1])
		if lo == value.KindInvalid || lo != hi {
			return errors.Wrapf(domain.ErrInvalidCondition, "between on %s has bounds of kinds %s and %s", cond.Field, lo, hi)
		}
	}
	return nil
}

// ParseConditions builds conditions from URL-style parameters, skipping the
// reserved pagination keys. Conditions are sorted by field for stable plans.
func ParseConditions(params map[string][]string, reserved ...string) ([]domain.Condition, error) {
	skip := make(map[string]bool, len(reserved))
	for _, key := range reserved {
		skip[key] = true
	}

	var conds []domain.Condition
	for field, values := range params {
		if skip[field] {
			continue
		}
		for _, raw := range values {
			cond, err := ParseCondition(field, raw)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
		}
	}
	sort.SliceStable(conds, func(i, j int) bool {
		return conds[i].Field < conds[j].Field
	})
	return conds, nil
}
