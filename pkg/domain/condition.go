package domain

import "fmt"

// Operator is a query operator applied to a single field
type Operator string

const (
	OpEqual          Operator = "eq"
	OpNotEqual       Operator = "ne"
	OpLess           Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpGreater        Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpIn             Operator = "in"
	OpBetween        Operator = "between"
)

// Comparison maps the scan operators onto ComparisonType. The second return
// value is false for eq, in and between, which have dedicated lookups.
func (op Operator) Comparison() (ComparisonType, bool) {
	switch op {
	case OpNotEqual:
		return NotEqual, true
	case OpLess:
		return Less, true
	case OpLessOrEqual:
		return LessOrEqual, true
	case OpGreater:
		return Greater, true
	case OpGreaterOrEqual:
		return GreaterOrEqual, true
	default:
		return 0, false
	}
}

// Condition restricts one document field. Value is the operand of the
// single-valued operators; Values holds the set for in and the two bounds
// for between.
type Condition struct {
	Field  string        `json:"field"`
	Op     Operator      `json:"op"`
	Value  interface{}   `json:"value,omitempty"`
	Values []interface{} `json:"values,omitempty"`
}

func (c Condition) String() string {
	switch c.Op {
	case OpIn, OpBetween:
		return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Values)
	default:
		return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
	}
}
