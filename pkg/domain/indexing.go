package domain

// ComparisonType selects the comparison applied by an index scan
type ComparisonType int

const (
	Less ComparisonType = iota + 1
	LessOrEqual
	Greater
	GreaterOrEqual
	NotEqual
)

// Matches reports whether a three-way comparison result satisfies the
// operator, where cmp orders the stored value against the searched value.
func (c ComparisonType) Matches(cmp int) bool {
	switch c {
	case Less:
		return cmp < 0
	case LessOrEqual:
		return cmp <= 0
	case Greater:
		return cmp > 0
	case GreaterOrEqual:
		return cmp >= 0
	case NotEqual:
		return cmp != 0
	default:
		return false
	}
}

func (c ComparisonType) String() string {
	switch c {
	case Less:
		return "LESS"
	case LessOrEqual:
		return "LESS_OR_EQUAL"
	case Greater:
		return "GREATER"
	case GreaterOrEqual:
		return "GREATER_OR_EQUAL"
	case NotEqual:
		return "NOT_EQUAL"
	default:
		return "UNKNOWN"
	}
}

// IndexStats summarizes one field index
type IndexStats struct {
	Collection     string `json:"collection" msgpack:"collection"`
	Field          string `json:"field" msgpack:"field"`
	DistinctValues int    `json:"distinct_values" msgpack:"distinct_values"`
	Records        int    `json:"records" msgpack:"records"`
}

// IndexEngine defines the interface for index management
type IndexEngine interface {
	CreateIndex(collName, fieldName string) error
	DropIndex(collName, fieldName string) error
	GetIndexes(collName string) ([]string, error)
	IndexStats(collName, fieldName string) (*IndexStats, error)
}
