package query

import (
	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/value"
)

// Predicate decides whether a document matches
type Predicate interface {
	Eval(doc domain.Document) bool
}

// PredicateFunc adapts an ordinary function to a Predicate
type PredicateFunc func(doc domain.Document) bool

func (f PredicateFunc) Eval(doc domain.Document) bool {
	return f(doc)
}

// MatchAll matches every document
var MatchAll Predicate = PredicateFunc(func(domain.Document) bool { return true })

// And matches documents accepted by every predicate
func And(preds ...Predicate) Predicate {
	if len(preds) == 0 {
		return MatchAll
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return PredicateFunc(func(doc domain.Document) bool {
		for _, p := range preds {
			if !p.Eval(doc) {
				return false
			}
		}
		return true
	})
}

// FromConditions combines conditions into a single predicate
func FromConditions(conds []domain.Condition) Predicate {
	preds := make([]Predicate, 0, len(conds))
	for _, cond := range conds {
		preds = append(preds, ConditionPredicate(cond))
	}
	return And(preds...)
}

// ConditionPredicate evaluates cond with the same semantics as the field
// indexes: a document matches only if its field holds an indexable value of
// the operand's kind that satisfies the operator. A missing field never matches.
func ConditionPredicate(cond domain.Condition) Predicate {
	return PredicateFunc(func(doc domain.Document) bool {
		raw, exists := doc[cond.Field]
		if !exists {
			return false
		}
		stored, kind := value.Normalize(raw)
		if kind == value.KindInvalid {
			return false
		}

		compareTo := func(operand interface{}) (int, bool) {
			v, opKind := value.Normalize(operand)
			if opKind != kind {
				return 0, false
			}
			return value.Compare(stored, v), true
		}

		switch cond.Op {
		case domain.OpEqual:
			c, ok := compareTo(cond.Value)
			return ok && c == 0
		case domain.OpIn:
			for _, operand := range cond.Values {
				if c, ok := compareTo(operand); ok && c == 0 {
					return true
				}
			}
			return false
		case domain.OpBetween:
			if len(cond.Values) != 2 {
				return false
			}
			lo, okLo := compareTo(cond.Values[0])
			hi, okHi := compareTo(cond.Values[1])
			if !okLo || !okHi {
				return false
			}
			// stored lies between the bounds in either order
			return (lo >= 0 && hi <= 0) || (lo <= 0 && hi >= 0)
		}

		op, ok := cond.Op.Comparison()
		if !ok {
			return false
		}
		c, ok := compareTo(cond.Value)
		return ok && op.Matches(c)
	})
}
