package condition

import (
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
)

// Condition is anything Where and OrWhere accept.
//
// This is a sealed interface with three forms:
//   - Raw: an already built filter node; an and/or with a single field is
//     replaced by that field and one with no fields is rejected
//   - Func: a callback that fills a fresh sub-builder; its filter is used
//   - Comparison: a dimension, an operator and a value, built with Cmp
type Condition interface {
	condition() // Marker method - seals interface to this package
}

// Raw wraps a filter node.
type Raw struct {
	Node filter.Node
}

func (Raw) condition() {}

// Func fills a sub-builder. The sub-builder shares the parent's query
// context and logger but nothing else, and is discarded after the call.
type Func func(b *Builder) error

func (Func) condition() {}

// Comparison compares a dimension against a value.
type Comparison struct {
	Dimension  string
	Operator   string
	Value      any
	Extraction extraction.Func

	// arity records a Cmp call with an unusable number of arguments.
	arity int
}

func (Comparison) condition() {}

// Cmp builds a Comparison.
//
//	Cmp("name", "John")          // name = John
//	Cmp("age", ">=", 18)         // age >= 18
//	Cmp("name", "search", []string{"jo", "hn"})
//
// With a single argument the operator is "=". Any other number of
// arguments is rejected when the comparison is used.
func Cmp(dimension string, args ...any) Comparison {
	c := Comparison{Dimension: dimension, arity: len(args)}
	switch len(args) {
	case 1:
		c.Operator = "="
		c.Value = args[0]
	case 2:
		if op, ok := args[0].(string); ok {
			c.Operator = op
		}
		c.Value = args[1]
	}
	return c
}

// WithExtraction returns c with fn applied to the dimension before it is
// compared.
func (c Comparison) WithExtraction(fn extraction.Func) Comparison {
	c.Extraction = fn
	return c
}
