package filter

import (
	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/interval"
	"github.com/roach88/druidq/internal/ir"
)

// Node is one unit of the filter tree.
type Node interface {
	// Type returns the node kind. It matches the JSON "type" field except
	// for Between, which Druid only understands as a bound filter.
	Type() string

	// ToIR returns the node's Druid JSON object.
	ToIR() ir.IRObject

	filterNode() // Marker method - seals interface to this package
}

// Node kinds.
const (
	TypeSelector         = "selector"
	TypeBound            = "bound"
	TypeBetween          = "between"
	TypeLike             = "like"
	TypeRegex            = "regex"
	TypeJavascript       = "javascript"
	TypeSearch           = "search"
	TypeIn               = "in"
	TypeInterval         = "interval"
	TypeSpatial          = "spatial"
	TypeColumnComparison = "columnComparison"
	TypeExpression       = "expression"
	TypeNot              = "not"
	TypeAnd              = "and"
	TypeOr               = "or"
)

// DefaultLikeEscape is the escape character used for like patterns.
const DefaultLikeEscape = `\`

func leaf(kind, dim string, fn extraction.Descriptor, pairs ...ir.IRPair) ir.IRObject {
	obj := ir.NewIRObjectFromPairs(pairs...)
	obj["type"] = ir.IRString(kind)
	obj["dimension"] = ir.IRString(dim)
	if fn != nil {
		obj["extractionFn"] = fn.ToIR()
	}
	return obj
}

// Selector matches rows where Dimension equals Value.
type Selector struct {
	Dimension  string
	Value      string
	Extraction extraction.Descriptor
}

func (Selector) filterNode()  {}
func (Selector) Type() string { return TypeSelector }

func (f Selector) ToIR() ir.IRObject {
	return leaf(TypeSelector, f.Dimension, f.Extraction, ir.O("value", ir.IRString(f.Value)))
}

// Bound compares Dimension against a single bound.
//
// Operator is one of >, >=, < or <=. The strict operators exclude Value.
// An empty Ordering means numeric for numeric values and lexicographic
// otherwise.
type Bound struct {
	Dimension  string
	Operator   string
	Value      string
	Ordering   string
	Extraction extraction.Descriptor
}

func (Bound) filterNode()  {}
func (Bound) Type() string { return TypeBound }

func (f Bound) ToIR() ir.IRObject {
	ordering := f.Ordering
	if ordering == "" {
		ordering = DefaultOrdering(f.Value)
	}

	var side, strict string
	switch f.Operator {
	case ">", ">=":
		side, strict = "lower", "lowerStrict"
	default:
		side, strict = "upper", "upperStrict"
	}

	return leaf(TypeBound, f.Dimension, f.Extraction,
		ir.O(side, ir.IRString(f.Value)),
		ir.O(strict, ir.IRBool(f.Operator == ">" || f.Operator == "<")),
		ir.O("ordering", ir.IRString(ordering)),
	)
}

// Between matches Min <= Dimension <= Max. It serializes as a bound filter
// with both sides inclusive.
type Between struct {
	Dimension  string
	Min        string
	Max        string
	Ordering   string
	Extraction extraction.Descriptor
}

func (Between) filterNode()  {}
func (Between) Type() string { return TypeBetween }

func (f Between) ToIR() ir.IRObject {
	ordering := f.Ordering
	if ordering == "" {
		ordering = DefaultOrdering(f.Min, f.Max)
	}
	return leaf(TypeBound, f.Dimension, f.Extraction,
		ir.O("lower", ir.IRString(f.Min)),
		ir.O("upper", ir.IRString(f.Max)),
		ir.O("lowerStrict", ir.IRBool(false)),
		ir.O("upperStrict", ir.IRBool(false)),
		ir.O("ordering", ir.IRString(ordering)),
	)
}

// Like matches Dimension against a SQL LIKE pattern.
type Like struct {
	Dimension  string
	Pattern    string
	Escape     string
	Extraction extraction.Descriptor
}

func (Like) filterNode()  {}
func (Like) Type() string { return TypeLike }

func (f Like) ToIR() ir.IRObject {
	escape := f.Escape
	if escape == "" {
		escape = DefaultLikeEscape
	}
	return leaf(TypeLike, f.Dimension, f.Extraction,
		ir.O("pattern", ir.IRString(f.Pattern)),
		ir.O("escape", ir.IRString(escape)),
	)
}

// Regex matches Dimension against a Java regular expression.
type Regex struct {
	Dimension  string
	Pattern    string
	Extraction extraction.Descriptor
}

func (Regex) filterNode()  {}
func (Regex) Type() string { return TypeRegex }

func (f Regex) ToIR() ir.IRObject {
	return leaf(TypeRegex, f.Dimension, f.Extraction, ir.O("pattern", ir.IRString(f.Pattern)))
}

// Javascript matches rows for which Function returns true.
type Javascript struct {
	Dimension  string
	Function   string
	Extraction extraction.Descriptor
}

func (Javascript) filterNode()  {}
func (Javascript) Type() string { return TypeJavascript }

func (f Javascript) ToIR() ir.IRObject {
	return leaf(TypeJavascript, f.Dimension, f.Extraction, ir.O("function", ir.IRString(f.Function)))
}

// Search matches rows whose Dimension contains Values.
//
// A single value renders a "contains" query. Several values, or any
// values with Fragment set, render a "fragment" query that requires all of
// them. Fragment records that the caller passed a list.
type Search struct {
	Dimension     string
	Values        []string
	CaseSensitive bool
	Fragment      bool
	Extraction    extraction.Descriptor
}

func (Search) filterNode()  {}
func (Search) Type() string { return TypeSearch }

func (f Search) ToIR() ir.IRObject {
	var query ir.IRObject
	if len(f.Values) == 1 && !f.Fragment {
		query = ir.NewIRObjectFromPairs(
			ir.O("type", ir.IRString("contains")),
			ir.O("value", ir.IRString(f.Values[0])),
			ir.O("caseSensitive", ir.IRBool(f.CaseSensitive)),
		)
	} else {
		query = ir.NewIRObjectFromPairs(
			ir.O("type", ir.IRString("fragment")),
			ir.O("values", ir.Strings(f.Values)),
			ir.O("caseSensitive", ir.IRBool(f.CaseSensitive)),
		)
	}
	return leaf(TypeSearch, f.Dimension, f.Extraction, ir.O("query", query))
}

// In matches rows whose Dimension equals any of Values.
type In struct {
	Dimension  string
	Values     []string
	Extraction extraction.Descriptor
}

func (In) filterNode()  {}
func (In) Type() string { return TypeIn }

func (f In) ToIR() ir.IRObject {
	return leaf(TypeIn, f.Dimension, f.Extraction, ir.O("values", ir.Strings(f.Values)))
}

// Interval matches rows whose Dimension, read as a timestamp, falls in any
// of Intervals.
type Interval struct {
	Dimension  string
	Intervals  []interval.Interval
	Extraction extraction.Descriptor
}

func (Interval) filterNode()  {}
func (Interval) Type() string { return TypeInterval }

func (f Interval) ToIR() ir.IRObject {
	ivs := make([]string, len(f.Intervals))
	for i, iv := range f.Intervals {
		ivs[i] = iv.String()
	}
	return leaf(TypeInterval, f.Dimension, f.Extraction, ir.O("intervals", ir.Strings(ivs)))
}

// ColumnComparison matches rows where two dimensions hold the same value.
type ColumnComparison struct {
	DimensionA dimension.Dimension
	DimensionB dimension.Dimension
}

func (ColumnComparison) filterNode()  {}
func (ColumnComparison) Type() string { return TypeColumnComparison }

func (f ColumnComparison) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(TypeColumnComparison)),
		ir.O("dimensions", ir.NewIRArray(f.DimensionA.ToIR(), f.DimensionB.ToIR())),
	)
}

// Expression matches rows for which a Druid expression is true.
type Expression struct {
	Expression string
}

func (Expression) filterNode()  {}
func (Expression) Type() string { return TypeExpression }

func (f Expression) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(TypeExpression)),
		ir.O("expression", ir.IRString(f.Expression)),
	)
}
