package condition

import (
	"log/slog"
	"strings"

	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/interval"
)

// Builder accumulates a filter tree.
//
// Every Where-style call resolves its input to one filter node and joins it
// onto the tree with AND (Where...) or OR (OrWhere...). A call that returns
// an error leaves the tree exactly as it was.
//
// Builder is not safe for concurrent use.
type Builder struct {
	root   filter.Node
	query  QueryContext
	logger *slog.Logger
}

// New creates an empty Builder.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// sub returns a fresh builder sharing the query context and logger.
func (b *Builder) sub() *Builder {
	return &Builder{query: b.query, logger: b.logger}
}

// Filter returns the accumulated filter, or nil when nothing was added.
func (b *Builder) Filter() filter.Node {
	return b.root
}

// Where adds c with AND.
func (b *Builder) Where(c Condition, opts ...FilterOption) error {
	return b.where("where", c, joinAnd, opts)
}

// OrWhere adds c with OR.
func (b *Builder) OrWhere(c Condition, opts ...FilterOption) error {
	return b.where("orWhere", c, joinOr, opts)
}

func (b *Builder) where(op string, c Condition, j join, opts []FilterOption) error {
	node, err := b.build(op, c, applyFilterOptions(opts))
	if err != nil {
		return err
	}
	b.appendNode(node, j)
	return nil
}

// WhereNot adds the negation of the filter fn builds, with AND.
// If fn adds nothing the call is a no-op.
func (b *Builder) WhereNot(fn Func) error {
	return b.whereNot("whereNot", fn, joinAnd)
}

// OrWhereNot adds the negation of the filter fn builds, with OR.
// If fn adds nothing the call is a no-op.
func (b *Builder) OrWhereNot(fn Func) error {
	return b.whereNot("orWhereNot", fn, joinOr)
}

func (b *Builder) whereNot(op string, fn Func, j join) error {
	if fn == nil {
		return argumentError(op, "nil callback")
	}
	node, err := b.delegate(fn)
	if err != nil {
		return err
	}
	if node == nil {
		b.logger.Debug("empty negation ignored", "op", op)
		return nil
	}
	b.appendNode(filter.Not{Field: node}, j)
	return nil
}

// WhereIn matches rows where dimension equals any of values.
// values must be a slice or array of scalars.
func (b *Builder) WhereIn(dimension string, values any, opts ...FilterOption) error {
	return b.whereIn("whereIn", dimension, values, false, joinAnd, opts)
}

// OrWhereIn is WhereIn joined with OR.
func (b *Builder) OrWhereIn(dimension string, values any, opts ...FilterOption) error {
	return b.whereIn("orWhereIn", dimension, values, false, joinOr, opts)
}

// WhereNotIn matches rows where dimension equals none of values.
func (b *Builder) WhereNotIn(dimension string, values any, opts ...FilterOption) error {
	return b.whereIn("whereNotIn", dimension, values, true, joinAnd, opts)
}

// OrWhereNotIn is WhereNotIn joined with OR.
func (b *Builder) OrWhereNotIn(dimension string, values any, opts ...FilterOption) error {
	return b.whereIn("orWhereNotIn", dimension, values, true, joinOr, opts)
}

func (b *Builder) whereIn(op, dimension string, values any, negate bool, j join, opts []FilterOption) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	list, isList, err := listValues(values)
	if !isList {
		return argumentError(op, "values for dimension %q must be a list, got %T", dim, values)
	}
	if err != nil {
		return wrapArgumentError(op, err, "invalid values for dimension %q", dim)
	}

	o := applyFilterOptions(opts)
	var node filter.Node = filter.In{Dimension: dim, Values: list, Extraction: resolveExtraction(o)}
	if negate {
		node = filter.Not{Field: node}
	}
	b.appendNode(node, j)
	return nil
}

// WhereBetween matches rows where minValue <= dimension <= maxValue.
//
// Without WithOrdering the comparison is numeric when both bounds are
// numbers and lexicographic otherwise.
func (b *Builder) WhereBetween(dimension string, minValue, maxValue any, opts ...FilterOption) error {
	return b.whereBetween("whereBetween", dimension, minValue, maxValue, false, joinAnd, opts)
}

// OrWhereBetween is WhereBetween joined with OR.
func (b *Builder) OrWhereBetween(dimension string, minValue, maxValue any, opts ...FilterOption) error {
	return b.whereBetween("orWhereBetween", dimension, minValue, maxValue, false, joinOr, opts)
}

// WhereNotBetween matches rows outside [minValue, maxValue].
func (b *Builder) WhereNotBetween(dimension string, minValue, maxValue any, opts ...FilterOption) error {
	return b.whereBetween("whereNotBetween", dimension, minValue, maxValue, true, joinAnd, opts)
}

// OrWhereNotBetween is WhereNotBetween joined with OR.
func (b *Builder) OrWhereNotBetween(dimension string, minValue, maxValue any, opts ...FilterOption) error {
	return b.whereBetween("orWhereNotBetween", dimension, minValue, maxValue, true, joinOr, opts)
}

func (b *Builder) whereBetween(op, dimension string, minValue, maxValue any, negate bool, j join, opts []FilterOption) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	lo, ok := stringify(minValue)
	if !ok {
		return argumentError(op, "unsupported minimum value type %T", minValue)
	}
	hi, ok := stringify(maxValue)
	if !ok {
		return argumentError(op, "unsupported maximum value type %T", maxValue)
	}

	o := applyFilterOptions(opts)
	if o.ordering != "" && !filter.IsOrdering(o.ordering) {
		return argumentError(op, "unknown ordering %q", o.ordering)
	}

	var node filter.Node = filter.Between{
		Dimension:  dim,
		Min:        lo,
		Max:        hi,
		Ordering:   o.ordering,
		Extraction: resolveExtraction(o),
	}
	if negate {
		node = filter.Not{Field: node}
	}
	b.appendNode(node, j)
	return nil
}

// WhereInterval matches rows whose dimension falls in any of intervals.
//
// intervals may be an interval.Interval, a "start/end" string, a pair of
// endpoints, or a list of any of those. See interval.Normalize.
func (b *Builder) WhereInterval(dimension string, intervals any, opts ...FilterOption) error {
	return b.whereInterval("whereInterval", dimension, intervals, false, joinAnd, opts)
}

// OrWhereInterval is WhereInterval joined with OR.
func (b *Builder) OrWhereInterval(dimension string, intervals any, opts ...FilterOption) error {
	return b.whereInterval("orWhereInterval", dimension, intervals, false, joinOr, opts)
}

// WhereNotInterval matches rows whose dimension falls in none of intervals.
func (b *Builder) WhereNotInterval(dimension string, intervals any, opts ...FilterOption) error {
	return b.whereInterval("whereNotInterval", dimension, intervals, true, joinAnd, opts)
}

// OrWhereNotInterval is WhereNotInterval joined with OR.
func (b *Builder) OrWhereNotInterval(dimension string, intervals any, opts ...FilterOption) error {
	return b.whereInterval("orWhereNotInterval", dimension, intervals, true, joinOr, opts)
}

func (b *Builder) whereInterval(op, dimension string, raw any, negate bool, j join, opts []FilterOption) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	ivs, err := interval.Normalize(raw)
	if err != nil {
		return wrapArgumentError(op, err, "invalid intervals for dimension %q", dim)
	}
	if len(ivs) == 0 {
		return argumentError(op, "no intervals given for dimension %q", dim)
	}

	o := applyFilterOptions(opts)
	var node filter.Node = filter.Interval{Dimension: dim, Intervals: ivs, Extraction: resolveExtraction(o)}
	if negate {
		node = filter.Not{Field: node}
	}
	b.appendNode(node, j)
	return nil
}

// WhereExpression adds a Druid expression filter with AND. The expression
// is used verbatim.
func (b *Builder) WhereExpression(expression string) error {
	return b.whereExpression("whereExpression", expression, joinAnd)
}

// OrWhereExpression adds a Druid expression filter with OR.
func (b *Builder) OrWhereExpression(expression string) error {
	return b.whereExpression("orWhereExpression", expression, joinOr)
}

func (b *Builder) whereExpression(op, expression string, j join) error {
	if strings.TrimSpace(expression) == "" {
		return argumentError(op, "empty expression")
	}
	b.appendNode(filter.Expression{Expression: expression}, j)
	return nil
}

func requireDimension(op, dimension string) (string, error) {
	dim := strings.TrimSpace(dimension)
	if dim == "" {
		return "", argumentError(op, "empty dimension")
	}
	return dim, nil
}
