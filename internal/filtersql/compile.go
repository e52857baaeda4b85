// Package filtersql renders filter trees as Druid SQL WHERE fragments.
//
// Values are never interpolated: every literal becomes a ? placeholder and
// is returned in the params slice, in placeholder order.
package filtersql

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/interval"
)

// ErrUnsupported is returned for nodes that have no Druid SQL equivalent.
var ErrUnsupported = errors.New("no sql equivalent")

// Compiler renders filter.Node trees to SQL.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile converts n to a parameterized WHERE fragment.
// Returns (sql, params, error) tuple.
func (c *Compiler) Compile(n filter.Node) (string, []any, error) {
	if n == nil {
		return "", nil, fmt.Errorf("cannot compile nil filter")
	}
	return c.compile(n)
}

func (c *Compiler) compile(n filter.Node) (string, []any, error) {
	if n == nil {
		return "", nil, fmt.Errorf("nil filter in tree")
	}

	switch f := n.(type) {
	case filter.Selector:
		if f.Extraction != nil {
			return "", nil, extractionError(f)
		}
		return quoteIdent(f.Dimension) + " = ?", []any{f.Value}, nil
	case filter.Bound:
		return c.compileBound(f)
	case filter.Between:
		return c.compileBetween(f)
	case filter.Like:
		if f.Extraction != nil {
			return "", nil, extractionError(f)
		}
		escape := f.Escape
		if escape == "" {
			escape = filter.DefaultLikeEscape
		}
		return quoteIdent(f.Dimension) + " LIKE ? ESCAPE ?", []any{f.Pattern, escape}, nil
	case filter.Regex:
		if f.Extraction != nil {
			return "", nil, extractionError(f)
		}
		return fmt.Sprintf("REGEXP_LIKE(%s, ?)", quoteIdent(f.Dimension)), []any{f.Pattern}, nil
	case filter.Search:
		return c.compileSearch(f)
	case filter.In:
		return c.compileIn(f)
	case filter.Interval:
		return c.compileInterval(f)
	case filter.ColumnComparison:
		if !f.DimensionA.IsPlain() || !f.DimensionB.IsPlain() {
			return "", nil, fmt.Errorf("%w: column comparison on extraction dimensions", ErrUnsupported)
		}
		return quoteIdent(f.DimensionA.Name) + " = " + quoteIdent(f.DimensionB.Name), nil, nil
	case filter.Not:
		sql, params, err := c.compile(f.Field)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", params, nil
	case *filter.And:
		if len(f.Fields) == 0 {
			return "1 = 1", nil, nil // Vacuous truth
		}
		return c.compileJunction(" AND ", f.Fields)
	case *filter.Or:
		if len(f.Fields) == 0 {
			return "1 = 0", nil, nil
		}
		return c.compileJunction(" OR ", f.Fields)
	default:
		return "", nil, fmt.Errorf("%w: %s filter", ErrUnsupported, n.Type())
	}
}

// compileJunction joins children with sep. Composite children are
// parenthesized so precedence survives.
func (c *Compiler) compileJunction(sep string, fields []filter.Node) (string, []any, error) {
	parts := make([]string, 0, len(fields))
	var params []any
	for _, child := range fields {
		sql, childParams, err := c.compile(child)
		if err != nil {
			return "", nil, err
		}
		switch child.(type) {
		case *filter.And, *filter.Or:
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, childParams...)
	}
	return strings.Join(parts, sep), params, nil
}

func (c *Compiler) compileBound(f filter.Bound) (string, []any, error) {
	if f.Extraction != nil {
		return "", nil, extractionError(f)
	}
	switch f.Operator {
	case ">", ">=", "<", "<=":
	default:
		return "", nil, fmt.Errorf("bound on %q: unknown operator %q", f.Dimension, f.Operator)
	}
	ordering := f.Ordering
	if ordering == "" {
		ordering = filter.DefaultOrdering(f.Value)
	}
	param, err := orderedParam(f.Value, ordering)
	if err != nil {
		return "", nil, fmt.Errorf("bound on %q: %w", f.Dimension, err)
	}
	return quoteIdent(f.Dimension) + " " + f.Operator + " ?", []any{param}, nil
}

func (c *Compiler) compileBetween(f filter.Between) (string, []any, error) {
	if f.Extraction != nil {
		return "", nil, extractionError(f)
	}
	ordering := f.Ordering
	if ordering == "" {
		ordering = filter.DefaultOrdering(f.Min, f.Max)
	}
	lo, err := orderedParam(f.Min, ordering)
	if err != nil {
		return "", nil, fmt.Errorf("between on %q: %w", f.Dimension, err)
	}
	hi, err := orderedParam(f.Max, ordering)
	if err != nil {
		return "", nil, fmt.Errorf("between on %q: %w", f.Dimension, err)
	}
	return quoteIdent(f.Dimension) + " BETWEEN ? AND ?", []any{lo, hi}, nil
}

func (c *Compiler) compileSearch(f filter.Search) (string, []any, error) {
	if f.Extraction != nil {
		return "", nil, extractionError(f)
	}
	if len(f.Values) == 0 {
		return "", nil, fmt.Errorf("search on %q: no values", f.Dimension)
	}
	fn := "ICONTAINS_STRING"
	if f.CaseSensitive {
		fn = "CONTAINS_STRING"
	}
	parts := make([]string, len(f.Values))
	params := make([]any, len(f.Values))
	for i, v := range f.Values {
		parts[i] = fmt.Sprintf("%s(%s, ?)", fn, quoteIdent(f.Dimension))
		params[i] = v
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

func (c *Compiler) compileIn(f filter.In) (string, []any, error) {
	if f.Extraction != nil {
		return "", nil, extractionError(f)
	}
	if len(f.Values) == 0 {
		return "1 = 0", nil, nil
	}
	marks := make([]string, len(f.Values))
	params := make([]any, len(f.Values))
	for i, v := range f.Values {
		marks[i] = "?"
		params[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", quoteIdent(f.Dimension), strings.Join(marks, ", ")), params, nil
}

func (c *Compiler) compileInterval(f filter.Interval) (string, []any, error) {
	if f.Extraction != nil {
		return "", nil, extractionError(f)
	}
	if len(f.Intervals) == 0 {
		return "1 = 0", nil, nil
	}
	col := quoteIdent(f.Dimension)
	parts := make([]string, len(f.Intervals))
	params := make([]any, 0, 2*len(f.Intervals))
	for i, iv := range f.Intervals {
		parts[i] = fmt.Sprintf("(%s >= TIME_PARSE(?) AND %s < TIME_PARSE(?))", col, col)
		params = append(params,
			iv.Start.UTC().Format(interval.Layout),
			iv.End.UTC().Format(interval.Layout))
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", params, nil
}

// orderedParam converts a bound value to the SQL parameter its ordering
// compares by. Only numeric and lexicographic orderings exist in SQL.
func orderedParam(value, ordering string) (any, error) {
	switch ordering {
	case filter.OrderingNumeric:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("numeric ordering with non-numeric value %q", value)
		}
		return f, nil
	case filter.OrderingLexicographic:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %s ordering", ErrUnsupported, ordering)
	}
}

func extractionError(n filter.Node) error {
	return fmt.Errorf("%w: %s filter with an extraction function", ErrUnsupported, n.Type())
}

// quoteIdent double-quotes a column name, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
