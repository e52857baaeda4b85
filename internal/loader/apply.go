package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/roach88/druidq/internal/condition"
	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/query"
)

// StepError reports a step that could not be applied. Index is the step's
// position in its list; errors inside a group wrap the inner StepError.
type StepError struct {
	Index   int
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("where[%d]: %s: %v", e.Index, e.Message, e.Err)
	}
	return fmt.Sprintf("where[%d]: %s", e.Index, e.Message)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsStepError reports whether err is or wraps a StepError.
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}

// Step kinds.
const (
	kindComparison = "comparison"
	kindIn         = "in"
	kindBetween    = "between"
	kindColumn     = "column"
	kindInterval   = "interval"
	kindExpression = "expression"
	kindFlags      = "flags"
	kindSpatial    = "spatial"
	kindGroup      = "group"
)

// Kind returns which condition the step holds, or an error when it holds
// none or several.
func (s Step) Kind() (string, error) {
	var kinds []string
	if s.Dimension != "" {
		kinds = append(kinds, kindComparison)
	}
	if s.In != nil {
		kinds = append(kinds, kindIn)
	}
	if s.Between != nil {
		kinds = append(kinds, kindBetween)
	}
	if s.Column != nil {
		kinds = append(kinds, kindColumn)
	}
	if s.Interval != nil {
		kinds = append(kinds, kindInterval)
	}
	if s.Expression != "" {
		kinds = append(kinds, kindExpression)
	}
	if s.Flags != nil {
		kinds = append(kinds, kindFlags)
	}
	if s.Spatial != nil {
		kinds = append(kinds, kindSpatial)
	}
	if s.Group != nil {
		kinds = append(kinds, kindGroup)
	}

	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("step has no condition")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("step is ambiguous: %s", strings.Join(kinds, ", "))
	}
}

// Apply replays the plan's steps on b in order.
func (p *Plan) Apply(b *condition.Builder) error {
	return applySteps(b, p.Where)
}

// Query builds the scan query described by the plan.
func (p *Plan) Query(opts ...query.Option) (*query.Builder, error) {
	q := query.New(p.DataSource, opts...)
	if len(p.Intervals) > 0 {
		if err := q.Interval(p.Intervals); err != nil {
			return nil, fmt.Errorf("plan %q: %w", p.Name, err)
		}
	}
	q.Select(p.Columns...)
	q.Limit(p.Limit)
	if err := p.Apply(q.Filters()); err != nil {
		return nil, fmt.Errorf("plan %q: %w", p.Name, err)
	}
	return q, nil
}

func applySteps(b *condition.Builder, steps []Step) error {
	for i, step := range steps {
		if err := applyStep(b, step); err != nil {
			var se *StepError
			if errors.As(err, &se) && se.Index == -1 {
				se.Index = i
				return se
			}
			return &StepError{Index: i, Message: "invalid condition", Err: err}
		}
	}
	return nil
}

// stepError marks a problem with the step itself. applySteps fills in
// the index.
func stepError(format string, args ...any) error {
	return &StepError{Index: -1, Message: fmt.Sprintf(format, args...)}
}

func applyStep(b *condition.Builder, s Step) error {
	kind, err := s.Kind()
	if err != nil {
		return stepError("%v", err)
	}

	opts, err := filterOptions(kind, s)
	if err != nil {
		return err
	}

	// Kinds with a dedicated negated form use it; the rest are wrapped.
	switch kind {
	case kindIn:
		in := s.In
		switch {
		case s.Not && s.Or:
			return b.OrWhereNotIn(in.Dimension, in.Values, opts...)
		case s.Not:
			return b.WhereNotIn(in.Dimension, in.Values, opts...)
		case s.Or:
			return b.OrWhereIn(in.Dimension, in.Values, opts...)
		default:
			return b.WhereIn(in.Dimension, in.Values, opts...)
		}
	case kindBetween:
		bt := s.Between
		switch {
		case s.Not && s.Or:
			return b.OrWhereNotBetween(bt.Dimension, bt.Min, bt.Max, opts...)
		case s.Not:
			return b.WhereNotBetween(bt.Dimension, bt.Min, bt.Max, opts...)
		case s.Or:
			return b.OrWhereBetween(bt.Dimension, bt.Min, bt.Max, opts...)
		default:
			return b.WhereBetween(bt.Dimension, bt.Min, bt.Max, opts...)
		}
	case kindInterval:
		iv := s.Interval
		switch {
		case s.Not && s.Or:
			return b.OrWhereNotInterval(iv.Dimension, iv.Intervals, opts...)
		case s.Not:
			return b.WhereNotInterval(iv.Dimension, iv.Intervals, opts...)
		case s.Or:
			return b.OrWhereInterval(iv.Dimension, iv.Intervals, opts...)
		default:
			return b.WhereInterval(iv.Dimension, iv.Intervals, opts...)
		}
	case kindColumn:
		left, err := columnOf(s.Column.Left)
		if err != nil {
			return err
		}
		right, err := columnOf(s.Column.Right)
		if err != nil {
			return err
		}
		switch {
		case s.Not && s.Or:
			return b.OrWhereNotColumn(left, right)
		case s.Not:
			return b.WhereNotColumn(left, right)
		case s.Or:
			return b.OrWhereColumn(left, right)
		default:
			return b.WhereColumn(left, right)
		}
	case kindGroup:
		if len(s.Group) == 0 {
			return stepError("group has no steps")
		}
	}

	if s.Not {
		inner := s
		inner.Not, inner.Or = false, false
		fn := func(sub *condition.Builder) error { return applyPositive(sub, kind, inner, opts) }
		if s.Or {
			return b.OrWhereNot(fn)
		}
		return b.WhereNot(fn)
	}
	return applyPositive(b, kind, s, opts)
}

// applyPositive applies the kinds without a dedicated negated form.
func applyPositive(b *condition.Builder, kind string, s Step, opts []condition.FilterOption) error {
	switch kind {
	case kindComparison:
		var c condition.Comparison
		if s.Operator == "" {
			c = condition.Cmp(s.Dimension, s.Value)
		} else {
			c = condition.Cmp(s.Dimension, s.Operator, s.Value)
		}
		if s.Or {
			return b.OrWhere(c, opts...)
		}
		return b.Where(c, opts...)

	case kindExpression:
		if s.Or {
			return b.OrWhereExpression(s.Expression)
		}
		return b.WhereExpression(s.Expression)

	case kindFlags:
		f := s.Flags
		if s.Or {
			return b.OrWhereFlags(f.Dimension, f.Flags, f.Javascript)
		}
		return b.WhereFlags(f.Dimension, f.Flags, f.Javascript)

	case kindSpatial:
		return applySpatial(b, s.Spatial, s.Or)

	case kindGroup:
		group := condition.Func(func(sub *condition.Builder) error {
			return applySteps(sub, s.Group)
		})
		if s.Or {
			return b.OrWhere(group)
		}
		return b.Where(group)
	}
	return stepError("unknown step kind %q", kind)
}

func applySpatial(b *condition.Builder, sp *SpatialStep, or bool) error {
	var areas int
	for _, set := range []bool{sp.Rectangular != nil, sp.Radius != nil, sp.Polygon != nil, sp.WKT != ""} {
		if set {
			areas++
		}
	}
	if areas != 1 {
		return stepError("spatial step on %q needs exactly one of rectangular, radius, polygon or wkt, %d given", sp.Dimension, areas)
	}

	switch {
	case sp.Rectangular != nil:
		if or {
			return b.OrWhereSpatialRectangular(sp.Dimension, sp.Rectangular.Min, sp.Rectangular.Max)
		}
		return b.WhereSpatialRectangular(sp.Dimension, sp.Rectangular.Min, sp.Rectangular.Max)
	case sp.Radius != nil:
		if or {
			return b.OrWhereSpatialRadius(sp.Dimension, sp.Radius.Coords, sp.Radius.Radius)
		}
		return b.WhereSpatialRadius(sp.Dimension, sp.Radius.Coords, sp.Radius.Radius)
	case sp.Polygon != nil:
		if or {
			return b.OrWhereSpatialPolygon(sp.Dimension, sp.Polygon.Abscissa, sp.Polygon.Ordinate)
		}
		return b.WhereSpatialPolygon(sp.Dimension, sp.Polygon.Abscissa, sp.Polygon.Ordinate)
	default:
		g, err := wkt.Unmarshal(sp.WKT)
		if err != nil {
			return stepError("spatial step on %q: invalid wkt: %v", sp.Dimension, err)
		}
		if _, ok := g.(orb.Polygon); !ok {
			return stepError("spatial step on %q: wkt must be a POLYGON, got %s", sp.Dimension, g.GeoJSONType())
		}
		if or {
			return b.OrWhereGeometry(sp.Dimension, g)
		}
		return b.WhereGeometry(sp.Dimension, g)
	}
}

// filterOptions converts the step's ordering and extraction. They are only
// meaningful for the kinds that accept filter options.
func filterOptions(kind string, s Step) ([]condition.FilterOption, error) {
	if s.Ordering == "" && len(s.Extraction) == 0 {
		return nil, nil
	}
	switch kind {
	case kindComparison, kindIn, kindBetween, kindInterval:
	default:
		return nil, stepError("ordering and extraction are not supported on %s steps", kind)
	}

	var opts []condition.FilterOption
	if s.Ordering != "" {
		opts = append(opts, condition.WithOrdering(s.Ordering))
	}
	if len(s.Extraction) > 0 {
		fn, err := extractionFunc(s.Extraction)
		if err != nil {
			return nil, err
		}
		opts = append(opts, condition.WithExtraction(fn))
	}
	return opts, nil
}

func columnOf(ref ColumnRef) (condition.Column, error) {
	if ref.As == "" && ref.OutputType == "" && len(ref.Extraction) == 0 {
		return condition.Col(ref.Dimension), nil
	}

	var opts []dimension.Option
	if ref.As != "" {
		opts = append(opts, dimension.As(ref.As))
	}
	if ref.OutputType != "" {
		opts = append(opts, dimension.OutputType(ref.OutputType))
	}
	if len(ref.Extraction) > 0 {
		fn, err := extractionFunc(ref.Extraction)
		if err != nil {
			return condition.Column{}, err
		}
		opts = append(opts, dimension.WithExtraction(fn))
	}
	return condition.ColFunc(func(db *dimension.Builder) error {
		return db.Select(ref.Dimension, opts...)
	}), nil
}

// extractionFunc validates steps up front so the returned callback cannot
// fail halfway.
func extractionFunc(steps []ExtractionStep) (extraction.Func, error) {
	for i, st := range steps {
		switch st.Type {
		case "javascript":
			if st.Function == "" {
				return nil, stepError("extraction[%d]: javascript needs a function", i)
			}
		case "regex", "partial":
			if st.Expression == "" {
				return nil, stepError("extraction[%d]: %s needs an expression", i, st.Type)
			}
		case "timeFormat":
			if st.Format == "" {
				return nil, stepError("extraction[%d]: timeFormat needs a format", i)
			}
		case "lookup":
			if st.Lookup == "" {
				return nil, stepError("extraction[%d]: lookup needs a lookup name", i)
			}
		case "substring", "upper", "lower", "strlen":
		default:
			return nil, stepError("extraction[%d]: unknown extraction type %q", i, st.Type)
		}
	}

	return func(eb *extraction.Builder) {
		for _, st := range steps {
			switch st.Type {
			case "javascript":
				eb.Javascript(st.Function)
			case "substring":
				if st.Length != nil {
					eb.SubstringN(st.Index, *st.Length)
				} else {
					eb.Substring(st.Index)
				}
			case "upper":
				eb.Upper(st.Locale)
			case "lower":
				eb.Lower(st.Locale)
			case "strlen":
				eb.Strlen()
			case "regex":
				eb.Regex(st.Expression)
			case "partial":
				eb.Partial(st.Expression)
			case "timeFormat":
				eb.TimeFormat(st.Format, st.TimeZone, st.Locale)
			case "lookup":
				eb.Lookup(st.Lookup)
			}
		}
	}, nil
}
