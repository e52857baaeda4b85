// Package query assembles a Druid scan query around a filter builder.
//
// The query is the filter builder's query context: flag filters register
// their bitwiseAnd virtual columns here, named v0, v1, ... in order.
package query

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/druidq/internal/condition"
	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/interval"
	"github.com/roach88/druidq/internal/ir"
)

// VirtualColumn is an expression evaluated per row and exposed as a column.
type VirtualColumn struct {
	Name       string
	Expression string
	OutputType string
}

// ToIR returns the virtual column JSON object.
func (v VirtualColumn) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString("expression")),
		ir.O("name", ir.IRString(v.Name)),
		ir.O("expression", ir.IRString(v.Expression)),
		ir.O("outputType", ir.IRString(v.OutputType)),
	)
}

// Builder holds one scan query under construction.
//
// Builder is not safe for concurrent use.
type Builder struct {
	id             string
	dataSource     string
	intervals      []interval.Interval
	columns        []string
	limit          int
	virtualColumns []VirtualColumn
	filters        *condition.Builder
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	gen    IDGenerator
	logger *slog.Logger
}

// WithIDGenerator sets the query id source. Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.gen = gen
		}
	}
}

// WithLogger sets the logger used by the query and its filter builder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a scan query on dataSource.
func New(dataSource string, opts ...Option) *Builder {
	o := options{gen: UUIDv7Generator{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Builder{
		id:         o.gen.NewID(),
		dataSource: dataSource,
		logger:     o.logger,
	}
	b.filters = condition.New(
		condition.WithQueryContext(b),
		condition.WithLogger(o.logger),
	)
	return b
}

// ID returns the query id sent in the query context.
func (b *Builder) ID() string {
	return b.id
}

// Filters returns the filter builder bound to this query.
func (b *Builder) Filters() *condition.Builder {
	return b.filters
}

// Interval adds the intervals described by raw. See interval.Normalize.
func (b *Builder) Interval(raw any) error {
	ivs, err := interval.Normalize(raw)
	if err != nil {
		return fmt.Errorf("query interval: %w", err)
	}
	b.intervals = append(b.intervals, ivs...)
	return nil
}

// Select adds columns to the result.
func (b *Builder) Select(columns ...string) {
	b.columns = append(b.columns, columns...)
}

// Limit caps the number of rows. Zero means no limit.
func (b *Builder) Limit(n int) {
	b.limit = n
}

// AddVirtualColumn registers expression and returns its generated name.
func (b *Builder) AddVirtualColumn(expression, outputType string) string {
	if outputType == "" {
		outputType = dimension.TypeString
	}
	name := fmt.Sprintf("v%d", len(b.virtualColumns))
	b.virtualColumns = append(b.virtualColumns, VirtualColumn{
		Name:       name,
		Expression: expression,
		OutputType: strings.ToLower(outputType),
	})
	b.logger.Debug("virtual column registered", "name", name, "expression", expression, "outputType", outputType)
	return name
}

// VirtualColumns returns the registered virtual columns in order.
func (b *Builder) VirtualColumns() []VirtualColumn {
	out := make([]VirtualColumn, len(b.virtualColumns))
	copy(out, b.virtualColumns)
	return out
}

// ToIR renders the scan query JSON.
func (b *Builder) ToIR() (ir.IRObject, error) {
	if strings.TrimSpace(b.dataSource) == "" {
		return nil, fmt.Errorf("scan query: empty data source")
	}
	if len(b.intervals) == 0 {
		return nil, fmt.Errorf("scan query on %q: at least one interval is required", b.dataSource)
	}

	ivs := make([]string, len(b.intervals))
	for i, iv := range b.intervals {
		ivs[i] = iv.String()
	}

	q := ir.NewIRObjectFromPairs(
		ir.O("queryType", ir.IRString("scan")),
		ir.O("dataSource", ir.IRString(b.dataSource)),
		ir.O("intervals", ir.Strings(ivs)),
		ir.O("resultFormat", ir.IRString("list")),
		ir.O("context", ir.NewIRObjectFromPairs(ir.O("queryId", ir.IRString(b.id)))),
	)
	if len(b.columns) > 0 {
		q["columns"] = ir.Strings(b.columns)
	}
	if b.limit > 0 {
		q["limit"] = ir.IRInt(b.limit)
	}
	if len(b.virtualColumns) > 0 {
		vcs := make(ir.IRArray, len(b.virtualColumns))
		for i, vc := range b.virtualColumns {
			vcs[i] = vc.ToIR()
		}
		q["virtualColumns"] = vcs
	}
	if f := b.filters.Filter(); f != nil {
		q["filter"] = f.ToIR()
	}
	return q, nil
}

// Marshal renders the scan query as JSON with sorted keys.
func (b *Builder) Marshal() ([]byte, error) {
	q, err := b.ToIR()
	if err != nil {
		return nil, err
	}
	return ir.MarshalSorted(q)
}

// Hash returns the content hash of the query. The query id is excluded, so
// two builders producing the same query hash equal.
func (b *Builder) Hash() (string, error) {
	q, err := b.ToIR()
	if err != nil {
		return "", err
	}
	delete(q, "context")
	return ir.QueryHash(q)
}
