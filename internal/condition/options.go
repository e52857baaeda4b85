package condition

import (
	"log/slog"

	"github.com/roach88/druidq/internal/extraction"
)

// QueryContext registers virtual columns on the query being built.
//
// WhereFlags uses it to filter on a computed bitwiseAnd column. Without a
// query context it falls back to an expression filter.
type QueryContext interface {
	// AddVirtualColumn registers expression as a virtual column of the given
	// output type and returns the generated column name.
	AddVirtualColumn(expression, outputType string) string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithQueryContext attaches the query that filters are built for.
func WithQueryContext(qc QueryContext) BuilderOption {
	return func(b *Builder) {
		b.query = qc
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// FilterOption adjusts a single filter call.
type FilterOption func(*filterOptions)

type filterOptions struct {
	extraction extraction.Func
	ordering   string
}

// WithExtraction transforms the dimension with the extraction built by fn
// before the filter compares it.
func WithExtraction(fn extraction.Func) FilterOption {
	return func(o *filterOptions) {
		o.extraction = fn
	}
}

// WithOrdering sets the sort order of bound and between filters.
// See the filter.Ordering constants.
func WithOrdering(ordering string) FilterOption {
	return func(o *filterOptions) {
		o.ordering = ordering
	}
}

func applyFilterOptions(opts []FilterOption) filterOptions {
	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func resolveExtraction(o filterOptions) extraction.Descriptor {
	return extraction.Resolve(o.extraction)
}
