package condition

import (
	"strings"

	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/filter"
)

// Column is one side of a column comparison: a plain dimension name or a
// callback that selects exactly one dimension.
type Column struct {
	name     string
	selectFn func(*dimension.Builder) error
}

// Col refers to a dimension by name.
func Col(name string) Column {
	return Column{name: name}
}

// ColFunc selects the dimension with fn, which may attach an extraction or
// rename the output. fn must select exactly one dimension.
func ColFunc(fn func(*dimension.Builder) error) Column {
	return Column{selectFn: fn}
}

func (c Column) resolve(op string) (dimension.Dimension, error) {
	if c.selectFn == nil {
		name := strings.TrimSpace(c.name)
		if name == "" {
			return dimension.Dimension{}, argumentError(op, "empty column name")
		}
		return dimension.New(name), nil
	}

	db := dimension.NewBuilder()
	if err := c.selectFn(db); err != nil {
		return dimension.Dimension{}, wrapArgumentError(op, err, "column selection failed")
	}
	dims := db.Dimensions()
	if len(dims) != 1 {
		return dimension.Dimension{}, argumentError(op, "you should supply exactly 1 dimension object, %d given", len(dims))
	}
	return dims[0], nil
}

// WhereColumn matches rows where the left and right columns hold the same
// value.
func (b *Builder) WhereColumn(left, right Column) error {
	return b.whereColumn("whereColumn", left, right, false, joinAnd)
}

// OrWhereColumn is WhereColumn joined with OR.
func (b *Builder) OrWhereColumn(left, right Column) error {
	return b.whereColumn("orWhereColumn", left, right, false, joinOr)
}

// WhereNotColumn matches rows where the left and right columns differ.
func (b *Builder) WhereNotColumn(left, right Column) error {
	return b.whereColumn("whereNotColumn", left, right, true, joinAnd)
}

// OrWhereNotColumn is WhereNotColumn joined with OR.
func (b *Builder) OrWhereNotColumn(left, right Column) error {
	return b.whereColumn("orWhereNotColumn", left, right, true, joinOr)
}

func (b *Builder) whereColumn(op string, left, right Column, negate bool, j join) error {
	dimA, err := left.resolve(op)
	if err != nil {
		return err
	}
	dimB, err := right.resolve(op)
	if err != nil {
		return err
	}

	var node filter.Node = filter.ColumnComparison{DimensionA: dimA, DimensionB: dimB}
	if negate {
		node = filter.Not{Field: node}
	}
	b.appendNode(node, j)
	return nil
}
