package condition

import (
	"fmt"

	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
)

// flagsFunction ANDs two 64-bit integers. JavaScript bitwise operators
// work on 32 bits, so the high and low words are combined separately.
const flagsFunction = `function(dimensionValue) {
    var givenValue = %d;
    var hi = 0x80000000;
    var low = 0x7fffffff;
    var hi1 = ~~(dimensionValue / hi);
    var hi2 = ~~(givenValue / hi);
    var low1 = dimensionValue & low;
    var low2 = givenValue & low;
    var h = hi1 & hi2;
    var l = low1 & low2;
    return (h*hi + l);
}`

// WhereFlags matches rows where dimension has every bit of flags set.
//
// With useJavascript the dimension is compared through a javascript
// extraction, which requires javascript to be enabled in Druid. Otherwise
// Druid's bitwiseAnd expression is used: as a virtual column when the
// builder has a query context, and as an expression filter when it has not.
func (b *Builder) WhereFlags(dimension string, flags int64, useJavascript bool) error {
	return b.whereFlags("whereFlags", dimension, flags, useJavascript, joinAnd)
}

// OrWhereFlags is WhereFlags joined with OR.
func (b *Builder) OrWhereFlags(dimension string, flags int64, useJavascript bool) error {
	return b.whereFlags("orWhereFlags", dimension, flags, useJavascript, joinOr)
}

func (b *Builder) whereFlags(op, dim string, flags int64, useJavascript bool, j join) error {
	dim, err := requireDimension(op, dim)
	if err != nil {
		return err
	}

	var node filter.Node
	switch {
	case useJavascript:
		b.logger.Debug("flags filter", "strategy", "javascript", "dimension", dim, "flags", flags)
		node = filter.Selector{
			Dimension:  dim,
			Value:      fmt.Sprintf("%d", flags),
			Extraction: extraction.Javascript{Function: fmt.Sprintf(flagsFunction, flags)},
		}
	case b.query != nil:
		column := b.query.AddVirtualColumn(bitwiseAnd(dim, flags), dimension.TypeLong)
		b.logger.Debug("flags filter", "strategy", "virtual column", "dimension", dim, "flags", flags, "column", column)
		node = filter.Selector{Dimension: column, Value: fmt.Sprintf("%d", flags)}
	default:
		b.logger.Debug("flags filter", "strategy", "expression", "dimension", dim, "flags", flags)
		node = filter.Expression{Expression: fmt.Sprintf("%s == %d", bitwiseAnd(dim, flags), flags)}
	}

	b.appendNode(node, j)
	return nil
}

func bitwiseAnd(dim string, flags int64) string {
	return fmt.Sprintf("bitwiseAnd(%q, %d)", dim, flags)
}
