package condition

import (
	"slices"

	"github.com/roach88/druidq/internal/filter"
)

// join is how a new filter combines with the filters added before it.
type join int

const (
	joinAnd join = iota
	joinOr
)

func (j join) String() string {
	if j == joinOr {
		return "or"
	}
	return "and"
}

// appendNode joins n onto the root.
//
// The root is never an and/or with fewer than two fields, and repeated
// joins of the same kind extend the existing composite instead of nesting
// a new one. Switching kind wraps the current root exactly once:
// a AND b OR c becomes or(and(a, b), c).
//
// Composites are never grown in place. Extending the root builds a new
// composite, so trees returned by Filter and nodes passed in as Raw
// conditions stay as they were.
func (b *Builder) appendNode(n filter.Node, j join) {
	if j == joinOr {
		b.appendOr(n)
		return
	}
	b.appendAnd(n)
}

func (b *Builder) appendAnd(n filter.Node) {
	switch root := b.root.(type) {
	case nil:
		b.root = n
	case *filter.And:
		b.root = filter.NewAnd(append(slices.Clone(root.Fields), n)...)
	default:
		b.root = filter.NewAnd(root, n)
	}
}

func (b *Builder) appendOr(n filter.Node) {
	switch root := b.root.(type) {
	case nil:
		b.root = n
	case *filter.Or:
		b.root = filter.NewOr(append(slices.Clone(root.Fields), n)...)
	default:
		b.root = filter.NewOr(root, n)
	}
}

// unwrapComposite collapses and/or nodes with a single field into that
// field, repeatedly. It reports false for a composite with no fields.
func unwrapComposite(n filter.Node) (filter.Node, bool) {
	for {
		var fields []filter.Node
		switch c := n.(type) {
		case *filter.And:
			fields = c.Fields
		case *filter.Or:
			fields = c.Fields
		default:
			return n, n != nil
		}
		switch len(fields) {
		case 0:
			return nil, false
		case 1:
			n = fields[0]
		default:
			return n, true
		}
	}
}
