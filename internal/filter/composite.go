package filter

import "github.com/roach88/druidq/internal/ir"

// Not inverts Field.
type Not struct {
	Field Node
}

func (Not) filterNode()  {}
func (Not) Type() string { return TypeNot }

func (f Not) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(TypeNot)),
		ir.O("field", nodeIR(f.Field)),
	)
}

// And matches rows matched by all of Fields.
type And struct {
	Fields []Node
}

// NewAnd returns an And over fields.
func NewAnd(fields ...Node) *And {
	return &And{Fields: fields}
}

func (*And) filterNode()  {}
func (*And) Type() string { return TypeAnd }

func (f *And) ToIR() ir.IRObject { return composite(TypeAnd, f.Fields) }

// Or matches rows matched by any of Fields.
type Or struct {
	Fields []Node
}

// NewOr returns an Or over fields.
func NewOr(fields ...Node) *Or {
	return &Or{Fields: fields}
}

func (*Or) filterNode()  {}
func (*Or) Type() string { return TypeOr }

func (f *Or) ToIR() ir.IRObject { return composite(TypeOr, f.Fields) }

func composite(kind string, fields []Node) ir.IRObject {
	arr := make(ir.IRArray, len(fields))
	for i, n := range fields {
		arr[i] = nodeIR(n)
	}
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(kind)),
		ir.O("fields", arr),
	)
}

func nodeIR(n Node) ir.IRValue {
	if n == nil {
		return ir.IRNull{}
	}
	return n.ToIR()
}
