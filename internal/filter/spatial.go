package filter

import "github.com/roach88/druidq/internal/ir"

func spatial(dim string, bound ir.IRObject) ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(TypeSpatial)),
		ir.O("dimension", ir.IRString(dim)),
		ir.O("bound", bound),
	)
}

// SpatialRectangular matches points inside the box spanned by MinCoords and
// MaxCoords. Both slices hold one coordinate per spatial dimension.
type SpatialRectangular struct {
	Dimension string
	MinCoords []float64
	MaxCoords []float64
}

func (SpatialRectangular) filterNode()  {}
func (SpatialRectangular) Type() string { return TypeSpatial }

func (f SpatialRectangular) ToIR() ir.IRObject {
	return spatial(f.Dimension, ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString("rectangular")),
		ir.O("minCoords", ir.Floats(f.MinCoords)),
		ir.O("maxCoords", ir.Floats(f.MaxCoords)),
	))
}

// SpatialRadius matches points within Radius of Coords.
type SpatialRadius struct {
	Dimension string
	Coords    []float64
	Radius    float64
}

func (SpatialRadius) filterNode()  {}
func (SpatialRadius) Type() string { return TypeSpatial }

func (f SpatialRadius) ToIR() ir.IRObject {
	return spatial(f.Dimension, ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString("radius")),
		ir.O("coords", ir.Floats(f.Coords)),
		ir.O("radius", ir.IRFloat(f.Radius)),
	))
}

// SpatialPolygon matches points inside the polygon whose vertices are
// (Abscissa[i], Ordinate[i]).
type SpatialPolygon struct {
	Dimension string
	Abscissa  []float64
	Ordinate  []float64
}

func (SpatialPolygon) filterNode()  {}
func (SpatialPolygon) Type() string { return TypeSpatial }

func (f SpatialPolygon) ToIR() ir.IRObject {
	return spatial(f.Dimension, ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString("polygon")),
		ir.O("abscissa", ir.Floats(f.Abscissa)),
		ir.O("ordinate", ir.Floats(f.Ordinate)),
	))
}
