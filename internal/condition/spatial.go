package condition

import (
	"slices"

	"github.com/paulmach/orb"

	"github.com/roach88/druidq/internal/filter"
)

// WhereSpatialRectangular matches points inside the box from minCoords to
// maxCoords.
func (b *Builder) WhereSpatialRectangular(dimension string, minCoords, maxCoords []float64) error {
	return b.spatialRectangular("whereSpatialRectangular", dimension, minCoords, maxCoords, joinAnd)
}

// OrWhereSpatialRectangular is WhereSpatialRectangular joined with OR.
func (b *Builder) OrWhereSpatialRectangular(dimension string, minCoords, maxCoords []float64) error {
	return b.spatialRectangular("orWhereSpatialRectangular", dimension, minCoords, maxCoords, joinOr)
}

// WhereSpatialRadius matches points within radius of coords.
func (b *Builder) WhereSpatialRadius(dimension string, coords []float64, radius float64) error {
	return b.spatialRadius("whereSpatialRadius", dimension, coords, radius, joinAnd)
}

// OrWhereSpatialRadius is WhereSpatialRadius joined with OR.
func (b *Builder) OrWhereSpatialRadius(dimension string, coords []float64, radius float64) error {
	return b.spatialRadius("orWhereSpatialRadius", dimension, coords, radius, joinOr)
}

// WhereSpatialPolygon matches points inside the polygon with vertices
// (abscissa[i], ordinate[i]).
func (b *Builder) WhereSpatialPolygon(dimension string, abscissa, ordinate []float64) error {
	return b.spatialPolygon("whereSpatialPolygon", dimension, abscissa, ordinate, joinAnd)
}

// OrWhereSpatialPolygon is WhereSpatialPolygon joined with OR.
func (b *Builder) OrWhereSpatialPolygon(dimension string, abscissa, ordinate []float64) error {
	return b.spatialPolygon("orWhereSpatialPolygon", dimension, abscissa, ordinate, joinOr)
}

// WhereSpatialBound matches points inside bound.
func (b *Builder) WhereSpatialBound(dimension string, bound orb.Bound) error {
	return b.spatialRectangular("whereSpatialBound", dimension,
		[]float64{bound.Min.X(), bound.Min.Y()},
		[]float64{bound.Max.X(), bound.Max.Y()},
		joinAnd)
}

// WhereSpatialRadiusPoint matches points within radius of p.
func (b *Builder) WhereSpatialRadiusPoint(dimension string, p orb.Point, radius float64) error {
	return b.spatialRadius("whereSpatialRadiusPoint", dimension, []float64{p.X(), p.Y()}, radius, joinAnd)
}

// WhereSpatialRing matches points inside ring. A closing vertex equal to
// the first one is dropped.
func (b *Builder) WhereSpatialRing(dimension string, ring orb.Ring) error {
	abscissa, ordinate := ringCoords(ring)
	return b.spatialPolygon("whereSpatialRing", dimension, abscissa, ordinate, joinAnd)
}

// WhereGeometry matches points inside g, which must be an orb.Bound,
// orb.Ring or orb.Polygon. Holes of a polygon are ignored.
func (b *Builder) WhereGeometry(dimension string, g orb.Geometry) error {
	return b.whereGeometry("whereGeometry", dimension, g, joinAnd)
}

// OrWhereGeometry is WhereGeometry joined with OR.
func (b *Builder) OrWhereGeometry(dimension string, g orb.Geometry) error {
	return b.whereGeometry("orWhereGeometry", dimension, g, joinOr)
}

func (b *Builder) whereGeometry(op, dimension string, g orb.Geometry, j join) error {
	switch geom := g.(type) {
	case orb.Bound:
		return b.spatialRectangular(op, dimension,
			[]float64{geom.Min.X(), geom.Min.Y()},
			[]float64{geom.Max.X(), geom.Max.Y()}, j)
	case orb.Ring:
		abscissa, ordinate := ringCoords(geom)
		return b.spatialPolygon(op, dimension, abscissa, ordinate, j)
	case orb.Polygon:
		if len(geom) == 0 {
			return argumentError(op, "polygon has no rings")
		}
		abscissa, ordinate := ringCoords(geom[0])
		return b.spatialPolygon(op, dimension, abscissa, ordinate, j)
	case nil:
		return argumentError(op, "nil geometry")
	default:
		return argumentError(op, "unsupported geometry %s, expected a bound, ring or polygon", g.GeoJSONType())
	}
}

func ringCoords(ring orb.Ring) (abscissa, ordinate []float64) {
	points := ring
	if len(points) > 1 && ring.Closed() {
		points = points[:len(points)-1]
	}
	abscissa = make([]float64, len(points))
	ordinate = make([]float64, len(points))
	for i, p := range points {
		abscissa[i] = p.X()
		ordinate[i] = p.Y()
	}
	return abscissa, ordinate
}

func (b *Builder) spatialRectangular(op, dimension string, minCoords, maxCoords []float64, j join) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	if len(minCoords) == 0 || len(minCoords) != len(maxCoords) {
		return argumentError(op, "min and max coordinates must be non-empty and of equal length, got %d and %d", len(minCoords), len(maxCoords))
	}
	b.appendNode(filter.SpatialRectangular{Dimension: dim, MinCoords: slices.Clone(minCoords), MaxCoords: slices.Clone(maxCoords)}, j)
	return nil
}

func (b *Builder) spatialRadius(op, dimension string, coords []float64, radius float64, j join) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	if len(coords) == 0 {
		return argumentError(op, "no coordinates given")
	}
	if radius < 0 {
		return argumentError(op, "negative radius %v", radius)
	}
	b.appendNode(filter.SpatialRadius{Dimension: dim, Coords: slices.Clone(coords), Radius: radius}, j)
	return nil
}

func (b *Builder) spatialPolygon(op, dimension string, abscissa, ordinate []float64, j join) error {
	dim, err := requireDimension(op, dimension)
	if err != nil {
		return err
	}
	if len(abscissa) < 3 || len(abscissa) != len(ordinate) {
		return argumentError(op, "a polygon needs at least 3 vertices with matching abscissa and ordinate, got %d and %d", len(abscissa), len(ordinate))
	}
	b.appendNode(filter.SpatialPolygon{Dimension: dim, Abscissa: slices.Clone(abscissa), Ordinate: slices.Clone(ordinate)}, j)
	return nil
}
