package condition

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/druidq/internal/filter"
)

func TestWhereSpatial(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereSpatialRectangular("loc", []float64{0, 0}, []float64{1, 1}))
	require.NoError(t, b.OrWhereSpatialRadius("loc", []float64{52.1, 4.3}, 0.5))
	require.NoError(t, b.OrWhereSpatialPolygon("loc", []float64{0, 1, 1}, []float64{0, 0, 1}))

	expected := filter.NewOr(
		filter.SpatialRectangular{Dimension: "loc", MinCoords: []float64{0, 0}, MaxCoords: []float64{1, 1}},
		filter.SpatialRadius{Dimension: "loc", Coords: []float64{52.1, 4.3}, Radius: 0.5},
		filter.SpatialPolygon{Dimension: "loc", Abscissa: []float64{0, 1, 1}, Ordinate: []float64{0, 0, 1}},
	)
	assert.Equal(t, expected, b.Filter())
}

func TestWhereSpatial_Errors(t *testing.T) {
	b := New()

	assert.True(t, IsArgumentError(b.WhereSpatialRectangular("loc", []float64{0}, []float64{1, 1})))
	assert.True(t, IsArgumentError(b.WhereSpatialRadius("loc", nil, 1)))
	assert.True(t, IsArgumentError(b.WhereSpatialRadius("loc", []float64{1}, -1)))
	assert.True(t, IsArgumentError(b.WhereSpatialPolygon("loc", []float64{0, 1}, []float64{0, 1})))
	assert.True(t, IsArgumentError(b.WhereSpatialPolygon("", []float64{0, 1, 2}, []float64{0, 1, 2})))
	assert.Nil(t, b.Filter())
}

func TestWhereSpatial_CopiesCoordinates(t *testing.T) {
	minCoords, maxCoords := []float64{0, 0}, []float64{1, 1}
	coords := []float64{5, 5}
	abscissa, ordinate := []float64{0, 1, 1}, []float64{0, 0, 1}

	b := New()
	require.NoError(t, b.WhereSpatialRectangular("box", minCoords, maxCoords))
	require.NoError(t, b.WhereSpatialRadius("circle", coords, 2))
	require.NoError(t, b.WhereSpatialPolygon("shape", abscissa, ordinate))
	before, err := filter.Marshal(b.Filter())
	require.NoError(t, err)

	for _, s := range [][]float64{minCoords, maxCoords, coords, abscissa, ordinate} {
		s[0] = 99
	}

	after, err := filter.Marshal(b.Filter())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, filter.SpatialRadius{Dimension: "circle", Coords: []float64{5, 5}, Radius: 2}, b.Filter().(*filter.And).Fields[1])
}

func TestWhereSpatialBound(t *testing.T) {
	b := New()
	bound := orb.Bound{Min: orb.Point{4.7, 52.3}, Max: orb.Point{5.0, 52.4}}
	require.NoError(t, b.WhereSpatialBound("loc", bound))

	assert.Equal(t, filter.SpatialRectangular{
		Dimension: "loc",
		MinCoords: []float64{4.7, 52.3},
		MaxCoords: []float64{5.0, 52.4},
	}, b.Filter())
}

func TestWhereSpatialRadiusPoint(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereSpatialRadiusPoint("loc", orb.Point{4.9, 52.37}, 0.1))

	assert.Equal(t, filter.SpatialRadius{Dimension: "loc", Coords: []float64{4.9, 52.37}, Radius: 0.1}, b.Filter())
}

func TestWhereSpatialRing_DropsClosingVertex(t *testing.T) {
	ring := orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 0}}

	b := New()
	require.NoError(t, b.WhereSpatialRing("loc", ring))

	assert.Equal(t, filter.SpatialPolygon{
		Dimension: "loc",
		Abscissa:  []float64{0, 2, 2},
		Ordinate:  []float64{0, 0, 2},
	}, b.Filter())
}

func TestWhereGeometry(t *testing.T) {
	square := orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}

	b := New()
	require.NoError(t, b.WhereGeometry("loc", square))
	require.NoError(t, b.OrWhereGeometry("loc", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}))

	or, ok := b.Filter().(*filter.Or)
	require.True(t, ok)
	require.Len(t, or.Fields, 2)
	assert.Equal(t, filter.SpatialPolygon{
		Dimension: "loc",
		Abscissa:  []float64{0, 1, 1, 0},
		Ordinate:  []float64{0, 0, 1, 1},
	}, or.Fields[0])
	assert.IsType(t, filter.SpatialRectangular{}, or.Fields[1])
}

func TestWhereGeometry_Unsupported(t *testing.T) {
	b := New()

	err := b.WhereGeometry("loc", orb.Point{1, 2})
	assert.True(t, IsArgumentError(err))
	assert.Contains(t, err.Error(), "Point")

	assert.True(t, IsArgumentError(b.WhereGeometry("loc", nil)))
	assert.True(t, IsArgumentError(b.WhereGeometry("loc", orb.Polygon{})))
}
