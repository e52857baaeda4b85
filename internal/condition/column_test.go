package condition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
)

func TestWhereColumn_Names(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereColumn(Col("x"), Col("y")))

	assert.Equal(t, filter.ColumnComparison{
		DimensionA: dimension.New("x"),
		DimensionB: dimension.New("y"),
	}, b.Filter())
}

func TestWhereColumn_Func(t *testing.T) {
	initials := ColFunc(func(db *dimension.Builder) error {
		return db.Select("first_name", dimension.WithExtraction(func(e *extraction.Builder) {
			e.SubstringN(0, 1)
		}))
	})

	b := New()
	require.NoError(t, b.WhereColumn(Col("initials"), initials))

	node, ok := b.Filter().(filter.ColumnComparison)
	require.True(t, ok)
	assert.Equal(t, "first_name", node.DimensionB.Name)
	assert.Equal(t, "extraction", node.DimensionB.Type())
}

func TestWhereColumn_TwoSelectionsFails(t *testing.T) {
	two := ColFunc(func(db *dimension.Builder) error {
		if err := db.Select("a"); err != nil {
			return err
		}
		return db.Select("b")
	})

	b := New()
	err := b.WhereColumn(two, Col("y"))

	require.Error(t, err)
	assert.True(t, IsArgumentError(err))
	assert.Contains(t, err.Error(), "exactly 1 dimension object, 2 given")
	assert.Nil(t, b.Filter())
}

func TestWhereColumn_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		left  Column
		right Column
	}{
		{"no selection", ColFunc(func(*dimension.Builder) error { return nil }), Col("y")},
		{"empty name", Col("x"), Col("")},
		{"callback error", Col("x"), ColFunc(func(*dimension.Builder) error { return boom })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			err := b.WhereColumn(tt.left, tt.right)
			require.Error(t, err)
			assert.True(t, IsArgumentError(err))
			assert.Nil(t, b.Filter())
		})
	}
}

func TestWhereNotColumn(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("a", "1")))
	require.NoError(t, b.OrWhereNotColumn(Col("x"), Col("y")))
	require.NoError(t, b.OrWhereColumn(Col("p"), Col("q")))
	require.NoError(t, b.WhereNotColumn(Col("r"), Col("s")))

	expected := filter.NewAnd(
		filter.NewOr(
			sel("a", "1"),
			filter.Not{Field: filter.ColumnComparison{DimensionA: dimension.New("x"), DimensionB: dimension.New("y")}},
			filter.ColumnComparison{DimensionA: dimension.New("p"), DimensionB: dimension.New("q")},
		),
		filter.Not{Field: filter.ColumnComparison{DimensionA: dimension.New("r"), DimensionB: dimension.New("s")}},
	)
	assert.Equal(t, expected, b.Filter())
}
