package condition

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/interval"
)

func TestNew_Empty(t *testing.T) {
	assert.Nil(t, New().Filter())
}

func TestWhereNot_EmptyCallbackIsNoop(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := New(WithLogger(logger))
	require.NoError(t, b.Where(Cmp("a", "1")))
	before := b.Filter()

	require.NoError(t, b.WhereNot(func(*Builder) error { return nil }))
	require.NoError(t, b.OrWhereNot(func(*Builder) error { return nil }))

	assert.Equal(t, before, b.Filter())
	assert.Contains(t, buf.String(), "empty negation ignored")
}

func TestWhereNot_OnEmptyBuilder(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereNot(func(*Builder) error { return nil }))
	assert.Nil(t, b.Filter())
}

func TestWhereNot_WrapsSubFilter(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("a", "1")))
	require.NoError(t, b.OrWhereNot(func(sub *Builder) error {
		return sub.Where(Cmp("b", "2"))
	}))

	expected := filter.NewOr(sel("a", "1"), filter.Not{Field: sel("b", "2")})
	assert.Equal(t, expected, b.Filter())
}

func TestWhereNot_NilCallback(t *testing.T) {
	err := New().WhereNot(nil)
	assert.True(t, IsArgumentError(err))
}

func TestWhereIn(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereIn("country", []string{"nl", "be"}))
	require.NoError(t, b.OrWhereNotIn("age", []int{1, 2}, WithExtraction(func(e *extraction.Builder) { e.Strlen() })))

	expected := filter.NewOr(
		filter.In{Dimension: "country", Values: []string{"nl", "be"}},
		filter.Not{Field: filter.In{Dimension: "age", Values: []string{"1", "2"}, Extraction: extraction.Strlen{}}},
	)
	assert.Equal(t, expected, b.Filter())
}

func TestWhereIn_Errors(t *testing.T) {
	b := New()

	assert.True(t, IsArgumentError(b.WhereIn("x", "not a list")))
	assert.True(t, IsArgumentError(b.WhereIn("", []string{"a"})))
	assert.True(t, IsArgumentError(b.WhereNotIn("x", []any{"a", nil})))
	assert.Nil(t, b.Filter())
}

func TestWhereBetween(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereBetween("age", 18, 65))
	require.NoError(t, b.WhereNotBetween("name", "a", "m", WithOrdering(filter.OrderingAlphanumeric)))
	require.NoError(t, b.OrWhereBetween("score", 1.5, "2"))

	expected := filter.NewOr(
		filter.NewAnd(
			filter.Between{Dimension: "age", Min: "18", Max: "65"},
			filter.Not{Field: filter.Between{Dimension: "name", Min: "a", Max: "m", Ordering: "alphanumeric"}},
		),
		filter.Between{Dimension: "score", Min: "1.5", Max: "2"},
	)
	assert.Equal(t, expected, b.Filter())
}

func TestWhereBetween_Errors(t *testing.T) {
	b := New()

	assert.True(t, IsArgumentError(b.WhereBetween("x", nil, 1)))
	assert.True(t, IsArgumentError(b.WhereBetween("x", 1, []int{2})))
	assert.True(t, IsArgumentError(b.OrWhereNotBetween("x", 1, 2, WithOrdering("nope"))))
	assert.Nil(t, b.Filter())
}

func TestWhereInterval(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereInterval("__time", []string{"2019-08-19T14:00:00.000Z", "2019-08-19T15:00:00.000Z"}))
	require.NoError(t, b.WhereNotInterval("__time", "2019-08-19T14:30:00.000Z/2019-08-19T14:45:00.000Z"))

	expected := filter.NewAnd(
		filter.Interval{Dimension: "__time", Intervals: []interval.Interval{
			interval.MustNew("2019-08-19T14:00:00.000Z", "2019-08-19T15:00:00.000Z"),
		}},
		filter.Not{Field: filter.Interval{Dimension: "__time", Intervals: []interval.Interval{
			interval.MustNew("2019-08-19T14:30:00.000Z", "2019-08-19T14:45:00.000Z"),
		}}},
	)
	assert.Equal(t, expected, b.Filter())
}

func TestWhereInterval_ListOfPairs(t *testing.T) {
	b := New()
	require.NoError(t, b.OrWhereInterval("__time", [][]string{
		{"2019-08-19T14:00:00.000Z", "2019-08-19T15:00:00.000Z"},
		{"2019-08-20T14:00:00.000Z", "2019-08-20T15:00:00.000Z"},
	}))

	node, ok := b.Filter().(filter.Interval)
	require.True(t, ok)
	assert.Len(t, node.Intervals, 2)
}

func TestWhereInterval_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"three endpoints", []string{"2019-08-19", "2019-08-20", "2019-08-21"}},
		{"single date", "2019-08-19"},
		{"empty list", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			err := b.WhereInterval("__time", tt.raw)
			require.Error(t, err)
			assert.True(t, IsArgumentError(err))
			assert.Nil(t, b.Filter())
		})
	}
}

func TestWhereInterval_WrapsNormalizeError(t *testing.T) {
	err := New().OrWhereNotInterval("__time", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, interval.ErrInvalidInterval)
	assert.True(t, IsArgumentError(err))
}

func TestWhereExpression(t *testing.T) {
	b := New()
	require.NoError(t, b.WhereExpression(`"a" > "b"`))
	require.NoError(t, b.OrWhereExpression(`"c" == 1`))

	expected := filter.NewOr(
		filter.Expression{Expression: `"a" > "b"`},
		filter.Expression{Expression: `"c" == 1`},
	)
	assert.Equal(t, expected, b.Filter())

	assert.True(t, IsArgumentError(b.WhereExpression("  ")))
}
