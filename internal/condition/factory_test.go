package condition

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
)

type version struct{ major, minor int }

func (v version) String() string { return fmt.Sprintf("v%d.%d", v.major, v.minor) }

func TestWhere_OperatorOmittedEqualsExplicitEquality(t *testing.T) {
	explicit := New()
	require.NoError(t, explicit.Where(Cmp("x", "=", "5")))

	implicit := New()
	require.NoError(t, implicit.Where(Cmp("x", "5")))

	assert.Equal(t, filter.Selector{Dimension: "x", Value: "5"}, explicit.Filter())
	assert.Equal(t, explicit.Filter(), implicit.Filter())
}

func TestWhere_Operators(t *testing.T) {
	tests := []struct {
		name     string
		cond     Comparison
		expected filter.Node
	}{
		{"equal", Cmp("x", "=", "a"), filter.Selector{Dimension: "x", Value: "a"}},
		{"not equal", Cmp("x", "<>", "a"), filter.Not{Field: filter.Selector{Dimension: "x", Value: "a"}}},
		{"not equal alt", Cmp("x", "!=", "a"), filter.Not{Field: filter.Selector{Dimension: "x", Value: "a"}}},
		{"greater", Cmp("x", ">", 5), filter.Bound{Dimension: "x", Operator: ">", Value: "5"}},
		{"greater equal", Cmp("x", ">=", 5), filter.Bound{Dimension: "x", Operator: ">=", Value: "5"}},
		{"less", Cmp("x", "<", 2.5), filter.Bound{Dimension: "x", Operator: "<", Value: "2.5"}},
		{"less equal", Cmp("x", "<=", "m"), filter.Bound{Dimension: "x", Operator: "<=", Value: "m"}},
		{"like", Cmp("x", "like", "a%"), filter.Like{Dimension: "x", Pattern: "a%", Escape: `\`}},
		{"not like", Cmp("x", "not like", "a%"), filter.Not{Field: filter.Like{Dimension: "x", Pattern: "a%", Escape: `\`}}},
		{"javascript", Cmp("x", "javascript", "f"), filter.Javascript{Dimension: "x", Function: "f"}},
		{"not javascript", Cmp("x", "not javascript", "f"), filter.Not{Field: filter.Javascript{Dimension: "x", Function: "f"}}},
		{"regex", Cmp("x", "regex", "^a"), filter.Regex{Dimension: "x", Pattern: "^a"}},
		{"regexp", Cmp("x", "regexp", "^a"), filter.Regex{Dimension: "x", Pattern: "^a"}},
		{"not regex", Cmp("x", "not regex", "^a"), filter.Not{Field: filter.Regex{Dimension: "x", Pattern: "^a"}}},
		{"not regexp", Cmp("x", "not regexp", "^a"), filter.Not{Field: filter.Regex{Dimension: "x", Pattern: "^a"}}},
		{"search scalar", Cmp("x", "search", "jo"), filter.Search{Dimension: "x", Values: []string{"jo"}}},
		{"search list", Cmp("x", "search", []string{"a", "b"}), filter.Search{Dimension: "x", Values: []string{"a", "b"}, Fragment: true}},
		{"search list of one", Cmp("x", "search", []string{"a"}), filter.Search{Dimension: "x", Values: []string{"a"}, Fragment: true}},
		{"not search", Cmp("x", "not search", []any{"a", 1}), filter.Not{Field: filter.Search{Dimension: "x", Values: []string{"a", "1"}, Fragment: true}}},
		{"operator case and spaces", Cmp("x", "  NOT LIKE ", "a%"), filter.Not{Field: filter.Like{Dimension: "x", Pattern: "a%", Escape: `\`}}},
		{"bool value", Cmp("x", true), filter.Selector{Dimension: "x", Value: "true"}},
		{"int64 value", Cmp("x", int64(-7)), filter.Selector{Dimension: "x", Value: "-7"}},
		{"uint value", Cmp("x", uint16(7)), filter.Selector{Dimension: "x", Value: "7"}},
		{"stringer value", Cmp("x", version{1, 2}), filter.Selector{Dimension: "x", Value: "v1.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			require.NoError(t, b.Where(tt.cond))
			assert.Equal(t, tt.expected, b.Filter())
		})
	}
}

func TestWhere_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		errMsg string
	}{
		{"list with equality", Cmp("x", "=", []string{"a", "b"}), "only supported by the search operator"},
		{"list with implicit equality", Cmp("x", []int{1, 2}), "only supported by the search operator"},
		{"missing value", Cmp("x", ">", nil), "supply an operator and a value"},
		{"no arguments", Cmp("x"), "supply an operator and a value"},
		{"non-string operator", Cmp("x", 5, "a"), "supply an operator and a value"},
		{"too many arguments", Cmp("x", "=", "a", "b"), "got 3 arguments"},
		{"unknown operator", Cmp("x", "between", "a"), `unsupported operator "between"`},
		{"empty dimension", Cmp(" ", "a"), "empty dimension"},
		{"unsupported value", Cmp("x", map[string]int{}), "unsupported value type"},
		{"unsupported search element", Cmp("x", "search", []any{"a", struct{}{}}), "invalid search values"},
		{"nil condition", nil, "no condition given"},
		{"raw without node", Raw{}, "raw condition without a filter"},
		{"nil func", Func(nil), "nil callback"},
		{"empty func", Func(func(*Builder) error { return nil }), "callback did not add a filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			require.NoError(t, b.Where(Cmp("keep", "me")))
			before := b.Filter()

			err := b.Where(tt.cond)
			require.Error(t, err)
			assert.True(t, IsArgumentError(err), "expected ArgumentError, got %T", err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, before, b.Filter(), "failed call must not change the filter")
		})
	}
}

func TestWhere_SearchAcceptsListEqualityDoesNot(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("x", "search", []string{"a", "b"})))

	err := New().Where(Cmp("x", "=", []string{"a", "b"}))
	assert.True(t, IsArgumentError(err))
}

func TestWhere_SearchListOfOneRendersFragment(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("x", "search", []string{"a"})))
	data, err := filter.Marshal(b.Filter())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"search","dimension":"x","query":{"type":"fragment","values":["a"],"caseSensitive":false}}`, string(data))

	scalar := New()
	require.NoError(t, scalar.Where(Cmp("x", "search", "a")))
	data, err = filter.Marshal(scalar.Filter())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"search","dimension":"x","query":{"type":"contains","value":"a","caseSensitive":false}}`, string(data))
}

func TestWhere_Raw(t *testing.T) {
	node := filter.Expression{Expression: "a > b"}

	b := New()
	require.NoError(t, b.Where(Raw{Node: node}))
	assert.Equal(t, node, b.Filter())
}

func TestWhere_Func(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("a", "1")))
	require.NoError(t, b.Where(Func(func(sub *Builder) error {
		if err := sub.Where(Cmp("b", "2")); err != nil {
			return err
		}
		return sub.OrWhere(Cmp("c", "3"))
	})))

	expected := filter.NewAnd(
		sel("a", "1"),
		filter.NewOr(sel("b", "2"), sel("c", "3")),
	)
	assert.Equal(t, expected, b.Filter())
}

func TestWhere_FuncErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")

	b := New()
	err := b.Where(Func(func(sub *Builder) error {
		_ = sub.Where(Cmp("a", "1"))
		return boom
	}))

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, b.Filter())
}

func TestWhere_Extraction(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(
		Cmp("name", "like", "J%").WithExtraction(func(e *extraction.Builder) { e.Upper("") }),
	))
	assert.Equal(t, filter.Like{Dimension: "name", Pattern: "J%", Escape: `\`, Extraction: extraction.Case{Upper: true}}, b.Filter())

	b = New()
	require.NoError(t, b.Where(Cmp("name", "John"), WithExtraction(func(e *extraction.Builder) { e.Lower("") })))
	assert.Equal(t, filter.Selector{Dimension: "name", Value: "John", Extraction: extraction.Case{}}, b.Filter())
}

func TestWhere_ExtractionResolvedOncePerCall(t *testing.T) {
	calls := 0
	fn := func(e *extraction.Builder) {
		calls++
		e.Strlen()
	}

	b := New()
	require.NoError(t, b.Where(Cmp("x", ">", 3), WithExtraction(fn)))
	require.NoError(t, b.OrWhere(Cmp("y", "search", []string{"a", "b"}), WithExtraction(fn)))
	assert.Equal(t, 2, calls)
}

func TestWhere_BoundOrdering(t *testing.T) {
	b := New()
	require.NoError(t, b.Where(Cmp("v", ">", "1.2"), WithOrdering(filter.OrderingVersion)))
	assert.Equal(t, filter.Bound{Dimension: "v", Operator: ">", Value: "1.2", Ordering: "version"}, b.Filter())

	err := b.Where(Cmp("v", ">", "1"), WithOrdering("sideways"))
	assert.True(t, IsArgumentError(err))
}

func TestArgumentError_Format(t *testing.T) {
	err := &ArgumentError{Op: "where", Message: "bad"}
	assert.Equal(t, "where: bad", err.Error())

	cause := errors.New("cause")
	wrapped := &ArgumentError{Op: "whereInterval", Message: "invalid", Err: cause}
	assert.Equal(t, "whereInterval: invalid: cause", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, IsArgumentError(cause))
}
