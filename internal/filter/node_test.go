package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/druidq/internal/dimension"
	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/interval"
	"github.com/roach88/druidq/internal/testutil"
)

func TestNode_ToIR(t *testing.T) {
	upper := extraction.Case{Upper: true}

	tests := []struct {
		name     string
		node     Node
		kind     string
		expected string
	}{
		{
			name:     "selector",
			node:     Selector{Dimension: "name", Value: "John"},
			kind:     TypeSelector,
			expected: `{"type":"selector","dimension":"name","value":"John"}`,
		},
		{
			name:     "selector with extraction",
			node:     Selector{Dimension: "name", Value: "JOHN", Extraction: upper},
			kind:     TypeSelector,
			expected: `{"type":"selector","dimension":"name","value":"JOHN","extractionFn":{"type":"upper"}}`,
		},
		{
			name:     "bound greater than",
			node:     Bound{Dimension: "age", Operator: ">", Value: "18"},
			kind:     TypeBound,
			expected: `{"type":"bound","dimension":"age","lower":"18","lowerStrict":true,"ordering":"numeric"}`,
		},
		{
			name:     "bound at most",
			node:     Bound{Dimension: "name", Operator: "<=", Value: "m"},
			kind:     TypeBound,
			expected: `{"type":"bound","dimension":"name","upper":"m","upperStrict":false,"ordering":"lexicographic"}`,
		},
		{
			name:     "bound explicit ordering",
			node:     Bound{Dimension: "v", Operator: "<", Value: "1.2.3", Ordering: OrderingVersion},
			kind:     TypeBound,
			expected: `{"type":"bound","dimension":"v","upper":"1.2.3","upperStrict":true,"ordering":"version"}`,
		},
		{
			name:     "between renders as bound",
			node:     Between{Dimension: "age", Min: "18", Max: "65"},
			kind:     TypeBetween,
			expected: `{"type":"bound","dimension":"age","lower":"18","upper":"65","lowerStrict":false,"upperStrict":false,"ordering":"numeric"}`,
		},
		{
			name:     "like default escape",
			node:     Like{Dimension: "name", Pattern: "J%"},
			kind:     TypeLike,
			expected: `{"type":"like","dimension":"name","pattern":"J%","escape":"\\"}`,
		},
		{
			name:     "regex",
			node:     Regex{Dimension: "name", Pattern: "^J"},
			kind:     TypeRegex,
			expected: `{"type":"regex","dimension":"name","pattern":"^J"}`,
		},
		{
			name:     "javascript",
			node:     Javascript{Dimension: "n", Function: "function(x) { return x > 1; }"},
			kind:     TypeJavascript,
			expected: `{"type":"javascript","dimension":"n","function":"function(x) { return x > 1; }"}`,
		},
		{
			name:     "search single value",
			node:     Search{Dimension: "name", Values: []string{"jo"}},
			kind:     TypeSearch,
			expected: `{"type":"search","dimension":"name","query":{"type":"contains","value":"jo","caseSensitive":false}}`,
		},
		{
			name:     "search fragment",
			node:     Search{Dimension: "name", Values: []string{"jo", "hn"}, CaseSensitive: true},
			kind:     TypeSearch,
			expected: `{"type":"search","dimension":"name","query":{"type":"fragment","values":["jo","hn"],"caseSensitive":true}}`,
		},
		{
			name:     "search fragment of one",
			node:     Search{Dimension: "name", Values: []string{"jo"}, Fragment: true},
			kind:     TypeSearch,
			expected: `{"type":"search","dimension":"name","query":{"type":"fragment","values":["jo"],"caseSensitive":false}}`,
		},
		{
			name:     "in",
			node:     In{Dimension: "country", Values: []string{"nl", "be"}},
			kind:     TypeIn,
			expected: `{"type":"in","dimension":"country","values":["nl","be"]}`,
		},
		{
			name: "interval",
			node: Interval{Dimension: "__time", Intervals: []interval.Interval{
				interval.MustNew("2019-08-19T14:00:00.000Z", "2019-08-19T15:00:00.000Z"),
			}},
			kind:     TypeInterval,
			expected: `{"type":"interval","dimension":"__time","intervals":["2019-08-19T14:00:00.000Z/2019-08-19T15:00:00.000Z"]}`,
		},
		{
			name:     "column comparison",
			node:     ColumnComparison{DimensionA: dimension.New("a"), DimensionB: dimension.New("b")},
			kind:     TypeColumnComparison,
			expected: `{"type":"columnComparison","dimensions":[{"type":"default","dimension":"a","outputName":"a","outputType":"string"},{"type":"default","dimension":"b","outputName":"b","outputType":"string"}]}`,
		},
		{
			name:     "expression",
			node:     Expression{Expression: "a == b"},
			kind:     TypeExpression,
			expected: `{"type":"expression","expression":"a == b"}`,
		},
		{
			name:     "not",
			node:     Not{Field: Selector{Dimension: "name", Value: "John"}},
			kind:     TypeNot,
			expected: `{"type":"not","field":{"type":"selector","dimension":"name","value":"John"}}`,
		},
		{
			name:     "rectangular",
			node:     SpatialRectangular{Dimension: "loc", MinCoords: []float64{1, 2}, MaxCoords: []float64{3.5, 4}},
			kind:     TypeSpatial,
			expected: `{"type":"spatial","dimension":"loc","bound":{"type":"rectangular","minCoords":[1,2],"maxCoords":[3.5,4]}}`,
		},
		{
			name:     "radius",
			node:     SpatialRadius{Dimension: "loc", Coords: []float64{52.1, 4.3}, Radius: 0.5},
			kind:     TypeSpatial,
			expected: `{"type":"spatial","dimension":"loc","bound":{"type":"radius","coords":[52.1,4.3],"radius":0.5}}`,
		},
		{
			name:     "polygon",
			node:     SpatialPolygon{Dimension: "loc", Abscissa: []float64{0, 1, 1}, Ordinate: []float64{0, 0, 1}},
			kind:     TypeSpatial,
			expected: `{"type":"spatial","dimension":"loc","bound":{"type":"polygon","abscissa":[0,1,1],"ordinate":[0,0,1]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.node.Type())

			data, err := json.Marshal(tt.node.ToIR())
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestComposite_Type(t *testing.T) {
	a := Selector{Dimension: "a", Value: "1"}
	b := Selector{Dimension: "b", Value: "2"}

	and := NewAnd(a, b)
	assert.Equal(t, []Node{a, b}, and.Fields)
	assert.Equal(t, TypeAnd, and.Type())

	or := NewOr(a, b)
	assert.Equal(t, []Node{a, b}, or.Fields)
	assert.Equal(t, TypeOr, or.Type())
}

func TestMarshal_SortedKeys(t *testing.T) {
	data, err := Marshal(Selector{Dimension: "name", Value: "John"})
	require.NoError(t, err)
	assert.Equal(t, `{"dimension":"name","type":"selector","value":"John"}`, string(data))
}

func TestMarshal_KeepsDecomposedValue(t *testing.T) {
	value := "Jose\u0301" // 4a 6f 73 65 cc 81
	data, err := Marshal(Selector{Dimension: "name", Value: value})
	require.NoError(t, err)
	assert.Contains(t, string(data), value)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []byte(value), []byte(decoded["value"]))

	// The hash still identifies both normal forms as the same filter.
	h1, err := Hash(Selector{Dimension: "name", Value: value})
	require.NoError(t, err)
	h2, err := Hash(Selector{Dimension: "name", Value: "Jos\u00e9"})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestMarshal_Nil(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)
}

func TestHash_StableAndDistinct(t *testing.T) {
	h1, err := Hash(Selector{Dimension: "name", Value: "John"})
	require.NoError(t, err)
	h2, err := Hash(Selector{Dimension: "name", Value: "John"})
	require.NoError(t, err)
	h3, err := Hash(Selector{Dimension: "name", Value: "Jane"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestGolden_NestedTree(t *testing.T) {
	tree := NewOr(
		NewAnd(
			Selector{Dimension: "country", Value: "nl"},
			Bound{Dimension: "age", Operator: ">=", Value: "18"},
		),
		Not{Field: In{Dimension: "browser", Values: []string{"ie", "edge"}, Extraction: extraction.Case{}}},
	)

	testutil.AssertGoldenJSON(t, "nested_tree", tree.ToIR())
}
