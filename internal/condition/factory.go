package condition

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/filter"
)

// Operators understood by Cmp.
const (
	OpEqual         = "="
	OpNotEqual      = "<>"
	OpNotEqualAlt   = "!="
	OpGreater       = ">"
	OpGreaterEqual  = ">="
	OpLess          = "<"
	OpLessEqual     = "<="
	OpLike          = "like"
	OpNotLike       = "not like"
	OpJavascript    = "javascript"
	OpNotJavascript = "not javascript"
	OpRegex         = "regex"
	OpRegexp        = "regexp"
	OpNotRegex      = "not regex"
	OpNotRegexp     = "not regexp"
	OpSearch        = "search"
	OpNotSearch     = "not search"
)

// build resolves a Condition to exactly one filter node.
//
// Nothing is appended here: a failed build leaves the builder untouched.
func (b *Builder) build(op string, c Condition, opts filterOptions) (filter.Node, error) {
	switch c := c.(type) {
	case nil:
		return nil, argumentError(op, "no condition given")
	case Raw:
		if c.Node == nil {
			return nil, argumentError(op, "raw condition without a filter")
		}
		node, ok := unwrapComposite(c.Node)
		if !ok {
			return nil, argumentError(op, "raw %s filter has no fields", c.Node.Type())
		}
		return node, nil
	case Func:
		if c == nil {
			return nil, argumentError(op, "nil callback")
		}
		node, err := b.delegate(c)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, argumentError(op, "callback did not add a filter")
		}
		return node, nil
	case Comparison:
		return b.compare(op, c, opts)
	default:
		return nil, argumentError(op, "the arguments which you have supplied cannot be parsed (%T)", c)
	}
}

// delegate runs fn against a fresh sub-builder and returns its filter,
// which may be nil.
func (b *Builder) delegate(fn Func) (filter.Node, error) {
	sub := b.sub()
	if err := fn(sub); err != nil {
		return nil, err
	}
	return sub.Filter(), nil
}

func (b *Builder) compare(op string, c Comparison, opts filterOptions) (filter.Node, error) {
	if c.arity > 2 {
		return nil, argumentError(op, "expected a value or an operator and a value, got %d arguments", c.arity)
	}

	dim := strings.TrimSpace(c.Dimension)
	if dim == "" {
		return nil, argumentError(op, "empty dimension")
	}

	operator := strings.ToLower(strings.TrimSpace(c.Operator))
	if operator == "" || c.Value == nil {
		return nil, argumentError(op, "you have to supply an operator and a value for dimension %q", dim)
	}

	list, isList, err := listValues(c.Value)
	if isList && operator != OpSearch && operator != OpNotSearch {
		return nil, argumentError(op, "given value for dimension %q is a list, which is only supported by the search operator, not %q", dim, operator)
	}
	if err != nil {
		return nil, wrapArgumentError(op, err, "invalid search values for dimension %q", dim)
	}

	var value string
	if !isList {
		s, ok := stringify(c.Value)
		if !ok {
			return nil, argumentError(op, "unsupported value type %T for dimension %q", c.Value, dim)
		}
		value = s
	}

	fn := c.Extraction
	if fn == nil {
		fn = opts.extraction
	}
	ext := extraction.Resolve(fn)

	switch operator {
	case OpEqual:
		return filter.Selector{Dimension: dim, Value: value, Extraction: ext}, nil
	case OpNotEqual, OpNotEqualAlt:
		return filter.Not{Field: filter.Selector{Dimension: dim, Value: value, Extraction: ext}}, nil
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		if opts.ordering != "" && !filter.IsOrdering(opts.ordering) {
			return nil, argumentError(op, "unknown ordering %q", opts.ordering)
		}
		return filter.Bound{Dimension: dim, Operator: operator, Value: value, Ordering: opts.ordering, Extraction: ext}, nil
	case OpLike:
		return filter.Like{Dimension: dim, Pattern: value, Escape: filter.DefaultLikeEscape, Extraction: ext}, nil
	case OpNotLike:
		return filter.Not{Field: filter.Like{Dimension: dim, Pattern: value, Escape: filter.DefaultLikeEscape, Extraction: ext}}, nil
	case OpJavascript:
		return filter.Javascript{Dimension: dim, Function: value, Extraction: ext}, nil
	case OpNotJavascript:
		return filter.Not{Field: filter.Javascript{Dimension: dim, Function: value, Extraction: ext}}, nil
	case OpRegex, OpRegexp:
		return filter.Regex{Dimension: dim, Pattern: value, Extraction: ext}, nil
	case OpNotRegex, OpNotRegexp:
		return filter.Not{Field: filter.Regex{Dimension: dim, Pattern: value, Extraction: ext}}, nil
	case OpSearch, OpNotSearch:
		values := list
		if !isList {
			values = []string{value}
		}
		var node filter.Node = filter.Search{Dimension: dim, Values: values, Fragment: isList, Extraction: ext}
		if operator == OpNotSearch {
			node = filter.Not{Field: node}
		}
		return node, nil
	default:
		return nil, argumentError(op, "unsupported operator %q", operator)
	}
}

// stringify renders a scalar the way it is sent to Druid.
func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.FormatInt(int64(val), 10), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}

// listValues reports whether v is a slice or array and returns its
// stringified elements. Byte slices are not lists.
func listValues(v any) ([]string, bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false, nil
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false, nil
	}

	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		s, ok := stringify(elem)
		if !ok {
			return nil, true, fmt.Errorf("element %d: unsupported value type %T", i, elem)
		}
		out = append(out, s)
	}
	return out, true, nil
}
