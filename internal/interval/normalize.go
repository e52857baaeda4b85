package interval

import (
	"fmt"
	"reflect"
	"strings"
)

// Normalize converts the flexible interval forms callers pass around into an
// ordered list of Interval values.
//
// Accepted inputs:
//   - a single Interval
//   - a "start/end" string
//   - a list of one or two endpoints describing one interval
//   - a list whose entries are any of the above
//
// Only the first element decides whether raw is a list of intervals or the
// endpoints of one interval: a nested list, an Interval or a string holding
// the separator means "list of intervals". A flat list of three or more
// endpoints therefore fails on the arity check instead of being guessed at.
func Normalize(raw any) ([]Interval, error) {
	items, ok := asList(raw)
	if !ok {
		items = []any{raw}
	}
	if len(items) == 0 {
		return []Interval{}, nil
	}

	if _, nested := asList(items[0]); !nested && !isComplete(items[0]) {
		items = []any{items}
	}

	out := make([]Interval, 0, len(items))
	for _, item := range items {
		iv, err := resolve(item)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// resolve turns a single list entry into an Interval.
func resolve(item any) (Interval, error) {
	switch val := item.(type) {
	case Interval:
		return val, nil
	case *Interval:
		if val != nil {
			return *val, nil
		}
	case string:
		parts := strings.Split(val, Separator)
		endpoints := make([]any, len(parts))
		for i, p := range parts {
			endpoints[i] = p
		}
		return fromEndpoints(endpoints, item)
	default:
		if endpoints, ok := asList(item); ok {
			return fromEndpoints(endpoints, item)
		}
	}
	return Interval{}, fmt.Errorf("%w: cannot process %#v", ErrInvalidInterval, item)
}

func fromEndpoints(endpoints []any, original any) (Interval, error) {
	if len(endpoints) == 0 || len(endpoints) > 2 || allZero(endpoints) {
		return Interval{}, fmt.Errorf("%w: cannot process %#v", ErrInvalidInterval, original)
	}
	return New(endpoints...)
}

// isComplete reports whether v already describes a whole interval.
func isComplete(v any) bool {
	switch val := v.(type) {
	case Interval, *Interval:
		return true
	case string:
		return strings.Contains(val, Separator)
	}
	return false
}

// asList unpacks any slice or array (other than []byte) into []any.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func allZero(values []any) bool {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !reflect.ValueOf(v).IsZero() {
			return false
		}
	}
	return true
}
