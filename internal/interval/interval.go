// Package interval models Druid time intervals and normalizes the loose
// shapes callers use to describe them.
package interval

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Separator splits the start and end of a Druid interval string.
const Separator = "/"

// Layout is the timestamp layout Druid uses in interval strings.
const Layout = "2006-01-02T15:04:05.000Z"

// ErrInvalidInterval is wrapped by every error this package returns.
var ErrInvalidInterval = errors.New("invalid interval")

// layouts lists the accepted string forms for an endpoint, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	Layout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Interval is a half-open time range [Start, End).
// Start is never after End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New builds an Interval from zero to two endpoints.
//
// A single endpoint must be a complete "start/end" string. Two endpoints are
// parsed independently; each may be a time.Time, an integer unix timestamp
// (seconds) or a string in one of the accepted layouts.
func New(endpoints ...any) (Interval, error) {
	switch len(endpoints) {
	case 0:
		return Interval{}, fmt.Errorf("%w: no endpoints given", ErrInvalidInterval)
	case 1:
		s, ok := endpoints[0].(string)
		if !ok || !strings.Contains(s, Separator) {
			return Interval{}, fmt.Errorf("%w: end of interval is required, got %v", ErrInvalidInterval, endpoints[0])
		}
		start, end, _ := strings.Cut(s, Separator)
		return New(start, end)
	case 2:
	default:
		return Interval{}, fmt.Errorf("%w: expected at most 2 endpoints, got %d", ErrInvalidInterval, len(endpoints))
	}

	start, err := parseEndpoint(endpoints[0])
	if err != nil {
		return Interval{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseEndpoint(endpoints[1])
	if err != nil {
		return Interval{}, fmt.Errorf("end: %w", err)
	}
	if start.After(end) {
		return Interval{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidInterval, start.UTC().Format(Layout), end.UTC().Format(Layout))
	}

	return Interval{Start: start, End: end}, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNew(endpoints ...any) Interval {
	iv, err := New(endpoints...)
	if err != nil {
		panic(err)
	}
	return iv
}

// Parse parses a "start/end" interval string.
func Parse(s string) (Interval, error) {
	return New(s)
}

// String renders the interval the way Druid expects it, in UTC.
func (iv Interval) String() string {
	return iv.Start.UTC().Format(Layout) + Separator + iv.End.UTC().Format(Layout)
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t falls inside [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Equal reports whether both intervals cover the same instants.
func (iv Interval) Equal(other Interval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

func parseEndpoint(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrInvalidInterval)
		}
		return *val, nil
	case int:
		return time.Unix(int64(val), 0).UTC(), nil
	case int32:
		return time.Unix(int64(val), 0).UTC(), nil
	case int64:
		return time.Unix(val, 0).UTC(), nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: cannot parse %q as a timestamp", ErrInvalidInterval, val)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported endpoint type %T", ErrInvalidInterval, v)
	}
}
