package filter

import "regexp"

// Sort orders for bound and between filters.
const (
	OrderingLexicographic = "lexicographic"
	OrderingAlphanumeric  = "alphanumeric"
	OrderingNumeric       = "numeric"
	OrderingStrlen        = "strlen"
	OrderingVersion       = "version"
)

// decimalNumber matches plain decimal numbers with an optional exponent.
// Hex, infinities and NaN are text to Druid's numeric comparator.
var decimalNumber = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// DefaultOrdering returns numeric when every value is a decimal number and
// lexicographic otherwise.
func DefaultOrdering(values ...string) string {
	for _, v := range values {
		if !decimalNumber.MatchString(v) {
			return OrderingLexicographic
		}
	}
	return OrderingNumeric
}

// IsOrdering reports whether s names a known sort order.
func IsOrdering(s string) bool {
	switch s {
	case OrderingLexicographic, OrderingAlphanumeric, OrderingNumeric, OrderingStrlen, OrderingVersion:
		return true
	}
	return false
}
