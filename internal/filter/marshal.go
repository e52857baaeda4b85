package filter

import (
	"fmt"

	"github.com/roach88/druidq/internal/ir"
)

// Marshal returns the Druid JSON for n with object keys in sorted order.
// Strings are written exactly as given; only Hash normalizes them.
func Marshal(n Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("marshal filter: nil node")
	}
	data, err := ir.MarshalSorted(n.ToIR())
	if err != nil {
		return nil, fmt.Errorf("marshal %s filter: %w", n.Type(), err)
	}
	return data, nil
}

// Hash returns the content hash of n's JSON.
func Hash(n Node) (string, error) {
	if n == nil {
		return "", fmt.Errorf("hash filter: nil node")
	}
	return ir.FilterHash(n.ToIR())
}
