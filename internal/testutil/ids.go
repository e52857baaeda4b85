package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns the same query id every time.
//
// This keeps rendered queries byte-identical across runs so they can be
// compared against golden files.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
// If id is empty, NewID returns "test-query-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedIDGenerator{id: id}
}

// NewID returns the fixed id.
func (g *FixedIDGenerator) NewID() string {
	return g.id
}

// SequenceIDGenerator returns test-query-0001, test-query-0002, ...
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu  sync.Mutex
	seq int
}

// NewSequenceIDGenerator creates a generator whose first id ends in 0001.
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

// NewID returns the next id in the sequence.
func (g *SequenceIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("test-query-%04d", g.seq)
}

// Reset restarts the sequence.
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
