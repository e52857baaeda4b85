package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedIDGenerator(t *testing.T) {
	g := NewFixedIDGenerator("q-1")
	assert.Equal(t, "q-1", g.NewID())
	assert.Equal(t, "q-1", g.NewID())
}

func TestFixedIDGenerator_Default(t *testing.T) {
	assert.Equal(t, "test-query-default", NewFixedIDGenerator("").NewID())
}

func TestSequenceIDGenerator(t *testing.T) {
	g := NewSequenceIDGenerator()

	assert.Equal(t, "test-query-0001", g.NewID())
	assert.Equal(t, "test-query-0002", g.NewID())

	g.Reset()
	assert.Equal(t, "test-query-0001", g.NewID())
}

func TestSequenceIDGenerator_Concurrent(t *testing.T) {
	g := NewSequenceIDGenerator()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.NewID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
