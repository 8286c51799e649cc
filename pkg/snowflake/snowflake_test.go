// Copyright (c) 2026 Sable. All rights reserved.

package snowflake_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablebot/sable/pkg/snowflake"
)

func TestGenerator_Monotonic(t *testing.T) {
	generator, err := snowflake.NewGenerator(0)
	require.NoError(t, err)

	previous := generator.Next()
	for i := 0; i < 1000; i++ {
		current := generator.Next()
		assert.Greater(t, current, previous)
		previous = current
	}
}

func TestGenerator_ConcurrentUniqueness(t *testing.T) {
	generator, err := snowflake.NewGenerator(1)
	require.NoError(t, err)

	const goroutines = 8
	const perGoroutine = 500

	results := make(chan int64, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				results <- generator.Next()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]struct{}, goroutines*perGoroutine)
	for id := range results {
		_, duplicate := seen[id]
		require.False(t, duplicate, "duplicate id %d", id)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestNewGenerator_InvalidNode(t *testing.T) {
	_, err := snowflake.NewGenerator(1024)
	assert.Error(t, err)
}
