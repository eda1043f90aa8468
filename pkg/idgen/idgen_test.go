package idgen

import (
	"sync"
	"testing"
	"time"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := &Generator{now: func() time.Time { return fixed }}

	first := g.Next()
	second := g.Next()
	if first != fixed.UnixMilli() || second != first+1 {
		t.Fatalf("got %d then %d", first, second)
	}
}

func TestNextUniqueUnderConcurrency(t *testing.T) {
	g := New()
	const n = 500

	var mu sync.Mutex
	seen := make(map[int64]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("got %d unique ids, want %d", len(seen), n)
	}
}
