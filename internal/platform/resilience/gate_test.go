package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGate_SingleHolder(t *testing.T) {
	t.Parallel()

	var g Gate
	if !g.TryAcquire() {
		t.Fatal("first acquire must succeed")
	}
	if g.TryAcquire() {
		t.Fatal("second acquire while held must be refused")
	}
	if !g.Held() {
		t.Fatal("gate must report held")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Fatal("acquire after release must succeed")
	}
}

func TestGate_ConcurrentAcquireAdmitsExactlyOne(t *testing.T) {
	t.Parallel()

	var g Gate
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != 1 {
		t.Fatalf("expected exactly one holder, got %d", got)
	}
}
