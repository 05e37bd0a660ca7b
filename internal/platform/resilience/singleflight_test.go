package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			val, err, _ := g.Do("fixtures-2025-05-10", func() (any, error) {
				executions.Add(1)
				close(started)
				<-release
				return "payload", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[idx] = val
		}(i)
	}

	// Let the remaining callers pile up on the in-flight key.
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	for _, val := range results {
		if val != "payload" {
			t.Fatalf("caller received wrong value: %v", val)
		}
	}
}

func TestSingleFlight_KeyIsReusableAfterCompletion(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		_, _, shared := g.Do("team-arsenal", func() (any, error) {
			executions++
			return nil, nil
		})
		if shared {
			t.Fatal("sequential calls must not be marked shared")
		}
	}

	if executions != 3 {
		t.Fatalf("expected three executions, got %d", executions)
	}
}
