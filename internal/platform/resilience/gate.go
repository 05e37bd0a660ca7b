package resilience

import "sync/atomic"

// Gate admits at most one holder at a time. Unlike SingleFlight it
// never queues: a caller that loses the race is refused immediately.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire claims the gate if it is free. It never blocks.
func (g *Gate) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *Gate) Release() {
	g.busy.Store(false)
}

// Held reports whether the gate is currently claimed.
func (g *Gate) Held() bool {
	return g.busy.Load()
}
