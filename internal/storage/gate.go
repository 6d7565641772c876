package storage

import "sync/atomic"

// Gate tracks whether the persistent store is currently reachable.
//
// A Gate starts closed. It opens only after a successful connection probe
// and closes on any connection-level failure. Concurrent callers may race
// on it; the worst case is a request taking the fallback path when the
// store had just come back.
type Gate struct {
	available atomic.Bool
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{}
}

// Open marks the store reachable.
func (g *Gate) Open() {
	g.available.Store(true)
}

// Close marks the store unreachable.
func (g *Gate) Close() {
	g.available.Store(false)
}

// Available reports the last observed reachability.
func (g *Gate) Available() bool {
	return g.available.Load()
}
