package build

import "sync"

// UniqueIDGenerator hands out monotonically increasing ids for one run.
//
// A generator is created per run and passed explicitly, so ids never leak
// between runs and identical inputs always receive identical ids.
//
// Thread-safety: all methods are safe for concurrent use.
type UniqueIDGenerator struct {
	mu   sync.Mutex
	next uint64
}

// NewUniqueIDGenerator returns a generator whose first id is 0.
func NewUniqueIDGenerator() *UniqueIDGenerator {
	return &UniqueIDGenerator{}
}

// Next returns the next id.
func (g *UniqueIDGenerator) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	return id
}

// Issued returns how many ids have been handed out.
func (g *UniqueIDGenerator) Issued() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}
