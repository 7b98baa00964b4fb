package store

import "sync"

// Ledger tracks stock counts per item. Only the inventory consumer
// mutates it, single-threaded per the topic's consumer loop; the lock
// keeps reads (health/debug, tests) consistent with that writer.
type Ledger struct {
	mu    sync.Mutex
	stock map[string]int
}

// NewLedger copies the seed so callers can't alias internal state.
func NewLedger(seed map[string]int) *Ledger {
	stock := make(map[string]int, len(seed))
	for item, n := range seed {
		stock[item] = n
	}
	return &Ledger{stock: stock}
}

// Reserve takes one unit per requested item, atomically for the whole
// order: either every unit is available and all are decremented, or
// nothing changes. An item listed twice needs two units. Counts never go
// negative.
func (l *Ledger) Reserve(items []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	needed := make(map[string]int, len(items))
	for _, item := range items {
		needed[item]++
	}
	for item, n := range needed {
		if l.stock[item] < n {
			return false
		}
	}
	for item, n := range needed {
		l.stock[item] -= n
	}
	return true
}

// Stock returns the current count for an item.
func (l *Ledger) Stock(item string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.stock[item]
	return n, ok
}

// Snapshot returns a copy of the full ledger.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.stock))
	for item, n := range l.stock {
		out[item] = n
	}
	return out
}
