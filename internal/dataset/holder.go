package dataset

import "sync"

// Holder hands out the current table to readers and lets a reload swap in a
// replacement atomically. Views hold the table they started with; a swap only
// affects reads that come after it.
type Holder struct {
	mu    sync.RWMutex
	table *Table
}

// NewHolder creates a holder owning the given table.
func NewHolder(t *Table) *Holder {
	return &Holder{table: t}
}

// Table returns the current table.
func (h *Holder) Table() *Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// Replace swaps in a new table.
func (h *Holder) Replace(t *Table) {
	h.mu.Lock()
	h.table = t
	h.mu.Unlock()
}
