// File: iosource/source_table.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SourceTable holds the ordered set of registered I/O sources plus the
// dont_count bookkeeping the driver needs to decide whether the loop
// should keep running. It is backed by github.com/eapache/queue, the
// teacher's declared-but-unused queue dependency.

package iosource

import (
	"github.com/eapache/queue"

	"github.com/momentics/netmux/api"
)

// sourceEntry is the registered source entry: {source, dont_count}.
type sourceEntry struct {
	source    api.Source
	dontCount bool
}

// SourceTable is not safe for concurrent use; the loop is single-
// threaded cooperative and all table mutation happens on the loop
// goroutine (see LoopDriver).
type SourceTable struct {
	order      *queue.Queue
	index      map[api.Source]*sourceEntry
	dontCounts int
}

// NewSourceTable constructs an empty table.
func NewSourceTable() *SourceTable {
	return &SourceTable{
		order: queue.New(),
		index: make(map[api.Source]*sourceEntry),
	}
}

// Register inserts src if it is not already present, calling its
// InitSource exactly once. If src is already registered, only the
// dont_count flag is reconciled and the dont_counts counter adjusted;
// duplicate registration never calls InitSource twice (invariant 1).
func (t *SourceTable) Register(src api.Source, dontCount bool) (isNew bool, err error) {
	if entry, ok := t.index[src]; ok {
		if entry.dontCount != dontCount {
			if dontCount {
				t.dontCounts++
			} else {
				t.dontCounts--
			}
			entry.dontCount = dontCount
		}
		return false, nil
	}

	if err := src.InitSource(); err != nil {
		return false, err
	}

	entry := &sourceEntry{source: src, dontCount: dontCount}
	t.order.Add(entry)
	t.index[src] = entry
	if dontCount {
		t.dontCounts++
	}
	return true, nil
}

// Len returns the number of registered sources.
func (t *SourceTable) Len() int {
	return t.order.Length()
}

// DontCounts returns the number of entries with dont_count true.
// Invariant 2 of §3: this always equals |{entry : entry.dont_count}|.
func (t *SourceTable) DontCounts() int {
	return t.dontCounts
}

// Countable returns the number of sources that, by themselves, justify
// keeping the loop alive.
func (t *SourceTable) Countable() int {
	return t.Len() - t.dontCounts
}

// PruneOneDry walks the table and removes at most the first entry
// whose source has gone dry (IsOpen() == false), calling Done() on it.
// Pruning more than one per call is disallowed to bound per-tick work.
func (t *SourceTable) PruneOneDry() (pruned api.Source, ok bool) {
	n := t.order.Length()
	for i := 0; i < n; i++ {
		entry := t.order.Get(i).(*sourceEntry)
		if entry.source.IsOpen() {
			continue
		}
		t.removeAt(i)
		entry.source.Done()
		return entry.source, true
	}
	return nil, false
}

// removeAt rebuilds the backing queue without the entry at index i.
// github.com/eapache/queue only supports FIFO-front removal, so
// arbitrary-position pruning drains and re-adds the surviving entries.
func (t *SourceTable) removeAt(i int) {
	entry := t.order.Get(i).(*sourceEntry)
	rebuilt := queue.New()
	n := t.order.Length()
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		rebuilt.Add(t.order.Get(j))
	}
	t.order = rebuilt
	delete(t.index, entry.source)
	if entry.dontCount {
		t.dontCounts--
	}
}

// ForEachOpen calls fn once for every currently-open registered
// source, in table order.
func (t *SourceTable) ForEachOpen(fn func(api.Source)) {
	n := t.order.Length()
	for i := 0; i < n; i++ {
		entry := t.order.Get(i).(*sourceEntry)
		if entry.source.IsOpen() {
			fn(entry.source)
		}
	}
}

// ForEachAll calls fn once for every registered source regardless of
// open/dry state, used for teardown.
func (t *SourceTable) ForEachAll(fn func(api.Source)) {
	n := t.order.Length()
	for i := 0; i < n; i++ {
		entry := t.order.Get(i).(*sourceEntry)
		fn(entry.source)
	}
}

// RemoveAll marks every entry as dont_count, driving dont_counts up to
// the table's full size. This causes the termination check in
// FindReadySources to fire on the next tick without actually removing
// any entry from the table — a deliberate draining-by-effect operation,
// not a literal clear.
func (t *SourceTable) RemoveAll() {
	n := t.order.Length()
	for i := 0; i < n; i++ {
		entry := t.order.Get(i).(*sourceEntry)
		if !entry.dontCount {
			entry.dontCount = true
		}
	}
	t.dontCounts = n
}
