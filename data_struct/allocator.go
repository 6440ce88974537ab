package data_struct

import (
	"cll/assert"
	"cll/sync2"
)

// Allocator does the bookkeeping for list and node objects and can cap the
// number of live ones, which makes allocation exhaustion observable.
// It may be shared by several lists.
type Allocator struct {
	limit int64
	live  sync2.AtomicInt64

	listsAllocated sync2.AtomicInt64
	listsFreed     sync2.AtomicInt64
	nodesAllocated sync2.AtomicInt64
	nodesFreed     sync2.AtomicInt64
}

type AllocatorStats struct {
	ListsAllocated int64
	ListsFreed     int64
	NodesAllocated int64
	NodesFreed     int64
}

func (s AllocatorStats) LiveNodes() int64 {
	return s.NodesAllocated - s.NodesFreed
}

func (s AllocatorStats) LiveLists() int64 {
	return s.ListsAllocated - s.ListsFreed
}

// NewAllocator returns an allocator allowing at most limit live objects, 0 means unlimited.
func NewAllocator(limit int64) *Allocator {
	return &Allocator{limit: limit}
}

func (a *Allocator) reserve() error {
	if a.limit <= 0 {
		a.live.Add(1)
		return nil
	}
	for {
		live := a.live.Get()
		if live >= a.limit {
			return ErrOutOfMemory
		}
		if a.live.CompareAndSwap(live, live+1) {
			return nil
		}
	}
}

func (a *Allocator) release(n int64) {
	live := a.live.Add(-n)
	assert.Mustf(live >= 0, "%d live objects after releasing %d", live, n)
}

func (a *Allocator) allocList() error {
	if err := a.reserve(); err != nil {
		return err
	}
	a.listsAllocated.Add(1)
	return nil
}

func (a *Allocator) freeList() {
	a.listsFreed.Add(1)
	a.release(1)
}

func (a *Allocator) allocNode() error {
	if err := a.reserve(); err != nil {
		return err
	}
	a.nodesAllocated.Add(1)
	return nil
}

func (a *Allocator) freeNodes(n int64) {
	a.nodesFreed.Add(n)
	a.release(n)
}

func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{
		ListsAllocated: a.listsAllocated.Get(),
		ListsFreed:     a.listsFreed.Get(),
		NodesAllocated: a.nodesAllocated.Get(),
		NodesFreed:     a.nodesFreed.Get(),
	}
}
