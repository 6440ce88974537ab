package data_struct

import (
	"sync"
	"testing"

	"cll/sync2"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
)

func TestHOHList_DuplicatesNewestFirst(t *testing.T) {
	l, err := NewHOHList(Options{})
	assert.NotError(t, err)
	defer l.Destroy()

	var fives []*hohNode
	for i := 0; i < 3; i++ {
		assert.NotError(t, l.Insert(5))
		fives = append(fives, l.head)
	}
	check.True(t, l.head == fives[2])
	check.True(t, l.head.next == fives[1])
	check.True(t, l.head.next.next == fives[0])

	check.True(t, l.Delete(5))
	check.True(t, l.head == fives[1])
	check.True(t, fives[2].next == nil)
	check.Equal(t, l.String(), "[5, 5]")
}

func TestHOHList_DuplicateInsertedBeforeEqualRun(t *testing.T) {
	l, err := NewHOHList(Options{})
	assert.NotError(t, err)
	defer l.Destroy()

	for _, key := range []int{1, 3, 7} {
		assert.NotError(t, l.Insert(key))
	}
	older := l.head.next
	assert.NotError(t, l.Insert(3))
	check.True(t, l.head.next != older)
	check.True(t, l.head.next.next == older)

	// delete removes the node nearest head
	check.True(t, l.Delete(3))
	check.True(t, l.head.next == older)
}

func TestHOHList_NodeLocksOfKind(t *testing.T) {
	l, err := NewHOHList(Options{Lock: sync2.LockTicket})
	assert.NotError(t, err)
	defer l.Destroy()

	assert.NotError(t, l.Insert(1))
	assert.NotError(t, l.Insert(2))
	_, ok := l.headMu.(*sync2.TicketLock)
	check.True(t, ok)
	for cur := l.head; cur != nil; cur = cur.next {
		_, ok := cur.mu.(*sync2.TicketLock)
		check.True(t, ok)
	}
}

// Lookups on the tail must keep making progress while the front is being
// rewritten, and the front must be rewritten while tails are scanned.
func TestHOHList_ConcurrentFrontAndTail(t *testing.T) {
	l, err := NewHOHList(Options{})
	assert.NotError(t, err)
	defer l.Destroy()

	for i := 100; i < 200; i++ {
		assert.NotError(t, l.Insert(i))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			if err := l.Insert(i % 50); err != nil {
				t.Error(err)
				return
			}
			if !l.Delete(i % 50) {
				t.Errorf("key %d vanished", i%50)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			if !l.Lookup(199) {
				t.Error("tail key not found")
				return
			}
		}
	}()
	wg.Wait()

	check.Equal(t, l.Len(), 100)
	assert.NotError(t, l.Validate())
	assertNoLockHeld(t, l)
}

func TestHOHList_ValidateDetectsCorruption(t *testing.T) {
	l, err := NewHOHList(Options{})
	assert.NotError(t, err)

	for _, key := range []int{1, 2, 3} {
		assert.NotError(t, l.Insert(key))
	}
	l.head.next.key = 10
	check.Error(t, l.Validate())
	l.head.next.key = 2

	tail := l.head.next.next
	tail.next = l.head
	check.Error(t, l.Validate())
	tail.next = nil

	assert.NotError(t, l.Validate())
	l.Destroy()
}

func TestHOHList_LenCountsReachableNodes(t *testing.T) {
	alloc := NewAllocator(0)
	l, err := NewHOHList(Options{Allocator: alloc})
	assert.NotError(t, err)
	defer l.Destroy()

	check.Equal(t, l.Len(), 0)
	for _, key := range []int{1, 2, 3, 4} {
		assert.NotError(t, l.Insert(key))
	}
	check.Equal(t, l.Len(), 4)

	// bypass a node without going through Delete
	skipped := l.head.next
	l.head.next = skipped.next
	check.Equal(t, l.Len(), 3)
	check.Equal(t, alloc.Stats().LiveNodes(), int64(4))
	l.head.next = skipped

	check.True(t, l.Delete(4))
	check.Equal(t, l.Len(), 3)
	assertNoLockHeld(t, l)
}
