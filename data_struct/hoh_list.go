package data_struct

import (
	"fmt"

	"cll/sync2"

	"github.com/golang/glog"
)

// hohNode's mu guards key and next.
type hohNode struct {
	mu   sync2.Locker
	key  int
	next *hohNode
}

// HOHList is a sorted list with one lock per node and a lock for the head
// link, traversed by lock coupling (hand-over-hand).
//
// Rules every operation follows:
//   - a link is read or written only while holding the lock of its origin
//     (headMu for head, the predecessor's mu for pred.next);
//   - locks are taken in list order: headMu, then nodes from head to tail,
//     the successor's lock always before the current one is released;
//   - an unlinked node is handed back to the allocator only after every lock
//     is released, by which time no other goroutine can reach it.
type HOHList struct {
	headMu sync2.Locker
	head   *hohNode

	lockKind sync2.LockKind
	alloc    *Allocator
}

func NewHOHList(opts Options) (*HOHList, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	alloc := opts.allocator()
	if err := alloc.allocList(); err != nil {
		return nil, err
	}
	return &HOHList{
		headMu:   sync2.NewLocker(opts.Lock),
		lockKind: opts.Lock,
		alloc:    alloc,
	}, nil
}

func (l *HOHList) Insert(key int) error {
	// Allocate outside any lock so a failure leaves nothing held.
	if err := l.alloc.allocNode(); err != nil {
		glog.V(glogLevelList).Infof("hoh list: insert %d failed: '%v'", key, err)
		return err
	}
	n := &hohNode{mu: sync2.NewLocker(l.lockKind), key: key}

	l.headMu.Lock()
	first := l.head
	if first == nil {
		l.head = n
		l.headMu.Unlock()
		return nil
	}
	first.mu.Lock()
	if first.key >= key {
		n.next = first
		l.head = n
		first.mu.Unlock()
		l.headMu.Unlock()
		return nil
	}
	l.headMu.Unlock()

	pred := first
	for {
		cur := pred.next
		if cur == nil {
			break
		}
		cur.mu.Lock()
		if cur.key >= key {
			cur.mu.Unlock()
			break
		}
		pred.mu.Unlock()
		pred = cur
	}
	// pred.key < key and pred.next is either nil or the first node >= key.
	n.next = pred.next
	pred.next = n
	pred.mu.Unlock()
	return nil
}

func (l *HOHList) Delete(key int) bool {
	l.headMu.Lock()
	first := l.head
	if first == nil {
		l.headMu.Unlock()
		return false
	}
	first.mu.Lock()
	if first.key >= key {
		found := first.key == key
		if found {
			l.head = first.next
			first.next = nil
		}
		first.mu.Unlock()
		l.headMu.Unlock()
		if found {
			l.reclaim()
		}
		return found
	}
	l.headMu.Unlock()

	pred := first
	for {
		cur := pred.next
		if cur == nil {
			pred.mu.Unlock()
			return false
		}
		cur.mu.Lock()
		if cur.key >= key {
			found := cur.key == key
			if found {
				pred.next = cur.next
				cur.next = nil
			}
			cur.mu.Unlock()
			pred.mu.Unlock()
			if found {
				l.reclaim()
			}
			return found
		}
		pred.mu.Unlock()
		pred = cur
	}
}

func (l *HOHList) reclaim() {
	l.alloc.freeNodes(1)
}

func (l *HOHList) Lookup(key int) bool {
	l.headMu.Lock()
	cur := l.head
	if cur == nil {
		l.headMu.Unlock()
		return false
	}
	cur.mu.Lock()
	l.headMu.Unlock()

	for {
		if cur.key >= key {
			found := cur.key == key
			cur.mu.Unlock()
			return found
		}
		next := cur.next
		if next == nil {
			cur.mu.Unlock()
			return false
		}
		next.mu.Lock()
		cur.mu.Unlock()
		cur = next
	}
}

// Destroy frees every node and the list. No operation may be in flight.
func (l *HOHList) Destroy() {
	l.headMu.Lock()
	var freed int64
	for cur := l.head; cur != nil; {
		next := cur.next
		cur.next = nil
		cur = next
		freed++
	}
	l.head = nil
	l.headMu.Unlock()

	l.alloc.freeNodes(freed)
	l.alloc.freeList()
	glog.V(glogLevelList).Infof("hoh list destroyed, %d nodes freed", freed)
}

// walk visits nodes from head by lock coupling, cb runs with the node locked.
// It stops early when cb returns false.
func (l *HOHList) walk(cb func(n *hohNode) bool) {
	l.headMu.Lock()
	cur := l.head
	if cur == nil {
		l.headMu.Unlock()
		return
	}
	cur.mu.Lock()
	l.headMu.Unlock()

	for {
		if !cb(cur) {
			cur.mu.Unlock()
			return
		}
		next := cur.next
		if next == nil {
			cur.mu.Unlock()
			return
		}
		next.mu.Lock()
		cur.mu.Unlock()
		cur = next
	}
}

func (l *HOHList) Keys() []int {
	var keys []int
	l.walk(func(n *hohNode) bool {
		keys = append(keys, n.key)
		return true
	})
	return keys
}

// Len counts the reachable nodes with a full lock-coupled traversal.
func (l *HOHList) Len() int {
	n := 0
	l.walk(func(*hohNode) bool {
		n++
		return true
	})
	return n
}

func (l *HOHList) Validate() error {
	var (
		err     error
		count   int
		prevKey int
		visited = make(map[*hohNode]struct{})
	)
	l.walk(func(n *hohNode) bool {
		if count > 0 && n.key < prevKey {
			err = fmt.Errorf("%w: key %d followed by %d", ErrCorruptList, prevKey, n.key)
			return false
		}
		visited[n] = struct{}{}
		count++
		prevKey = n.key
		// Locking a node we already passed would never return for a self loop.
		if _, ok := visited[n.next]; ok {
			err = fmt.Errorf("%w: cycle after %d nodes", ErrCorruptList, count)
			return false
		}
		return true
	})
	return err
}

func (l *HOHList) String() string {
	return keysString(l.Keys())
}
