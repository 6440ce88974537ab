package data_struct

import (
	"fmt"

	"cll/sync2"

	"github.com/golang/glog"
)

type coarseNode struct {
	key  int
	next *coarseNode
}

// CoarseList guards the whole chain with a single lock, every operation is
// fully serialized.
type CoarseList struct {
	mu    sync2.Locker
	head  *coarseNode
	size  int
	alloc *Allocator
}

func NewCoarseList(opts Options) (*CoarseList, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	alloc := opts.allocator()
	if err := alloc.allocList(); err != nil {
		return nil, err
	}
	return &CoarseList{
		mu:    sync2.NewLocker(opts.Lock),
		alloc: alloc,
	}, nil
}

func (l *CoarseList) Insert(key int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.alloc.allocNode(); err != nil {
		glog.V(glogLevelList).Infof("coarse list: insert %d failed: '%v'", key, err)
		return err
	}

	var prev *coarseNode
	cur := l.head
	for cur != nil && cur.key < key {
		prev, cur = cur, cur.next
	}

	n := &coarseNode{key: key, next: cur}
	if prev == nil {
		l.head = n
	} else {
		prev.next = n
	}
	l.size++
	return nil
}

func (l *CoarseList) Delete(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var prev *coarseNode
	cur := l.head
	for cur != nil && cur.key < key {
		prev, cur = cur, cur.next
	}
	if cur == nil || cur.key != key {
		return false
	}

	if prev == nil {
		l.head = cur.next
	} else {
		prev.next = cur.next
	}
	cur.next = nil
	l.size--
	l.alloc.freeNodes(1)
	return true
}

func (l *CoarseList) Lookup(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for cur := l.head; cur != nil && cur.key <= key; cur = cur.next {
		if cur.key == key {
			return true
		}
	}
	return false
}

func (l *CoarseList) Destroy() {
	l.mu.Lock()
	var freed int64
	for cur := l.head; cur != nil; {
		next := cur.next
		cur.next = nil
		cur = next
		freed++
	}
	l.head = nil
	l.size = 0
	l.mu.Unlock()

	l.alloc.freeNodes(freed)
	l.alloc.freeList()
	glog.V(glogLevelList).Infof("coarse list destroyed, %d nodes freed", freed)
}

func (l *CoarseList) Keys() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]int, 0, l.size)
	for cur := l.head; cur != nil; cur = cur.next {
		keys = append(keys, cur.key)
	}
	return keys
}

func (l *CoarseList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *CoarseList) Validate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	visited := make(map[*coarseNode]struct{}, l.size)
	count := 0
	for cur := l.head; cur != nil; cur = cur.next {
		if _, ok := visited[cur]; ok {
			return fmt.Errorf("%w: cycle after %d nodes", ErrCorruptList, count)
		}
		visited[cur] = struct{}{}
		if cur.next != nil && cur.next.key < cur.key {
			return fmt.Errorf("%w: key %d followed by %d", ErrCorruptList, cur.key, cur.next.key)
		}
		count++
	}
	if count != l.size {
		return fmt.Errorf("%w: reached %d nodes, expected %d", ErrCorruptList, count, l.size)
	}
	return nil
}

func (l *CoarseList) String() string {
	return keysString(l.Keys())
}
