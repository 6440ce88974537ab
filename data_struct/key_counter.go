package data_struct

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"sync"
)

type keyCounterPartition struct {
	mutex sync.Mutex
	m     map[int]int64
}

func (kcp *keyCounterPartition) add(key int, delta int64) {
	kcp.mutex.Lock()
	defer kcp.mutex.Unlock()
	if n := kcp.m[key] + delta; n != 0 {
		kcp.m[key] = n
	} else {
		delete(kcp.m, key)
	}
}

// KeyCounter is a partitioned concurrent multiset counter, it records the net
// number of copies of each key a list is expected to hold.
type KeyCounter struct {
	partitions []keyCounterPartition
}

func NewKeyCounter(partitionNum int) *KeyCounter {
	if partitionNum < 1 {
		partitionNum = 1
	}
	kc := &KeyCounter{partitions: make([]keyCounterPartition, partitionNum)}
	for i := 0; i < partitionNum; i++ {
		kc.partitions[i].m = make(map[int]int64)
	}
	return kc
}

func (kc *KeyCounter) partition(key int) *keyCounterPartition {
	idx := key % len(kc.partitions)
	if idx < 0 {
		idx += len(kc.partitions)
	}
	return &kc.partitions[idx]
}

func (kc *KeyCounter) Add(key int, delta int64) {
	kc.partition(key).add(key, delta)
}

func (kc *KeyCounter) lock() {
	for i := 0; i < len(kc.partitions); i++ {
		kc.partitions[i].mutex.Lock()
	}
}

func (kc *KeyCounter) unlock() {
	for i := len(kc.partitions) - 1; i >= 0; i-- {
		kc.partitions[i].mutex.Unlock()
	}
}

// Sorted expands the counter into ascending keys, a key counted n times
// appears n times. Negative counts are returned in the second value.
func (kc *KeyCounter) Sorted() (keys []int, negative []int) {
	tm := treemap.NewWith(utils.IntComparator)
	kc.lock()
	for i := range kc.partitions {
		for key, n := range kc.partitions[i].m {
			tm.Put(key, n)
		}
	}
	kc.unlock()

	it := tm.Iterator()
	for it.Next() {
		key, n := it.Key().(int), it.Value().(int64)
		if n < 0 {
			negative = append(negative, key)
			continue
		}
		for ; n > 0; n-- {
			keys = append(keys, key)
		}
	}
	return keys, negative
}
