package sync2

import "sync/atomic"

// AtomicInt64 is a wrapper with a simpler interface around atomic.(Add|Store|Load|CompareAndSwap)Int64 functions.
type AtomicInt64 struct {
	int64
}

func NewAtomicInt64(n int64) AtomicInt64 {
	return AtomicInt64{int64: n}
}

func (i *AtomicInt64) Add(n int64) int64 {
	return atomic.AddInt64(&i.int64, n)
}

func (i *AtomicInt64) Set(n int64) {
	atomic.StoreInt64(&i.int64, n)
}

func (i *AtomicInt64) Get() int64 {
	return atomic.LoadInt64(&i.int64)
}

func (i *AtomicInt64) CompareAndSwap(oldval, newval int64) bool {
	return atomic.CompareAndSwapInt64(&i.int64, oldval, newval)
}
