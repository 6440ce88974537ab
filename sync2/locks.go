package sync2

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// Locker is a sync.Locker that can also be probed without blocking.
type Locker interface {
	sync.Locker
	TryLock() bool
}

type LockKind int

const (
	LockMutex LockKind = iota
	LockTicket
	LockCAS
)

var ErrUnknownLockKind = fmt.Errorf("unknown lock kind")

func (k LockKind) String() string {
	switch k {
	case LockMutex:
		return "mutex"
	case LockTicket:
		return "ticket"
	case LockCAS:
		return "cas"
	default:
		return fmt.Sprintf("LockKind(%d)", int(k))
	}
}

func (k LockKind) Valid() bool {
	return k >= LockMutex && k <= LockCAS
}

func ParseLockKind(s string) (LockKind, error) {
	switch strings.ToLower(s) {
	case "", "mutex":
		return LockMutex, nil
	case "ticket":
		return LockTicket, nil
	case "cas", "spin":
		return LockCAS, nil
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownLockKind, s)
}

// NewLocker returns a fresh, unlocked lock of kind k, which must be Valid.
func NewLocker(k LockKind) Locker {
	switch k {
	case LockMutex:
		return &sync.Mutex{}
	case LockTicket:
		return &TicketLock{}
	case LockCAS:
		return &CASLock{}
	default:
		panic("unreachable code")
	}
}

// TicketLock is a fair FIFO spin lock: waiters enter in the order they drew tickets.
type TicketLock struct {
	ticket int32
	turn   int32
}

func (l *TicketLock) Lock() {
	myTurn := atomic.AddInt32(&l.ticket, 1) - 1
	for atomic.LoadInt32(&l.turn) != myTurn {
		runtime.Gosched()
	}
}

// TryLock draws a ticket only if it would be served immediately.
func (l *TicketLock) TryLock() bool {
	turn := atomic.LoadInt32(&l.turn)
	return atomic.CompareAndSwapInt32(&l.ticket, turn, turn+1)
}

func (l *TicketLock) Unlock() {
	atomic.AddInt32(&l.turn, 1)
}

// CASLock is a test-and-set spin lock. 0 = unlocked, 1 = locked.
type CASLock struct {
	flag int32
}

func (l *CASLock) Lock() {
	for !atomic.CompareAndSwapInt32(&l.flag, 0, 1) {
		runtime.Gosched()
	}
}

func (l *CASLock) TryLock() bool {
	return atomic.CompareAndSwapInt32(&l.flag, 0, 1)
}

func (l *CASLock) Unlock() {
	atomic.StoreInt32(&l.flag, 0)
}
