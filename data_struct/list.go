package data_struct

import (
	"fmt"
	"strings"

	"cll/sync2"

	"github.com/golang/glog"
)

const glogLevelList = glog.Level(8)

var (
	ErrOutOfMemory = fmt.Errorf("out of memory")
	ErrUnknownKind = fmt.Errorf("unknown list kind")
	ErrCorruptList = fmt.Errorf("list corrupted")
)

// List is a concurrent ordered multiset of int keys.
//
// Insert places the new node right before the first node whose key is >= key,
// so among equal keys the most recently inserted one is nearest the head.
// Delete removes the first node (from head) holding key. Destroy must only be
// called once no other operation is in flight.
type List interface {
	Insert(key int) error
	Delete(key int) bool
	Lookup(key int) bool
	Destroy()
}

// Inspector exposes the structure for verification. Callers must make sure
// no mutation is in flight if they want a consistent answer.
type Inspector interface {
	Keys() []int
	Len() int
	Validate() error
}

type Kind int

const (
	KindCoarse Kind = iota
	KindHOH
)

func (k Kind) String() string {
	switch k {
	case KindCoarse:
		return "coarse"
	case KindHOH:
		return "hoh"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Valid() bool {
	return k == KindCoarse || k == KindHOH
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "coarse", "global":
		return KindCoarse, nil
	case "hoh", "fine":
		return KindHOH, nil
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownKind, s)
}

type Options struct {
	// Lock selects the lock used for the list lock, the head lock and node locks.
	Lock sync2.LockKind
	// Allocator accounts for list and node objects, nil means a private unlimited one.
	Allocator *Allocator
}

func (o Options) validate() error {
	if !o.Lock.Valid() {
		return fmt.Errorf("%w: %s", sync2.ErrUnknownLockKind, o.Lock)
	}
	return nil
}

func (o Options) allocator() *Allocator {
	if o.Allocator == nil {
		return NewAllocator(0)
	}
	return o.Allocator
}

func New(kind Kind, opts Options) (List, error) {
	var (
		l   List
		err error
	)
	switch kind {
	case KindCoarse:
		l, err = NewCoarseList(opts)
	case KindHOH:
		l, err = NewHOHList(opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func keysString(keys []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", key)
	}
	sb.WriteByte(']')
	return sb.String()
}
