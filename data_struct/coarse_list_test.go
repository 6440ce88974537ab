package data_struct

import (
	"testing"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
)

func TestCoarseList_DuplicatesNewestFirst(t *testing.T) {
	l, err := NewCoarseList(Options{})
	assert.NotError(t, err)
	defer l.Destroy()

	var fives []*coarseNode
	for i := 0; i < 3; i++ {
		assert.NotError(t, l.Insert(5))
		fives = append(fives, l.head)
	}
	// newest 5 nearest head
	check.True(t, l.head == fives[2])
	check.True(t, l.head.next == fives[1])
	check.True(t, l.head.next.next == fives[0])

	check.True(t, l.Delete(5))
	check.True(t, l.head == fives[1])
	check.True(t, fives[2].next == nil)
}

func TestCoarseList_DuplicateInsertedBeforeEqualRun(t *testing.T) {
	l, err := NewCoarseList(Options{})
	assert.NotError(t, err)
	defer l.Destroy()

	assert.NotError(t, l.Insert(1))
	assert.NotError(t, l.Insert(3))
	older := l.head.next
	assert.NotError(t, l.Insert(3))
	check.Equal(t, l.head.next.key, 3)
	check.True(t, l.head.next != older)
	check.True(t, l.head.next.next == older)
	check.Equal(t, l.String(), "[1, 3, 3]")
}
