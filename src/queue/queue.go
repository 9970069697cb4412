// Package queue holds the pending stops of one car in one travel direction.
package queue

import (
	"cmp"
	"slices"

	"scanvator/src/types"
)

// Queue is an ordered set of floors kept in service order: ascending for an
// up queue, descending for a down queue. It is not safe for concurrent use;
// the owning controller serialises access.
type Queue struct {
	dir    types.Direction
	floors []int
}

func NewUp() *Queue {
	return &Queue{dir: types.Up}
}

func NewDown() *Queue {
	return &Queue{dir: types.Down}
}

// New returns the queue serving dir.
func New(dir types.Direction) *Queue {
	if dir == types.Down {
		return NewDown()
	}
	return NewUp()
}

func (q *Queue) Dir() types.Direction {
	return q.dir
}

// compare orders floors by service order of the queue.
func (q *Queue) compare(a, b int) int {
	if q.dir == types.Down {
		return cmp.Compare(b, a)
	}
	return cmp.Compare(a, b)
}

func (q *Queue) search(floor int) (int, bool) {
	return slices.BinarySearchFunc(q.floors, floor, q.compare)
}

// Insert adds floor. It returns false if the floor was already queued.
func (q *Queue) Insert(floor int) bool {
	i, found := q.search(floor)
	if found {
		return false
	}
	q.floors = slices.Insert(q.floors, i, floor)
	return true
}

// Remove withdraws floor. It returns false if the floor was not queued.
func (q *Queue) Remove(floor int) bool {
	i, found := q.search(floor)
	if !found {
		return false
	}
	q.floors = slices.Delete(q.floors, i, i+1)
	return true
}

func (q *Queue) Contains(floor int) bool {
	_, found := q.search(floor)
	return found
}

// Peek returns the lowest floor of an up queue or the highest of a down queue.
func (q *Queue) Peek() (int, bool) {
	if len(q.floors) == 0 {
		return 0, false
	}
	return q.floors[0], true
}

// PopNext removes and returns the floor Peek would return.
func (q *Queue) PopNext() (int, bool) {
	floor, ok := q.Peek()
	if ok {
		q.floors = q.floors[1:]
	}
	return floor, ok
}

// NextFrom returns the first queued floor at or ahead of floor in the
// queue's direction, without removing it.
func (q *Queue) NextFrom(floor int) (int, bool) {
	i, _ := q.search(floor)
	if i == len(q.floors) {
		return 0, false
	}
	return q.floors[i], true
}

func (q *Queue) Len() int {
	return len(q.floors)
}

func (q *Queue) IsEmpty() bool {
	return len(q.floors) == 0
}

// Floors returns a copy of the queued floors in service order.
func (q *Queue) Floors() []int {
	return slices.Clone(q.floors)
}
