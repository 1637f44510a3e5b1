package tomasulo

import "sort"

// schedulingQueue is a tag-keyed, tag-ordered table of reservation
// stations. Go's standard library has no balanced-tree container, so
// this keeps the keys in an ascending sorted slice (binary search for
// lookup/insert/erase) backed by a plain map for the records themselves.
type schedulingQueue struct {
	tags     []uint32
	stations map[uint32]*ReservationStation
}

// newSchedulingQueue returns an empty scheduling queue.
func newSchedulingQueue() *schedulingQueue {
	return &schedulingQueue{stations: make(map[uint32]*ReservationStation)}
}

// Len returns the number of entries currently queued.
func (q *schedulingQueue) Len() int {
	return len(q.tags)
}

// Insert adds rs, keyed by rs.Tag. Tags are assigned in increasing order
// by fetch, so in practice this always appends; the binary search keeps
// the invariant explicit regardless.
func (q *schedulingQueue) Insert(rs *ReservationStation) {
	i := sort.Search(len(q.tags), func(i int) bool { return q.tags[i] >= rs.Tag })
	q.tags = append(q.tags, 0)
	copy(q.tags[i+1:], q.tags[i:])
	q.tags[i] = rs.Tag
	q.stations[rs.Tag] = rs
}

// Get returns the station keyed by tag, or nil if absent.
func (q *schedulingQueue) Get(tag uint32) *ReservationStation {
	return q.stations[tag]
}

// Erase removes the station keyed by tag, if present.
func (q *schedulingQueue) Erase(tag uint32) {
	i := sort.Search(len(q.tags), func(i int) bool { return q.tags[i] >= tag })
	if i < len(q.tags) && q.tags[i] == tag {
		q.tags = append(q.tags[:i], q.tags[i+1:]...)
	}
	delete(q.stations, tag)
}

// Each calls fn once per entry, in ascending tag order - the priority
// order used by every downstream stage for FU and CDB allocation.
func (q *schedulingQueue) Each(fn func(rs *ReservationStation)) {
	for _, tag := range q.tags {
		fn(q.stations[tag])
	}
}
