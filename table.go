package solist

import (
	"fmt"
	"sync/atomic"
)

// Table is a lock-free, dynamically resizable hash table keyed by
// uint64, implemented as one split-ordered list (list.go) addressed
// through a doubling bucket index (buckets.go). See doc.go for the
// overall design.
//
// The zero value is not usable; construct with New.
type Table[V any] struct {
	buckets  *bucketIndex[V]
	root     *node[V] // bucket 0's dummy, sok == 0; the list's true head
	count    atomic.Int64
	maxLoad  int64
	scramble func(uint64) uint64
}

// New returns an empty table: size() == 2, bucket 0 initialized, count()
// == 0.
func New[V any](opts ...Option[V]) *Table[V] {
	var zero V
	t := &Table[V]{
		buckets:  newBucketIndex[V](),
		maxLoad:  defaultMaxLoad,
		scramble: scramble,
	}
	t.root = newNode[V](0, zero)
	t.buckets.at(0).Store(t.root)
	for _, o := range opts {
		o.apply(t)
	}
	return t
}

// initializeBucket returns bucket b's dummy node, publishing it on first
// touch. It recurses on parentBucket(b) first: a bucket's dummy can only
// be spliced into the list after its parent's dummy already is, since
// that's where it gets inserted relative to.
func (t *Table[V]) initializeBucket(b uint64) *node[V] {
	if b == 0 {
		return t.root
	}

	slot := t.buckets.at(b)
	if existing := slot.Load(); existing != nil {
		return existing
	}

	parent := t.initializeBucket(parentBucket(b))

	var zero V
	dummy := newNode[V](dummySOK(b), zero)
	if ok, existing := insertAfter(parent, dummy); !ok {
		// Another thread's dummy for this same bucket won the race.
		// It is obligated to publish the slot unconditionally, so
		// the wait here is bounded by its progress alone.
		for {
			if cur := slot.Load(); cur == existing {
				return cur
			}
		}
	}
	slot.CompareAndSwap(nil, dummy)
	return dummy
}

// Put inserts key/value if key is not already present. It returns false,
// leaving the table unchanged, if key already has a live entry.
func (t *Table[V]) Put(key uint64, value V) bool {
	h := t.scramble(key)
	size := t.buckets.size()
	b := h % size
	start := t.initializeBucket(b)

	n := newNode[V](realSOK(h), value)
	if ok, _ := insertAfter(start, n); !ok {
		return false
	}

	newCount := t.count.Add(1)
	if newCount > t.maxLoad*int64(size) {
		t.buckets.doubleSize(size)
	}
	return true
}

// Get returns key's value and true if key has a live entry, or the zero
// value and false otherwise.
func (t *Table[V]) Get(key uint64) (V, bool) {
	h := t.scramble(key)
	b := h % t.buckets.size()
	start := t.initializeBucket(b)
	return findNode(start, realSOK(h))
}

// Remove deletes key's entry if one is live, returning whether it was.
func (t *Table[V]) Remove(key uint64) bool {
	h := t.scramble(key)
	b := h % t.buckets.size()
	start := t.initializeBucket(b)
	if !removeNode(start, realSOK(h)) {
		return false
	}
	t.count.Add(-1)
	return true
}

// Size returns the current number of addressable buckets.
func (t *Table[V]) Size() uint64 {
	return t.buckets.size()
}

// Count returns the approximate number of live entries. It can race with
// concurrent Put/Remove calls; treat it as a heuristic, not an exact
// snapshot.
func (t *Table[V]) Count() int64 {
	return t.count.Load()
}

// Close walks the list freeing every node and drops every published
// segment, making the table eligible for garbage collection. The caller
// must have sole ownership — concurrent Put/Get/Remove during Close are
// not safe, matching the "on sole ownership by one thread" destruction
// contract. The table must not be used afterward.
func (t *Table[V]) Close() {
	cur := t.root
	for cur != nil {
		link := cur.next.Load()
		cur.next.Store(nil)
		if link == nil {
			break
		}
		cur = link.next
	}
	for i := range t.buckets.segments {
		t.buckets.segments[i].Store(nil)
	}
	t.buckets.numPopulated.Store(0)
	t.count.Store(0)
	t.root = nil
}

// dump writes the SOL to stdout, one node per line, for interactive
// debugging. Not part of the table's contract and not called from
// anywhere but diagnostic tests.
func (t *Table[V]) dump() {
	fmt.Println("size", t.buckets.size())

	cur := t.root
	for cur != nil {
		var v string
		switch link := cur.next.Load(); {
		case cur.isDummy():
			v = ""
		case link.deleted:
			v = fmt.Sprintf("-%v", cur.value)
		default:
			v = fmt.Sprintf("+%v", cur.value)
		}
		fmt.Printf("%064b %v\n", cur.sok, v)
		cur = cur.next.Load().next
	}
}
