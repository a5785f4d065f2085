package solist

import "sync/atomic"

// markedPtr is a single, immutable (pointer, mark) pair. A node's next
// field holds one behind an atomic.Pointer, so that marking a node
// deleted and changing where it points are always the same atomic
// operation — the Harris-Michael invariant this list depends on. This is
// the same trick java.util.concurrent's AtomicMarkableReference uses:
// wrap the pair in a small allocation and CAS the whole wrapper, rather
// than stealing a bit from the pointer itself (which needs the garbage
// collector's cooperation to do safely, and doesn't get it in Go).
type markedPtr[V any] struct {
	next    *node[V]
	deleted bool
}

// node is one entry in the split-ordered list: either a real (key,value)
// pair or a bucket dummy. sok's low bit tells the two apart (see
// realSOK/dummySOK) so no separate tag field is needed.
type node[V any] struct {
	sok   uint64
	value V
	next  atomic.Pointer[markedPtr[V]]
}

func newNode[V any](sok uint64, value V) *node[V] {
	n := &node[V]{sok: sok, value: value}
	n.next.Store(&markedPtr[V]{})
	return n
}

func (n *node[V]) isDummy() bool {
	return n.sok&1 == 0
}

// searchWindow walks the list rooted at start looking for sok, helping
// unlink any logically-deleted node it passes over. It returns prev (a
// live node with prev.sok < sok, or start itself), cur (prev's current
// successor, with cur == nil or cur.sok >= sok), and prevLink (the exact
// markedPtr snapshot backing prev.next at the moment cur was read, for
// use in a compare-and-swap).
//
// Every retry is preceded either by a successful helping-unlink (the
// list got shorter) or by losing a CAS to some other thread's completed
// operation, so the walk always makes monotone progress.
func searchWindow[V any](start *node[V], sok uint64) (prev, cur *node[V], prevLink *markedPtr[V]) {
retry:
	prev = start
	prevLink = prev.next.Load()
	cur = prevLink.next
	for {
		if cur == nil {
			return prev, nil, prevLink
		}
		curLink := cur.next.Load()
		if curLink.deleted {
			spliced := &markedPtr[V]{next: curLink.next}
			if !prev.next.CompareAndSwap(prevLink, spliced) {
				goto retry
			}
			prevLink = spliced
			cur = spliced.next
			continue
		}
		if cur.sok >= sok {
			return prev, cur, prevLink
		}
		prev, prevLink, cur = cur, curLink, curLink.next
	}
}

// insertAfter splices n into the list rooted at start, in sorted
// position by n.sok. It returns (true, nil) on success, or (false,
// existing) if a live node with the same sok is already present; on
// failure n is never linked in and stays the caller's to reuse or drop.
func insertAfter[V any](start, n *node[V]) (bool, *node[V]) {
	for {
		prev, cur, prevLink := searchWindow(start, n.sok)
		if cur != nil && cur.sok == n.sok {
			return false, cur
		}
		n.next.Store(&markedPtr[V]{next: cur})
		if prev.next.CompareAndSwap(prevLink, &markedPtr[V]{next: n}) {
			return true, nil
		}
	}
}

// findNode returns the value of the live node with the given sok, if
// any.
func findNode[V any](start *node[V], sok uint64) (value V, found bool) {
	_, cur, _ := searchWindow(start, sok)
	if cur != nil && cur.sok == sok {
		return cur.value, true
	}
	var zero V
	return zero, false
}

// removeNode logically deletes the live node with the given sok by
// CAS-marking its own next pointer, then makes a best-effort attempt at
// the physical unlink. Returns false if no live node with that sok
// exists. A lost physical-unlink race is not a failure: some later
// searchWindow call will help finish it.
func removeNode[V any](start *node[V], sok uint64) bool {
	for {
		prev, cur, prevLink := searchWindow(start, sok)
		if cur == nil || cur.sok != sok {
			return false
		}
		curLink := cur.next.Load()
		if curLink.deleted {
			return false
		}
		marked := &markedPtr[V]{next: curLink.next, deleted: true}
		if !cur.next.CompareAndSwap(curLink, marked) {
			continue
		}
		prev.next.CompareAndSwap(prevLink, &markedPtr[V]{next: marked.next})
		return true
	}
}
