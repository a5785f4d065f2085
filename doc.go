// Package solist implements a lock-free, dynamically resizable hash table
// keyed by uint64, based on the split-ordered list design of Shalev &
// Shavit ("Split-Ordered Lists: Lock-Free Extensible Hash Tables").
//
// the table is one global, sorted, singly-linked list holding both real
// nodes (user key/value pairs) and dummy nodes (bucket anchors):
//
// ```
//
//	dummy(0) -> real -> real -> dummy(2) -> real -> dummy(1) -> real -> ...
//
// ```
//
// sort order is the bit-reversal of a scrambled key, tagged so that a
// bucket's dummy always sorts immediately before the real nodes that
// belong to it. reversing the bits means a bucket can be split by
// inserting a new dummy between two existing nodes: nothing already in
// the list has to move.
//
// alongside the list sits a doubling index of bucket pointers. each slot
// is either uninitialized or an unmarked pointer straight into the list,
// at the dummy node for that bucket. the index only ever grows — new
// segments are published with a single CAS and existing ones are never
// moved or resized, so a reader holding a stale size() still lands on a
// correct, if coarser, bucket.
//
// insert, lookup and remove never take a lock. removal is logical first
// (a CAS-swapped mark on the node's own next pointer) and physical second
// (an unlink any concurrent walker is free to help with); see list.go.
//
// reclamation: this package relies on the Go garbage collector. a node
// that has been physically unlinked may still be reachable from a stale
// local pointer in a paused goroutine; the GC keeps it alive until that
// goroutine is done with it, which is exactly the "no use-after-free for
// any pointer dereferenced during an in-progress operation" contract a
// non-GC'd port would need hazard pointers or epochs to provide.
package solist
