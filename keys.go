package solist

import "math/bits"

// scramble mixes an arbitrary uint64 key into a 63-bit value (the top bit
// is always clear) with good bucket-distribution properties. it is a
// straight port of the Jenkins lookup3-family "hashword" mix: three
// 32-bit state words seeded from the key's length, folded through a
// fixed sequence of xor/subtract/rotate steps. it is deterministic and
// pure — same key always scrambles to the same value — which is all the
// table requires of it.
//
// this is the one piece callers might reasonably want to override (for
// key-domain separation, or to avoid the fixed seed entirely); see
// WithScramble.
func scramble(key uint64) uint64 {
	const seed = uint32(0x32533d0c) + 8 // length of a uint64, in bytes

	a := seed
	b := seed
	c := seed + 47

	b += uint32(byte(key>>56)) << 24
	b += uint32(byte(key>>48)) << 16
	b += uint32(byte(key>>40)) << 8
	b += uint32(byte(key >> 32))
	a += uint32(byte(key>>24)) << 24
	a += uint32(byte(key>>16)) << 16
	a += uint32(byte(key>>8)) << 8
	a += uint32(byte(key))

	c ^= b
	c -= bits.RotateLeft32(b, 14)
	a ^= c
	a -= bits.RotateLeft32(c, 11)
	b ^= a
	b -= bits.RotateLeft32(a, 25)
	c ^= b
	c -= bits.RotateLeft32(b, 16)
	a ^= c
	a -= bits.RotateLeft32(c, 4)
	b ^= a
	b -= bits.RotateLeft32(a, 14)
	c ^= b
	c -= bits.RotateLeft32(b, 24)

	mixed := uint64(c) | uint64(b)<<32
	return mixed &^ (uint64(1) << 63)
}

// realSOK returns the split-ordered key for a real (user) node: the
// scrambled key, tagged with its MSB before bit-reversal so the reversed
// form always has its low bit set. That low bit is how a node tells
// itself apart from a dummy without a separate field.
func realSOK(scrambled uint64) uint64 {
	return bits.Reverse64(scrambled | (uint64(1) << 63))
}

// dummySOK returns the split-ordered key for bucket b's anchor: the raw
// bucket index, untagged, bit-reversed. Its low bit is always clear,
// which places it strictly before any real node that hashes to b or any
// descendant bucket that later splits off it.
func dummySOK(bucket uint64) uint64 {
	return bits.Reverse64(bucket)
}

// parentBucket returns b with its highest set bit cleared: the bucket
// whose dummy must exist, and be reachable, before b's own dummy can be
// spliced into the list.
func parentBucket(b uint64) uint64 {
	if b == 0 {
		return 0
	}
	highest := uint64(1) << (bits.Len64(b) - 1)
	return b &^ highest
}
