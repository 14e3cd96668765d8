// Package xxh wraps github.com/cespare/xxhash/v2 for the fast distinct-value
// tracking container.Writer needs to populate the block header's chr_cnt
// hint.
package xxh

import "github.com/cespare/xxhash/v2"

// Sum64String returns the xxHash64 digest of s.
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// DistinctSet counts distinct strings seen via Add, using xxHash64 digests
// as the set key instead of the strings themselves. This trades an
// astronomically small false-dedup probability (two distinct reference
// names hashing to the same 64-bit digest) for an allocation-free key type,
// which matters because Add is called once per record in the hot encode
// path.
//
// container.Writer resets its DistinctSet after every block it flushes; the
// set does not accumulate across a whole file.
type DistinctSet struct {
	seen map[uint64]struct{}
}

// NewDistinctSet creates an empty DistinctSet.
func NewDistinctSet() *DistinctSet {
	return &DistinctSet{seen: make(map[uint64]struct{})}
}

// Add records s and reports whether it was not already present.
func (d *DistinctSet) Add(s string) bool {
	h := Sum64String(s)
	if _, ok := d.seen[h]; ok {
		return false
	}
	d.seen[h] = struct{}{}

	return true
}

// Count returns the number of distinct strings added so far.
func (d *DistinctSet) Count() int {
	return len(d.seen)
}

// Reset clears the set for reuse across blocks.
func (d *DistinctSet) Reset() {
	clear(d.seen)
}
