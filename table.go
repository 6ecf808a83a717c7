// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package doublekey implements a two-level open-addressing hash table keyed
// by a pair of strings (k1, k2).
//
// # Layout
//
// The outer array holds buckets keyed by k1. Every bucket owns an
// independent inner array of slots keyed by k2. Both arrays are always fully
// allocated: an unoccupied bucket is a placeholder whose inner array exists
// but holds no entries and whose key is absent.
//
//	outer (capacity 5)
//	+---+
//	| 0 | --> k1="x" --> [ -, (p2,20), -, (p1,10), - ]
//	+---+
//	| 1 | --> (empty) --> [ -, -, -, -, - ]
//	+---+
//	| 2 | --> k1="y" --> [ (p1,30), -, -, -, - ]
//	+---+
//	| 3 | ...
//	+---+
//
// # Probing
//
// The home position of k1 is hash(k1) mod the outer capacity and the home
// position of k2 is hash(k2) mod the capacity of the bucket that holds k1.
// Both hashes are polynomial string hashes over the runes of the key (see
// hash). Collisions are resolved by linear probing at each level
// independently: the outer probe walks forward (wrapping) until it finds k1
// or an unoccupied bucket, and the inner probe walks forward (wrapping)
// within that one bucket until it finds k2 or an empty slot.
//
// # Deletion
//
// There are no tombstones. Deleting an entry empties its slot and then
// compacts the rest of the cluster: every following full slot up to the
// next empty one is lifted and reinserted, which may move it backwards into
// the hole. If the deletion leaves the bucket with no entries, the bucket's
// key is cleared and the outer cluster that follows it is compacted the
// same way, moving whole buckets. This keeps the probe invariant that no
// empty slot separates an entry from its home position, so a lookup can
// stop at the first empty slot.
//
// # Growth
//
// The load factor ceiling is 1/2 at both levels. After an insert, if the
// bucket just written holds more than half its capacity the bucket alone is
// resized to a larger entry of the inner size schedule. Then, if more than
// half the outer buckets are occupied, the whole outer array is resized to a
// larger entry of the outer size schedule and every bucket is reinserted.
// Each bucket keeps its own position in the inner schedule across outer
// resizes. When a schedule is exhausted the table is left over-loaded
// rather than failing the insert.
package doublekey

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// slot holds a k2 key and its value.
type slot[K ~string, V any] struct {
	key   K
	value V
	full  bool
}

// bucket pairs a k1 key with an inner table. The inner table is allocated
// even while the bucket is unoccupied.
type bucket[K1, K2 ~string, V any] struct {
	key K1
	// occupied is set iff key is present, which holds iff used > 0.
	occupied bool
	// sizeIndex is this bucket's position in the inner size schedule.
	// Buckets grow independently so it differs between buckets.
	sizeIndex int
	// The number of full slots.
	used  int
	slots []slot[K2, V]
}

// Table is a hash table from (k1, k2) key pairs to values.
//
// A Table is NOT goroutine-safe.
type Table[K1, K2 ~string, V any] struct {
	sizes      []int
	innerSizes []int
	log        *zap.Logger
	// buckets has length sizes[sizeIndex].
	buckets   []bucket[K1, K2, V]
	sizeIndex int
	// The number of occupied buckets.
	used int
	// The number of entries across all buckets.
	count int
}

// New constructs an empty Table. Without options the outer and inner size
// schedules are both DefaultSizes.
func New[K1, K2 ~string, V any](options ...Option) *Table[K1, K2, V] {
	c := config{
		sizes: DefaultSizes,
		log:   zap.NewNop(),
	}
	for _, op := range options {
		op.apply(&c)
	}
	if c.innerSizes == nil {
		c.innerSizes = c.sizes
	}
	mustValidSchedule("outer", c.sizes)
	mustValidSchedule("inner", c.innerSizes)

	t := &Table[K1, K2, V]{
		sizes:      slices.Clone(c.sizes),
		innerSizes: slices.Clone(c.innerSizes),
		log:        c.log,
	}
	t.buckets = t.makeBuckets(t.sizes[0])
	t.checkInvariants()
	return t
}

// Get returns the value stored for (k1, k2). The error wraps ErrNotFound if
// the pair is absent.
func (t *Table[K1, K2, V]) Get(k1 K1, k2 K2) (V, error) {
	i, j, err := t.linearProbe(k1, k2, false)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.buckets[i].slots[j].value, nil
}

// Contains reports whether (k1, k2) is present.
func (t *Table[K1, K2, V]) Contains(k1 K1, k2 K2) bool {
	_, _, err := t.linearProbe(k1, k2, false)
	return err == nil
}

// Set stores value for (k1, k2), overwriting the value of an existing entry
// in place. The error wraps ErrTableFull if there is no free slot and the
// relevant size schedule is exhausted; the table is unchanged in that case.
func (t *Table[K1, K2, V]) Set(k1 K1, k2 K2, value V) error {
	i, j, err := t.linearProbe(k1, k2, true)
	if err != nil {
		return err
	}

	b := &t.buckets[i]
	s := &b.slots[j]
	if s.full {
		s.value = value
		t.checkInvariants()
		return nil
	}

	if !b.occupied {
		b.key = k1
		b.occupied = true
		t.used++
	}
	*s = slot[K2, V]{key: k2, value: value, full: true}
	b.used++
	t.count++

	if b.used*2 > len(b.slots) {
		t.resizeBucket(i)
	}
	if t.used*2 > len(t.buckets) {
		t.resize()
	}
	t.checkInvariants()
	return nil
}

// Delete removes (k1, k2). The error wraps ErrNotFound if the pair is
// absent, in which case nothing is modified. Deleting the last entry of a
// bucket removes k1 from the table.
func (t *Table[K1, K2, V]) Delete(k1 K1, k2 K2) error {
	i, j, err := t.linearProbe(k1, k2, false)
	if err != nil {
		return err
	}

	b := &t.buckets[i]
	b.remove(j)
	t.count--

	if b.used == 0 {
		var zero K1
		b.key = zero
		b.occupied = false
		t.used--
		t.compact(i)
	}
	t.checkInvariants()
	return nil
}

// Len returns the number of entries across all buckets.
func (t *Table[K1, K2, V]) Len() int {
	return t.count
}

// TableSize returns the capacity of the outer array.
func (t *Table[K1, K2, V]) TableSize() int {
	return len(t.buckets)
}

// BucketSize returns the capacity of the inner array owned by k1's bucket,
// or false if k1 is not present.
func (t *Table[K1, K2, V]) BucketSize(k1 K1) (int, bool) {
	b := t.lookupBucket(k1)
	if b == nil {
		return 0, false
	}
	return len(b.slots), true
}

// Clear removes every entry. The outer capacity and the capacity of every
// inner array are retained.
func (t *Table[K1, K2, V]) Clear() {
	for i := range t.buckets {
		b := &t.buckets[i]
		clear(b.slots)
		var zero K1
		b.key = zero
		b.occupied = false
		b.used = 0
	}
	t.used = 0
	t.count = 0
	t.checkInvariants()
}

// makeBuckets allocates n placeholder buckets, each with an inner array at
// the start of the inner schedule.
func (t *Table[K1, K2, V]) makeBuckets(n int) []bucket[K1, K2, V] {
	buckets := make([]bucket[K1, K2, V], n)
	for i := range buckets {
		buckets[i].slots = make([]slot[K2, V], t.innerSizes[0])
	}
	return buckets
}

// lookupBucket returns the bucket holding k1, or nil.
func (t *Table[K1, K2, V]) lookupBucket(k1 K1) *bucket[K1, K2, V] {
	i, err := t.probeBucket(k1, false)
	if err != nil {
		return nil
	}
	return &t.buckets[i]
}

// remove empties slot j and reinserts the rest of its cluster so that no
// entry is left behind a hole.
func (b *bucket[K1, K2, V]) remove(j int) {
	n := len(b.slots)
	b.slots[j] = slot[K2, V]{}
	b.used--

	for k := (j + 1) % n; b.slots[k].full; k = (k + 1) % n {
		s := b.slots[k]
		b.slots[k] = slot[K2, V]{}
		dst, _ := b.probe(s.key, true)
		b.slots[dst] = s
	}
}

// compact reinserts the outer cluster following the just-vacated bucket i.
// Buckets move whole: their inner positions depend only on their own
// capacity. The placeholder left at the destination takes the moved
// bucket's old position.
func (t *Table[K1, K2, V]) compact(i int) {
	n := len(t.buckets)
	for k := (i + 1) % n; t.buckets[k].occupied; k = (k + 1) % n {
		t.buckets[k].occupied = false
		dst, err := t.probeBucket(t.buckets[k].key, true)
		t.buckets[k].occupied = true
		if err != nil {
			// Bucket i is unoccupied so there is always a destination.
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "compact(%d): no destination for bucket %d", i, k))
		}
		if dst != k {
			t.buckets[dst], t.buckets[k] = t.buckets[k], t.buckets[dst]
		}
	}
}
