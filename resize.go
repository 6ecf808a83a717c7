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

package doublekey

import "go.uber.org/zap"

// nextSizeIndex returns the index of the first entry after cur in sizes that
// holds used entries at a load factor of at most 1/2. If no entry is large
// enough the last entry is returned. ok is false if cur is already the last
// entry.
func nextSizeIndex(sizes []int, cur, used int) (next int, ok bool) {
	if cur+1 >= len(sizes) {
		return cur, false
	}
	for next = cur + 1; next < len(sizes)-1; next++ {
		if used*2 <= sizes[next] {
			break
		}
	}
	return next, true
}

// resizeBucket grows the inner array of bucket i and reinserts its entries.
// The rest of the table is untouched.
func (t *Table[K1, K2, V]) resizeBucket(i int) {
	b := &t.buckets[i]
	next, ok := nextSizeIndex(t.innerSizes, b.sizeIndex, b.used)
	if !ok {
		t.log.Debug("inner size schedule exhausted",
			zap.Int("bucket", i), zap.Int("capacity", len(b.slots)), zap.Int("entries", b.used))
		return
	}

	oldSlots := b.slots
	b.sizeIndex = next
	b.slots = make([]slot[K2, V], t.innerSizes[next])
	b.used = 0
	for _, s := range oldSlots {
		if !s.full {
			continue
		}
		j, _ := b.probe(s.key, true)
		b.slots[j] = s
		b.used++
	}

	t.log.Debug("resized bucket",
		zap.Int("bucket", i), zap.Int("from", len(oldSlots)), zap.Int("to", len(b.slots)),
		zap.Int("entries", b.used))
}

// resize grows the outer array and reinserts every entry. Every bucket is
// reinserted with an inner array at its previous capacity so a resize never
// undoes a bucket resize.
func (t *Table[K1, K2, V]) resize() {
	next, ok := nextSizeIndex(t.sizes, t.sizeIndex, t.used)
	if !ok {
		t.log.Debug("outer size schedule exhausted",
			zap.Int("capacity", len(t.buckets)), zap.Int("buckets", t.used))
		return
	}

	oldBuckets := t.buckets
	t.sizeIndex = next
	t.buckets = t.makeBuckets(t.sizes[next])
	t.used = 0
	t.count = 0

	for k := range oldBuckets {
		ob := &oldBuckets[k]
		if !ob.occupied {
			continue
		}
		// The new array is larger than the old one so there is always an
		// unoccupied bucket to claim.
		i, _ := t.probeBucket(ob.key, true)
		b := &t.buckets[i]
		b.key = ob.key
		b.occupied = true
		if b.sizeIndex != ob.sizeIndex {
			b.sizeIndex = ob.sizeIndex
			b.slots = make([]slot[K2, V], t.innerSizes[ob.sizeIndex])
		}
		t.used++

		for _, s := range ob.slots {
			if !s.full {
				continue
			}
			j, _ := b.probe(s.key, true)
			b.slots[j] = s
			b.used++
			t.count++
		}
	}

	t.log.Debug("resized table",
		zap.Int("from", len(oldBuckets)), zap.Int("to", len(t.buckets)),
		zap.Int("buckets", t.used), zap.Int("entries", t.count))
}
