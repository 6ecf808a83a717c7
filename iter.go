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

import (
	"iter"
	"slices"
)

// The sequences below walk the arrays in index order each time they are
// ranged over. The table must not be mutated while a sequence is in use.

// IterKeys returns a sequence of every k1 in the table in outer array order.
func (t *Table[K1, K2, V]) IterKeys() iter.Seq[K1] {
	return func(yield func(K1) bool) {
		buckets := t.buckets
		for i := range buckets {
			if b := &buckets[i]; b.occupied && !yield(b.key) {
				return
			}
		}
	}
}

// IterBucketKeys returns a sequence of every k2 stored under k1 in inner
// array order. The sequence is empty if k1 is absent.
func (t *Table[K1, K2, V]) IterBucketKeys(k1 K1) iter.Seq[K2] {
	return func(yield func(K2) bool) {
		b := t.lookupBucket(k1)
		if b == nil {
			return
		}
		for _, s := range b.slots {
			if s.full && !yield(s.key) {
				return
			}
		}
	}
}

// IterValues returns a sequence of every value in the table, bucket by
// bucket in outer array order.
func (t *Table[K1, K2, V]) IterValues() iter.Seq[V] {
	return func(yield func(V) bool) {
		t.All(func(_ K1, _ K2, v V) bool {
			return yield(v)
		})
	}
}

// IterBucketValues returns a sequence of every value stored under k1 in
// inner array order. The sequence is empty if k1 is absent.
func (t *Table[K1, K2, V]) IterBucketValues(k1 K1) iter.Seq[V] {
	return func(yield func(V) bool) {
		b := t.lookupBucket(k1)
		if b == nil {
			return
		}
		for _, s := range b.slots {
			if s.full && !yield(s.value) {
				return
			}
		}
	}
}

// All calls yield sequentially for each entry in the table. If yield returns
// false, iteration stops.
func (t *Table[K1, K2, V]) All(yield func(k1 K1, k2 K2, value V) bool) {
	buckets := t.buckets
	for i := range buckets {
		b := &buckets[i]
		if !b.occupied {
			continue
		}
		for _, s := range b.slots {
			if s.full && !yield(b.key, s.key, s.value) {
				return
			}
		}
	}
}

// Keys returns every k1 in the table.
func (t *Table[K1, K2, V]) Keys() []K1 {
	return slices.Collect(t.IterKeys())
}

// BucketKeys returns every k2 stored under k1, or nothing if k1 is absent.
func (t *Table[K1, K2, V]) BucketKeys(k1 K1) []K2 {
	return slices.Collect(t.IterBucketKeys(k1))
}

// Values returns every value in the table.
func (t *Table[K1, K2, V]) Values() []V {
	return slices.Collect(t.IterValues())
}

// BucketValues returns every value stored under k1, or nothing if k1 is
// absent.
func (t *Table[K1, K2, V]) BucketValues(k1 K1) []V {
	return slices.Collect(t.IterBucketValues(k1))
}
