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

import "github.com/cockroachdb/errors"

const (
	hashBase = 31
	hashSeed = 31415
)

// hash maps key into [0, capacity) with a polynomial hash over its runes.
// The multiplier starts at hashSeed and is multiplied by hashBase modulo
// capacity-1 after every rune, so capacity must be at least 2.
//
// The result depends on capacity and must be recomputed after a resize.
func hash[K ~string](key K, capacity int) int {
	n := uint64(capacity)
	var value uint64
	a := uint64(hashSeed)
	for _, r := range string(key) {
		value = (uint64(r) + a*value) % n
		a = a * hashBase % (n - 1)
	}
	return int(value)
}

// linearProbe resolves (k1, k2) to a bucket index i and a slot index j.
//
// If insert is false the pair must be present and the error otherwise wraps
// ErrNotFound. If insert is true the result is either the slot already
// holding the pair or the empty slot where it belongs, claiming an
// unoccupied bucket if k1 is absent. The error then wraps ErrTableFull if
// no such slot exists.
func (t *Table[K1, K2, V]) linearProbe(k1 K1, k2 K2, insert bool) (i, j int, err error) {
	i, err = t.probeBucket(k1, insert)
	if err != nil {
		return 0, 0, err
	}
	j, ok := t.buckets[i].probe(k2, insert)
	if !ok {
		if insert {
			return 0, 0, errors.Wrapf(ErrTableFull, "bucket %q has no free slot for %q", k1, k2)
		}
		return 0, 0, errors.Wrapf(ErrNotFound, "(%q, %q)", k1, k2)
	}
	return i, j, nil
}

// probeBucket walks the outer array from hash(k1) looking for the bucket
// holding k1. An unoccupied bucket ends the walk: it is returned when
// inserting and means k1 is absent otherwise.
func (t *Table[K1, K2, V]) probeBucket(k1 K1, insert bool) (int, error) {
	n := len(t.buckets)
	i := hash(k1, n)
	for range n {
		b := &t.buckets[i]
		if !b.occupied {
			if insert {
				return i, nil
			}
			return 0, errors.Wrapf(ErrNotFound, "top key %q", k1)
		}
		if b.key == k1 {
			return i, nil
		}
		i = (i + 1) % n
	}
	if insert {
		return 0, errors.Wrapf(ErrTableFull, "no free bucket for %q", k1)
	}
	return 0, errors.Wrapf(ErrNotFound, "top key %q", k1)
}

// probe walks the inner array from hash(k2) looking for k2. An empty slot
// ends the walk: it is returned when inserting and means k2 is absent
// otherwise. ok is false if the walk fails.
func (b *bucket[K1, K2, V]) probe(k2 K2, insert bool) (j int, ok bool) {
	n := len(b.slots)
	j = hash(k2, n)
	for range n {
		s := &b.slots[j]
		if !s.full {
			return j, insert
		}
		if s.key == k2 {
			return j, true
		}
		j = (j + 1) % n
	}
	return 0, false
}
