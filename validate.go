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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

func (t *Table[K1, K2, V]) checkInvariants() {
	if invariants {
		if err := t.validate(); err != nil {
			panic(fmt.Sprintf("%v\n%s", err, t.debugString()))
		}
	}
}

// validate walks the whole table and returns an error describing the first
// broken invariant it finds.
func (t *Table[K1, K2, V]) validate() error {
	if len(t.buckets) != t.sizes[t.sizeIndex] {
		return errors.Newf("invariant failed: outer capacity %d, expected %d",
			len(t.buckets), t.sizes[t.sizeIndex])
	}

	var used, count int
	for i := range t.buckets {
		b := &t.buckets[i]
		if len(b.slots) != t.innerSizes[b.sizeIndex] {
			return errors.Newf("invariant failed: bucket %d: capacity %d, expected %d",
				i, len(b.slots), t.innerSizes[b.sizeIndex])
		}

		var full int
		for j := range b.slots {
			s := &b.slots[j]
			if !s.full {
				continue
			}
			full++
			if !b.occupied {
				return errors.Newf("invariant failed: slot (%d, %d): %q present in unoccupied bucket", i, j, s.key)
			}
			// Every entry must be found by probing, at its own position.
			// This also rules out duplicates.
			pi, pj, err := t.linearProbe(b.key, s.key, false)
			if err != nil {
				return errors.Wrapf(err, "invariant failed: slot (%d, %d): (%q, %q) not found", i, j, b.key, s.key)
			}
			if pi != i || pj != j {
				return errors.Newf("invariant failed: slot (%d, %d): (%q, %q) found at (%d, %d)",
					i, j, b.key, s.key, pi, pj)
			}
		}

		if full != b.used {
			return errors.Newf("invariant failed: bucket %d: found %d full slots, but used count is %d",
				i, full, b.used)
		}
		if b.occupied != (full > 0) {
			return errors.Newf("invariant failed: bucket %d: occupied=%t with %d entries", i, b.occupied, full)
		}
		if b.used*2 > len(b.slots) && b.sizeIndex+1 < len(t.innerSizes) {
			return errors.Newf("invariant failed: bucket %d: %d entries exceed half of capacity %d",
				i, b.used, len(b.slots))
		}
		if b.occupied {
			used++
		}
		count += full
	}

	if used != t.used {
		return errors.Newf("invariant failed: found %d occupied buckets, but used count is %d", used, t.used)
	}
	if count != t.count {
		return errors.Newf("invariant failed: found %d entries, but count is %d", count, t.count)
	}
	if t.used*2 > len(t.buckets) && t.sizeIndex+1 < len(t.sizes) {
		return errors.Newf("invariant failed: %d occupied buckets exceed half of capacity %d",
			t.used, len(t.buckets))
	}
	return nil
}

func (t *Table[K1, K2, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d  count=%d\n", len(t.buckets), t.used, t.count)
	for i := range t.buckets {
		b := &t.buckets[i]
		if !b.occupied {
			fmt.Fprintf(&buf, "  %4d: empty [capacity=%d used=%d]\n", i, len(b.slots), b.used)
			continue
		}
		fmt.Fprintf(&buf, "  %4d: %q [capacity=%d used=%d h=%d]\n",
			i, b.key, len(b.slots), b.used, hash(b.key, len(t.buckets)))
		for j := range b.slots {
			if s := &b.slots[j]; s.full {
				fmt.Fprintf(&buf, "        %4d: %q=%v [h=%d]\n", j, s.key, s.value, hash(s.key, len(b.slots)))
			}
		}
	}
	return buf.String()
}
