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
	"slices"

	"go.uber.org/zap"
)

// DefaultSizes is the size schedule used when none is specified. The entries
// are primes, each roughly double the previous one.
var DefaultSizes = []int{
	5, 13, 29, 53, 97, 193, 389, 769, 1543, 3079, 6151, 12289, 24593, 49157,
	98317, 196613, 393241, 786433, 1572869,
}

type config struct {
	sizes      []int
	innerSizes []int
	log        *zap.Logger
}

// Option configures a Table while it is being created.
type Option interface {
	apply(c *config)
}

type sizesOption []int

func (op sizesOption) apply(c *config) {
	c.sizes = op
}

// WithSizes specifies the outer size schedule: the capacities the outer
// array moves through as the number of top-level keys grows. The schedule
// must be strictly ascending and every entry must be at least 2. A resize
// may skip entries that would leave the table more than half full.
func WithSizes(sizes ...int) Option {
	return sizesOption(slices.Clone(sizes))
}

type innerSizesOption []int

func (op innerSizesOption) apply(c *config) {
	c.innerSizes = op
}

// WithInnerSizes specifies the inner size schedule, consulted separately by
// each bucket. It defaults to the outer schedule. As with WithSizes, a
// bucket resize may skip entries that would leave it more than half full.
func WithInnerSizes(sizes ...int) Option {
	return innerSizesOption(slices.Clone(sizes))
}

type loggerOption struct {
	log *zap.Logger
}

func (op loggerOption) apply(c *config) {
	if op.log != nil {
		c.log = op.log
	}
}

// WithLogger specifies the logger resize events are reported to. By default
// nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return loggerOption{log}
}

func mustValidSchedule(name string, sizes []int) {
	if len(sizes) == 0 {
		panic(fmt.Sprintf("doublekey: empty %s size schedule", name))
	}
	for i, n := range sizes {
		if n < 2 {
			panic(fmt.Sprintf("doublekey: %s size schedule entry %d is %d, must be at least 2", name, i, n))
		}
		if i > 0 && n <= sizes[i-1] {
			panic(fmt.Sprintf("doublekey: %s size schedule is not strictly ascending at entry %d: %v", name, i, sizes))
		}
	}
}
