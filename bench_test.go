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
	"io"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"github.com/stretchr/testify/require"
)

func BenchmarkTableIter(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapIter))
	b.Run("impl=doubleKeyTable", benchSizes(benchmarkTableIter))
}

func BenchmarkTableGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetHit))
	b.Run("impl=doubleKeyTable", benchSizes(benchmarkTableGetHit))
}

func BenchmarkTableGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetMiss))
	b.Run("impl=doubleKeyTable", benchSizes(benchmarkTableGetMiss))
}

func BenchmarkTableSetGrow(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapSetGrow))
	b.Run("impl=doubleKeyTable", benchSizes(benchmarkTableSetGrow))
}

func BenchmarkTableSetDelete(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapSetDelete))
	b.Run("impl=doubleKeyTable", benchSizes(benchmarkTableSetDelete))
}

// fanouts is the number of k2 keys per k1 key.
var fanouts = []int{1, 8, 64}

func benchSizes(f func(b *testing.B, keys []pair)) func(*testing.B) {
	var cases = []int{
		64,
		512,
		4096,
		1 << 15,
	}

	return func(b *testing.B) {
		for _, fanout := range fanouts {
			for _, n := range cases {
				b.Run(fmt.Sprintf("fanout=%d/len=%d", fanout, n), func(b *testing.B) {
					f(b, genKeys(0, n, fanout))
				})
			}
		}
	}
}

func genKeys(start, end, fanout int) []pair {
	keys := make([]pair, end-start)
	for i := range keys {
		k := start + i
		keys[i] = pair{strconv.Itoa(k / fanout), strconv.Itoa(k % fanout)}
	}
	return keys
}

func benchmarkRuntimeMapIter(b *testing.B, keys []pair) {
	m := make(map[pair]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	b.ResetTimer()
	var tmp int
	for i := 0; i < b.N; i++ {
		for _, v := range m {
			tmp += v
		}
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, tmp)
}

func benchmarkTableIter(b *testing.B, keys []pair) {
	cs := perfbench.Open(b)
	m := New[string, string, int]()
	for i, k := range keys {
		_ = m.Set(k.k1, k.k2, i)
	}
	cs.Reset()
	b.ResetTimer()
	var tmp int
	for i := 0; i < b.N; i++ {
		for v := range m.IterValues() {
			tmp += v
		}
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, tmp)
}

func benchmarkRuntimeMapGetHit(b *testing.B, keys []pair) {
	m := make(map[pair]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m[keys[i%len(keys)]]
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkTableGetHit(b *testing.B, keys []pair) {
	cs := perfbench.Open(b)
	m := New[string, string, int]()
	for i, k := range keys {
		_ = m.Set(k.k1, k.k2, i)
	}
	cs.Reset()
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		k := keys[i%len(keys)]
		ok = m.Contains(k.k1, k.k2)
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapGetMiss(b *testing.B, keys []pair) {
	m := make(map[pair]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	miss := genKeys(-len(keys), 0, 1)
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m[miss[i%len(miss)]]
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkTableGetMiss(b *testing.B, keys []pair) {
	cs := perfbench.Open(b)
	m := New[string, string, int]()
	for i, k := range keys {
		_ = m.Set(k.k1, k.k2, i)
	}
	miss := genKeys(-len(keys), 0, 1)
	cs.Reset()
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		k := miss[i%len(miss)]
		ok = m.Contains(k.k1, k.k2)
	}
	b.StopTimer()
	cs.Stop()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapSetGrow(b *testing.B, keys []pair) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[pair]int)
		for j, k := range keys {
			m[k] = j
		}
	}
}

func benchmarkTableSetGrow(b *testing.B, keys []pair) {
	cs := perfbench.Open(b)
	cs.Reset()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := New[string, string, int]()
		for j, k := range keys {
			_ = m.Set(k.k1, k.k2, j)
		}
	}
	b.StopTimer()
	cs.Stop()
}

func benchmarkRuntimeMapSetDelete(b *testing.B, keys []pair) {
	m := make(map[pair]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(keys)
		delete(m, keys[j])
		m[keys[j]] = j
	}
}

func benchmarkTableSetDelete(b *testing.B, keys []pair) {
	cs := perfbench.Open(b)
	m := New[string, string, int]()
	for i, k := range keys {
		_ = m.Set(k.k1, k.k2, i)
	}
	cs.Reset()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(keys)
		k := keys[j]
		_ = m.Delete(k.k1, k.k2)
		_ = m.Set(k.k1, k.k2, j)
	}
	b.StopTimer()
	cs.Stop()
}

// TestBenchmarks runs each table benchmark for a small key set so that the
// counter wiring is exercised by go test.
func TestBenchmarks(t *testing.T) {
	benchmarks := map[string]func(b *testing.B, keys []pair){
		"iter":       benchmarkTableIter,
		"get-hit":    benchmarkTableGetHit,
		"get-miss":   benchmarkTableGetMiss,
		"set-grow":   benchmarkTableSetGrow,
		"set-delete": benchmarkTableSetDelete,
	}
	keys := genKeys(0, 64, 8)
	for name, f := range benchmarks {
		t.Run(name, func(t *testing.T) {
			r := testing.Benchmark(func(b *testing.B) {
				f(b, keys)
			})
			require.Positive(t, r.N)
		})
	}
}
