// Copyright 2025 go-highway Authors
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

package algo

import "github.com/ajroetker/go-tokensample/hwy"

// PrefixSum computes the inclusive prefix sum in place.
// Result[i] = data[0] + data[1] + ... + data[i]
//
// Addition order is PrefixSumVec's fixed Hillis-Steele sweep within each
// full tile plus a sequential scalar carry across tiles, so rounding depends
// on the vector width and can differ in the low bits from
// DeterministicPrefixSum's fixed tree.
func PrefixSum[T hwy.Integers | hwy.FloatsNative](data []T) {
	n := len(data)
	if n == 0 {
		return
	}

	lanes := hwy.MaxLanes[T]()
	carry := T(0)
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(data[i:])
		prefixed := PrefixSumVec(v)
		prefixed = hwy.Add(prefixed, hwy.Set[T](carry))
		hwy.Store(prefixed, data[i:])
		carry = hwy.GetLane(prefixed, lanes-1)
	}

	for ; i < n; i++ {
		carry += data[i]
		data[i] = carry
	}
}

// PrefixSumVec computes the inclusive prefix sum within a single vector
// using the Hillis-Steele algorithm.
//
// For a vector [a, b, c, d]:
//   - Step 1: shift by 1, add -> [a, a+b, b+c, c+d]
//   - Step 2: shift by 2, add -> [a, a+b, a+b+c, a+b+c+d]
//
// Steps are explicit (not a loop) so the compiler can unroll them; the
// algorithm generalizes to any power-of-2 vector width.
func PrefixSumVec[T hwy.Integers | hwy.FloatsNative](v hwy.Vec[T]) hwy.Vec[T] {
	n := v.NumLanes()

	if n >= 2 {
		v = hwy.Add(v, hwy.SlideUpLanes(v, 1))
	}
	if n >= 4 {
		v = hwy.Add(v, hwy.SlideUpLanes(v, 2))
	}
	if n >= 8 {
		v = hwy.Add(v, hwy.SlideUpLanes(v, 4))
	}
	if n >= 16 {
		v = hwy.Add(v, hwy.SlideUpLanes(v, 8))
	}

	return v
}

// DeterministicPrefixSum computes the inclusive prefix sum in place using a
// fixed Blelloch-style up-sweep/down-sweep tree keyed only on (tile index,
// lane index), never on the number of tiles or the width the host scheduler
// chose for this run. Two invocations on identical data, even from
// different batch sizes or concurrent callers, associate additions in
// exactly the same order and therefore produce bit-identical output.
//
// It is slower than PrefixSum because every tile pays for the full
// up-sweep/down-sweep instead of a single running carry; it exists purely
// to back the deterministic=true path of the sampling kernels, never the
// default.
func DeterministicPrefixSum[T hwy.FloatsNative](data []T) {
	n := len(data)
	if n == 0 {
		return
	}

	// Pad to the next power of two so every run of the same length pairs
	// indices identically regardless of n's factorization.
	size := 1
	for size < n {
		size <<= 1
	}
	tree := make([]T, size)
	copy(tree, data)

	// Up-sweep: build partial sums bottom-up over a fixed pairing (i, i-step).
	for step := 1; step < size; step <<= 1 {
		stride := step << 1
		for i := stride - 1; i < size; i += stride {
			tree[i] += tree[i-step]
		}
	}

	// Down-sweep: convert the up-swept tree into an exclusive scan by
	// walking the same fixed pairing in reverse.
	tree[size-1] = 0
	for step := size >> 1; step >= 1; step >>= 1 {
		stride := step << 1
		for i := stride - 1; i < size; i += stride {
			left := tree[i-step]
			tree[i-step] = tree[i]
			tree[i] += left
		}
	}

	// Convert exclusive to inclusive and copy back the valid prefix.
	for i := 0; i < n; i++ {
		data[i] = tree[i] + data[i]
	}
}

// DeltaDecode decodes delta-encoded values in place.
// Each value represents a delta from the previous value.
// Result[i] = base + data[0] + data[1] + ... + data[i]
func DeltaDecode[T hwy.Integers](data []T, base T) {
	n := len(data)
	if n == 0 {
		return
	}

	lanes := hwy.MaxLanes[T]()
	carry := base
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(data[i:])
		prefixed := PrefixSumVec(v)
		prefixed = hwy.Add(prefixed, hwy.Set[T](carry))
		hwy.Store(prefixed, data[i:])
		carry = hwy.GetLane(prefixed, lanes-1)
	}

	for ; i < n; i++ {
		carry += data[i]
		data[i] = carry
	}
}
