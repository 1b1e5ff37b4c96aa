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

// Apply transforms input slice to output slice using the provided vector
// function, with a scalar fallback driving the tail. This is the core
// primitive behind the renorm/mask kernels' rewrite-in-place pass: the
// caller supplies a lane-wise transform (e.g. "p > tau ? p/sum : 0") and
// Apply sweeps the row in tiles without allocating a sorted copy.
func Apply[T hwy.Floats](in, out []T, vecFn func(hwy.Vec[T]) hwy.Vec[T], scalarFn func(T) T) {
	n := min(len(in), len(out))
	lanes := hwy.MaxLanes[T]()
	i := 0

	for ; i+lanes <= n; i += lanes {
		x := hwy.Load(in[i:])
		hwy.Store(vecFn(x), out[i:])
	}

	for ; i < n; i++ {
		out[i] = scalarFn(in[i])
	}
}
