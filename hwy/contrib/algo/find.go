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

// Find returns the index of the first element equal to value, or -1 if not found.
func Find[T hwy.Lanes](slice []T, value T) int {
	n := len(slice)
	if n == 0 {
		return -1
	}

	target := hwy.Set(value)
	lanes := hwy.MaxLanes[T]()
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := hwy.Equal(v, target)
		if idx := hwy.FindFirstTrue(mask); idx >= 0 {
			return i + idx
		}
	}

	for ; i < n; i++ {
		if slice[i] == value {
			return i
		}
	}

	return -1
}

// Count returns the number of elements equal to value.
func Count[T hwy.Lanes](slice []T, value T) int {
	n := len(slice)
	if n == 0 {
		return 0
	}

	target := hwy.Set(value)
	lanes := hwy.MaxLanes[T]()
	count := 0
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := hwy.Equal(v, target)
		count += hwy.CountTrue(mask)
	}

	for ; i < n; i++ {
		if slice[i] == value {
			count++
		}
	}

	return count
}

// Contains returns true if slice contains the specified value.
func Contains[T hwy.Lanes](slice []T, value T) bool {
	return Find(slice, value) >= 0
}

// AllP returns true if pred returns true for all elements. Short-circuits on first false.
// The predicate P must implement Predicate[T].
func AllP[T hwy.Lanes, P Predicate[T]](slice []T, pred P) bool {
	n := len(slice)
	if n == 0 {
		return true
	}

	lanes := hwy.MaxLanes[T]()
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := pred.Apply(v)
		if !hwy.AllTrue(mask) {
			return false
		}
	}

	if remaining := n - i; remaining > 0 {
		buf := make([]T, lanes)
		copy(buf, slice[i:i+remaining])
		v := hwy.Load(buf)
		mask := pred.Apply(v)

		tailMask := hwy.FirstN[T](remaining)
		inverted := hwy.MaskAndNot(mask, tailMask)
		if !hwy.AllFalse(inverted) {
			return false
		}
	}

	return true
}

// AnyP returns true if pred returns true for any element. Short-circuits on first true.
func AnyP[T hwy.Lanes, P Predicate[T]](slice []T, pred P) bool {
	n := len(slice)
	if n == 0 {
		return false
	}

	lanes := hwy.MaxLanes[T]()
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := pred.Apply(v)
		if idx := hwy.FindFirstTrue(mask); idx >= 0 {
			return true
		}
	}

	if remaining := n - i; remaining > 0 {
		buf := make([]T, lanes)
		copy(buf, slice[i:i+remaining])
		v := hwy.Load(buf)
		mask := pred.Apply(v)

		tailMask := hwy.FirstN[T](remaining)
		mask = hwy.MaskAnd(mask, tailMask)
		if idx := hwy.FindFirstTrue(mask); idx >= 0 {
			return true
		}
	}

	return false
}

// NoneP returns true if pred returns false for all elements.
func NoneP[T hwy.Lanes, P Predicate[T]](slice []T, pred P) bool {
	return !AnyP(slice, pred)
}

// FindIfP returns the index of the first element where pred returns true, or -1.
func FindIfP[T hwy.Lanes, P Predicate[T]](slice []T, pred P) int {
	n := len(slice)
	if n == 0 {
		return -1
	}

	lanes := hwy.MaxLanes[T]()
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := pred.Apply(v)
		if idx := hwy.FindFirstTrue(mask); idx >= 0 {
			return i + idx
		}
	}

	if remaining := n - i; remaining > 0 {
		buf := make([]T, lanes)
		copy(buf, slice[i:i+remaining])
		v := hwy.Load(buf)
		mask := pred.Apply(v)

		if idx := hwy.FindFirstTrue(mask); idx >= 0 && idx < remaining {
			return i + idx
		}
	}

	return -1
}

// CountIfP returns the number of elements where pred returns true.
func CountIfP[T hwy.Lanes, P Predicate[T]](slice []T, pred P) int {
	n := len(slice)
	if n == 0 {
		return 0
	}

	lanes := hwy.MaxLanes[T]()
	count := 0
	i := 0

	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(slice[i:])
		mask := pred.Apply(v)
		count += hwy.CountTrue(mask)
	}

	if remaining := n - i; remaining > 0 {
		buf := make([]T, lanes)
		copy(buf, slice[i:i+remaining])
		v := hwy.Load(buf)
		mask := pred.Apply(v)

		tailMask := hwy.FirstN[T](remaining)
		mask = hwy.MaskAnd(mask, tailMask)
		count += hwy.CountTrue(mask)
	}

	return count
}

// FuncPredicate wraps a callback function as a Predicate. This allows
// runtime-computed masks (e.g. a pivot-search threshold only known after a
// reduction) to reuse the same find/count machinery as the built-in
// predicate types.
//
// Test allocates because it must materialize a single-lane Vec; prefer the
// built-in predicate types (GreaterThan, and friends) in hot loops.
type FuncPredicate[T hwy.Lanes] struct {
	Fn func(hwy.Vec[T]) hwy.Mask[T]
}

func (p FuncPredicate[T]) Test(value T) bool {
	v := hwy.Set(value)
	mask := p.Fn(v)
	return hwy.FindFirstTrue(mask) >= 0
}

func (p FuncPredicate[T]) Apply(v hwy.Vec[T]) hwy.Mask[T] {
	return p.Fn(v)
}

// FindIf returns the index of the first element where pred returns a mask with any true lane.
func FindIf[T hwy.Lanes](slice []T, pred func(hwy.Vec[T]) hwy.Mask[T]) int {
	return FindIfP(slice, FuncPredicate[T]{Fn: pred})
}

// CountIf returns the number of elements where pred returns a true mask lane.
func CountIf[T hwy.Lanes](slice []T, pred func(hwy.Vec[T]) hwy.Mask[T]) int {
	return CountIfP(slice, FuncPredicate[T]{Fn: pred})
}

// All returns true if pred returns true for all elements.
func All[T hwy.Lanes](slice []T, pred func(hwy.Vec[T]) hwy.Mask[T]) bool {
	return AllP(slice, FuncPredicate[T]{Fn: pred})
}

// Any returns true if pred returns true for any element.
func Any[T hwy.Lanes](slice []T, pred func(hwy.Vec[T]) hwy.Mask[T]) bool {
	return AnyP(slice, FuncPredicate[T]{Fn: pred})
}

// None returns true if pred returns false for all elements.
func None[T hwy.Lanes](slice []T, pred func(hwy.Vec[T]) hwy.Mask[T]) bool {
	return !Any(slice, pred)
}
