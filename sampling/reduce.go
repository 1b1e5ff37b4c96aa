package sampling

import (
	"math"

	"github.com/ajroetker/go-tokensample/hwy"
	"github.com/ajroetker/go-tokensample/hwy/contrib/algo"
)

// tileLanes is the vector width C1's tile loader sweeps a row with for the
// current dispatch level. It is never less than 1 so a degenerate
// zero-width dispatch can't divide the row into empty tiles.
func tileLanes() int {
	if n := hwy.MaxLanes[float32](); n > 0 {
		return n
	}
	return 1
}

// countAbove returns count({p : p > tau}), C5's count goal g for top-k.
func countAbove(row []float32, tau float32) int {
	return algo.CountIfP[float32](row, algo.GreaterThan[float32]{Threshold: tau})
}

// sumAbove returns sum({p : p > tau}), C5's sum goal g for top-p, swept in
// tiles so the masked-out lanes never touch the running total.
func sumAbove(row []float32, tau float32) float64 {
	lanes := tileLanes()
	buf := make([]float32, lanes)
	var total float64

	for i := 0; i < len(row); i += lanes {
		n := min(lanes, len(row)-i)
		for j := 0; j < lanes; j++ {
			if j < n && row[i+j] > tau {
				buf[j] = row[i+j]
			} else {
				buf[j] = 0
			}
		}
		total += float64(hwy.ReduceSum(hwy.Load(buf)))
	}
	return total
}

// rowSum returns sum(row), used as the multinomial policy's full sample
// mass and as the un-normalized denominator renorm kernels divide by.
func rowSum(row []float32) float64 {
	return sumAbove(row, float32(math.Inf(-1)))
}

// rowMax returns max(row), the pivot-search bracket's initial high
// endpoint for top-k/top-p/combined and the scale for min-p's one-shot
// pivot.
func rowMax(row []float32) float32 {
	lanes := tileLanes()
	buf := make([]float32, lanes)
	result := float32(math.Inf(-1))

	for i := 0; i < len(row); i += lanes {
		n := min(lanes, len(row)-i)
		for j := 0; j < lanes; j++ {
			if j < n {
				buf[j] = row[i+j]
			} else {
				buf[j] = float32(math.Inf(-1))
			}
		}
		if m := hwy.ReduceMax(hwy.Load(buf)); m > result {
			result = m
		}
	}
	return result
}

// minAbove returns the smallest value strictly greater than tau, and
// whether any such value exists. Used by the renorm forms' bracket
// termination test (§4.5 step 5).
func minAbove(row []float32, tau float32) (float32, bool) {
	lanes := tileLanes()
	buf := make([]float32, lanes)
	result := float32(math.Inf(1))
	found := false

	for i := 0; i < len(row); i += lanes {
		n := min(lanes, len(row)-i)
		for j := 0; j < lanes; j++ {
			if j < n && row[i+j] > tau {
				buf[j] = row[i+j]
				found = true
			} else {
				buf[j] = float32(math.Inf(1))
			}
		}
		if m := hwy.ReduceMin(hwy.Load(buf)); m < result {
			result = m
		}
	}
	return result, found
}

// maxAtMost returns the largest value less than or equal to tau, and
// whether any such value exists.
func maxAtMost(row []float32, tau float32) (float32, bool) {
	lanes := tileLanes()
	buf := make([]float32, lanes)
	result := float32(math.Inf(-1))
	found := false

	for i := 0; i < len(row); i += lanes {
		n := min(lanes, len(row)-i)
		for j := 0; j < lanes; j++ {
			if j < n && row[i+j] <= tau {
				buf[j] = row[i+j]
				found = true
			} else {
				buf[j] = float32(math.Inf(-1))
			}
		}
		if m := hwy.ReduceMax(hwy.Load(buf)); m > result {
			result = m
		}
	}
	return result, found
}

// rankAbove returns the number of elements that outrank row[idx] in the
// descending-value order the spec's tie-break resolves ties with: a strictly
// larger value always outranks it, and an equal value outranks it only when
// it sits at a smaller index. This is countAbove generalized so a tied
// maximum doesn't look like "nothing above" just because no value is
// strictly greater.
func rankAbove(row []float32, idx int) int {
	v := row[idx]
	count := 0
	for i, p := range row {
		if p > v || (p == v && i < idx) {
			count++
		}
	}
	return count
}

// rankSumAbove is rankAbove's probability-mass analogue, used by the top-p
// and combined goals: the cumulative mass of every element that outranks
// row[idx] by the same (value desc, index asc) order.
func rankSumAbove(row []float32, idx int) float64 {
	v := row[idx]
	var total float64
	for i, p := range row {
		if p > v || (p == v && i < idx) {
			total += float64(p)
		}
	}
	return total
}

// firstAbove returns the index and value of the first element in row
// greater than tau, scanning in row order. It is the deterministic pivot_0
// source for the renorm/mask kernels, which carry no seed/offset in their
// signature (§6) and therefore cannot drive pivot_0 selection from the
// per-row PRNG the sampling policies use.
func firstAbove(row []float32, tau float32) (int, float32, bool) {
	idx := algo.FindIfP[float32](row, algo.GreaterThan[float32]{Threshold: tau})
	if idx < 0 {
		return -1, 0, false
	}
	return idx, row[idx], true
}
