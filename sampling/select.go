package sampling

import (
	"sync/atomic"

	"github.com/ajroetker/go-tokensample/hwy"
	"github.com/ajroetker/go-tokensample/hwy/contrib/algo"
)

// atomicMinInt mirrors the device kernel's atomicMin update on sampled_id:
// whichever tile first crosses the target keeps the smallest index, via a
// compare-and-swap retry loop rather than a mutex.
type atomicMinInt struct{ v atomic.Int64 }

func newAtomicMinInt(initial int) *atomicMinInt {
	a := &atomicMinInt{}
	a.v.Store(int64(initial))
	return a
}

func (a *atomicMinInt) update(candidate int) {
	c := int64(candidate)
	for {
		cur := a.v.Load()
		if c >= cur {
			return
		}
		if a.v.CompareAndSwap(cur, c) {
			return
		}
	}
}

func (a *atomicMinInt) load() int { return int(a.v.Load()) }

// scanAndSelect implements C4: one streaming pass over row that inverts the
// CDF restricted to {j : pred(row[j])}. u must lie in [0, sum of the
// predicate-masked row); the returned index is the first j (in row order)
// whose running masked sum exceeds u. If no element satisfies pred, or u
// never gets crossed because of float rounding at the tail, the row's last
// index is returned — matching the device kernel's fallback so a pivot
// search built on top of this never loses its candidate.
func scanAndSelect(row []float32, pred func(float32) bool, u float64, deterministic bool) int {
	d := len(row)
	if d == 0 {
		return -1
	}
	sampledID := newAtomicMinInt(d - 1)
	lanes := tileLanes()
	masked := make([]float32, lanes)
	cdf := make([]float32, lanes)
	var aggregate float64

	for i := 0; i < d; i += lanes {
		n := min(lanes, d-i)
		for j := 0; j < lanes; j++ {
			if j < n && pred(row[i+j]) {
				masked[j] = row[i+j]
			} else {
				masked[j] = 0
			}
		}
		tileSum := float64(hwy.ReduceSum(hwy.Load(masked)))

		if aggregate+tileSum > u {
			copy(cdf, masked)
			if deterministic {
				algo.DeterministicPrefixSum(cdf)
			} else {
				algo.PrefixSum(cdf)
			}
			for j := 0; j < n; j++ {
				if !pred(row[i+j]) {
					continue
				}
				if aggregate+float64(cdf[j]) > u {
					sampledID.update(i + j)
					break
				}
			}
		}

		aggregate += tileSum
		if aggregate > u {
			break
		}
	}

	return sampledID.load()
}

// scanAndSelectValue runs scanAndSelect and also reports the row value at
// the chosen index — C5 uses it as the pivot-search candidate pivot_0.
func scanAndSelectValue(row []float32, pred func(float32) bool, u float64, deterministic bool) (int, float32) {
	idx := scanAndSelect(row, pred, u, deterministic)
	if idx < 0 {
		return idx, 0
	}
	return idx, row[idx]
}
