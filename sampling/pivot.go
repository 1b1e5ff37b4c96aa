package sampling

import "github.com/ajroetker/go-tokensample/internal/philox"

// goal is the monotone-decreasing target C5's pivot search tightens
// against: as tau rises, fewer elements stay above it, so both count and
// sum of {p : p > tau} fall. A nil bound means that constraint is inactive
// (top-k leaves sumTarget nil, top-p leaves countTarget nil, the combined
// policy sets both).
type goal struct {
	countTarget *int
	sumTarget   *float64
}

// satisfied reports whether every active bound is met at tau: this is the
// "g(pivot) < target" test from §4.5, generalized to a conjunction so the
// same loop serves top-k, top-p, and their intersection. It only narrows a
// bracket between two candidate values, never decides a final accept — see
// satisfiedAt for why those need different arithmetic when row has ties.
func (g goal) satisfied(row []float32, tau float32) bool {
	if g.countTarget != nil && !(countAbove(row, tau) < *g.countTarget) {
		return false
	}
	if g.sumTarget != nil && !(sumAbove(row, tau) < *g.sumTarget) {
		return false
	}
	return true
}

// satisfiedAt reports whether row's element at idx may be accepted as the
// pivot-search candidate: idx is within target only if fewer than target
// elements outrank it in the (value desc, index asc) order the spec's
// tie-break mandates (§8 testable property 2, scenario S2). countAbove/
// sumAbove alone cannot express this: they compare strictly against tau, so
// a row with duplicates at the current maximum reports "nothing above" for
// every tied candidate regardless of which one was drawn, and the naive
// check would accept whichever index the PRNG happened to land on instead
// of consistently preferring the smallest one.
func (g goal) satisfiedAt(row []float32, idx int) bool {
	if g.countTarget != nil && !(rankAbove(row, idx) < *g.countTarget) {
		return false
	}
	if g.sumTarget != nil && !(rankSumAbove(row, idx) < *g.sumTarget) {
		return false
	}
	return true
}

// pivotOutcome is what one full rejection-resampling run produced: either
// an accepted token or, once the bracket closed without an accepted
// candidate, the index fallBackByRank picked. tau is the row value at the
// returned index.
type pivotOutcome struct {
	sampledID int
	tau       float32
}

// sampleWithPivotSearch runs the rejection-resampling loop of §4.5/§4.6:
// repeatedly draw a candidate pivot_0 via a PRNG-driven C4 pass restricted
// to {p > low}, bisect against high, and either accept pivot_0 (it already
// satisfies g, by rank rather than raw value so ties at the current maximum
// can't be accepted out of index order) or tighten the bracket and redraw.
// It terminates when the bracket can no longer separate any two row values;
// if no candidate was accepted by then (every remaining element ties at the
// same value), fallBackByRank resolves the tie deterministically.
func sampleWithPivotSearch(row []float32, g goal, stream *philox.Stream, deterministic bool) pivotOutcome {
	low, high := float32(0), rowMax(row)
	q := rowSum(row)

	for low < high && q > 0 {
		u := stream.UniformRange(q)
		idx, pivot0 := scanAndSelectValue(row, greaterThan(low), u, deterministic)

		if g.satisfiedAt(row, idx) {
			return pivotOutcome{sampledID: idx, tau: pivot0}
		}

		pivot1 := (pivot0 + high) / 2
		if g.satisfied(row, pivot1) {
			low, high = pivot0, pivot1
		} else {
			low = pivot1
		}
		q = sumAbove(row, low)
	}

	idx := fallBackByRank(row, g)
	return pivotOutcome{sampledID: idx, tau: row[idx]}
}

// fallBackByRank runs once the bracket has collapsed without an accepted
// candidate — every element left in contention ties at the same value, so
// no amount of redrawing would break the tie by chance. It scans row in
// index order and returns the first element whose rank (§8 tie-break:
// value desc, index asc) is within target, which always exists: the
// smallest-indexed element among the row's overall maximum has rank 0.
func fallBackByRank(row []float32, g goal) int {
	for idx := range row {
		if g.satisfiedAt(row, idx) {
			return idx
		}
	}
	return len(row) - 1
}

// pivotSearchThreshold runs the deterministic, PRNG-free form of the same
// bisection used by the renorm/mask kernels (§4.7): pivot_0 comes from
// firstAbove rather than a sampling pass, since TopPRenormProb,
// TopKRenormProb, and TopKMaskLogits carry no seed in their signature; when
// that value already sits at or past high, the smallest value above low is
// used instead. The goal is unmet at low and met at high throughout.
// Termination follows the renorm form from §4.5 step 5: stop once the
// bracket holds a single distinct row value, not merely once low >= high,
// and return that value — the smallest row value at which the goal is met,
// whose ties keepMask then admits in index order.
func pivotSearchThreshold(row []float32, g goal, lowInit float32) float32 {
	low, high := lowInit, rowMax(row)

	for {
		idx, pivot0, ok := firstAbove(row, low)
		_ = idx
		if !ok {
			return low
		}
		if pivot0 >= high {
			pivot0, _ = minAbove(row, low)
		}

		if g.satisfied(row, pivot0) {
			high = pivot0
		} else {
			pivot1 := (pivot0 + high) / 2
			if g.satisfied(row, pivot1) {
				low, high = pivot0, pivot1
			} else {
				low = pivot1
			}
		}

		if low >= high {
			return low
		}
		minA, okA := minAbove(row, low)
		maxB, okB := maxAtMost(row, high)
		if okA && okB && minA == maxB {
			return minA
		}
	}
}

func greaterThan(tau float32) func(float32) bool {
	return func(p float32) bool { return p > tau }
}

// keepMask resolves a goal into an explicit per-element keep decision for
// the renorm/mask kernels (§4.7), which rewrite a whole row in place rather
// than sample one index from it. A bare "p > tau" rewrite cannot express
// the spec's tie-break (scenario S2: a uniform row with top_p=0.5 must keep
// exactly its two smallest-indexed entries, not all four or none) because
// every element tied at tau is equally "above" or "not above" any single
// threshold value. keepMask starts from the core set strictly above tau —
// where ties never arise — and, only if a bound still needs filling, adds
// the elements tied at tau in index order until every active bound is met.
func keepMask(row []float32, g goal, lowInit float32) []bool {
	tau := pivotSearchThreshold(row, g, lowInit)
	kept := make([]bool, len(row))
	keptCount := 0
	var keptSum float64
	for i, p := range row {
		if p > tau {
			kept[i] = true
			keptCount++
			keptSum += float64(p)
		}
	}
	for i, p := range row {
		if kept[i] || p != tau {
			continue
		}
		moreCount := g.countTarget != nil && keptCount < *g.countTarget
		moreSum := g.sumTarget != nil && keptSum < *g.sumTarget
		if !moreCount && !moreSum {
			break
		}
		kept[i] = true
		keptCount++
		keptSum += float64(p)
	}
	return kept
}

// maskedSum returns sum({row[i] : kept[i]}), the renormalization denominator
// once ties have been resolved into an explicit keep decision.
func maskedSum(row []float32, kept []bool) float64 {
	var total float64
	for i, k := range kept {
		if k {
			total += float64(row[i])
		}
	}
	return total
}
