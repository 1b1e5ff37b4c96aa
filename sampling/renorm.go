package sampling

import (
	"context"
	"math"
)

// parallelRewriteWidth is the row length past which the rewrite-in-place
// pass is worth splitting across the worker pool instead of running as one
// goroutine's tile loop. Below it, goroutine handoff costs more than the
// sweep it would save.
const parallelRewriteWidth = 1 << 16

// rewriteKept runs C7's rewrite-in-place pass: kept[i] survives divided by
// denom, everything else goes to zero. It is the shared tail of
// TopPRenormProb and TopKRenormProb, which differ only in how kept and
// denom are derived. Unlike a bare tau threshold, kept is resolved per
// index (see keepMask) so ties at the boundary value split the same way
// the sampling kernels' tie-break does, rather than all-or-nothing. Rows
// past parallelRewriteWidth are split across the engine's worker pool,
// since within one row there is no cross-element dependency for this pass
// to serialize on (unlike the scan-and-select sampling passes, which must
// observe the row in order).
func (e *Engine) rewriteKept(row []float32, kept []bool, denom float32) {
	apply := func(start, end int) {
		for i := start; i < end; i++ {
			if kept[i] {
				row[i] /= denom
			} else {
				row[i] = 0
			}
		}
	}
	if len(row) < parallelRewriteWidth {
		apply(0, len(row))
		return
	}
	e.pool.ParallelFor(len(row), apply)
}

// TopPRenormProb rewrites each row of probs in place, zeroing every entry
// outside its top-p nucleus and renormalizing the survivors to sum to 1.
// This is the standalone renormalization kernel (§4.7) used to bake
// truncation into a probability matrix ahead of a separate sampling step,
// rather than truncating and sampling in the same pass.
func (e *Engine) TopPRenormProb(ctx context.Context, probs [][]float32, topP []float64) error {
	if len(topP) != len(probs) {
		return ErrShapeMismatch
	}
	return e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		total := rowSum(row)
		if topP[b] >= total {
			return nil
		}
		target := topP[b]
		kept := keepMask(row, goal{sumTarget: &target}, 0)
		denom := max(maskedSum(row, kept), 1e-8)
		e.rewriteKept(row, kept, float32(denom))
		return nil
	})
}

// TopKRenormProb rewrites each row of probs in place, keeping only its k[b]
// highest entries and renormalizing them to sum to 1. k[b] >= d is a no-op:
// the whole row already satisfies the bound.
func (e *Engine) TopKRenormProb(ctx context.Context, probs [][]float32, k []int) error {
	if len(k) != len(probs) {
		return ErrShapeMismatch
	}
	return e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		if k[b] <= 0 || k[b] >= len(row) {
			return nil
		}
		target := k[b]
		kept := keepMask(row, goal{countTarget: &target}, 0)
		denom := max(maskedSum(row, kept), 1e-8)
		e.rewriteKept(row, kept, float32(denom))
		return nil
	})
}

// TopKMaskLogits rewrites each row of logits in place: entries outside the
// top k[b] are set to negInf (conventionally -Inf) so a downstream softmax
// assigns them zero probability, while the kept entries pass through
// unchanged — unlike the renorm kernels, there is no rescale step because
// logits aren't a probability mass to begin with.
func (e *Engine) TopKMaskLogits(ctx context.Context, logits [][]float32, k []int, negInf float32) error {
	if len(k) != len(logits) {
		return ErrShapeMismatch
	}
	return e.dispatchRows(ctx, len(logits), func(b int) error {
		row := logits[b]
		if k[b] <= 0 || k[b] >= len(row) {
			return nil
		}
		target := k[b]
		kept := keepMask(row, goal{countTarget: &target}, float32(math.Inf(-1)))
		e.maskKept(row, kept, negInf)
		return nil
	})
}

// maskKept is TopKMaskLogits' rewrite-in-place pass: kept lanes pass
// through unchanged, everything else is overwritten with negInf. Like
// rewriteKept, rows past parallelRewriteWidth split across the worker pool.
func (e *Engine) maskKept(row []float32, kept []bool, negInf float32) {
	apply := func(start, end int) {
		for i := start; i < end; i++ {
			if !kept[i] {
				row[i] = negInf
			}
		}
	}
	if len(row) < parallelRewriteWidth {
		apply(0, len(row))
		return
	}
	e.pool.ParallelFor(len(row), apply)
}
