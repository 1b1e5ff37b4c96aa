package sampling

import (
	"context"

	"github.com/ajroetker/go-tokensample/internal/philox"
)

// SpeculativeResult holds chain speculative decoding's per-row outputs
// (§4.8): the emitted token ids (padded with -1 past the first rejection),
// and the accepted/emitted counters the caller accumulates across calls.
type SpeculativeResult struct {
	OutIDs      [][]int
	OutAccepted []int
	OutEmitted  []int
}

// ChainSpeculativeSampling verifies K draft tokens per row against the
// target distribution and emits the accepted prefix, one residual-sampled
// replacement for the first rejection (or a bonus draw if every draft was
// accepted), and -1 sentinels after that. draftProbs and targetProbs are
// [batch][K][d]; draftIDs is [batch][K], the token id the draft model
// proposed at each position. prevAccepted/prevEmitted seed the running
// counters the spec accumulates across calls; pass nil slices of zeros for
// a first call.
func (e *Engine) ChainSpeculativeSampling(ctx context.Context, draftProbs [][][]float32, draftIDs [][]int, targetProbs [][][]float32, prevAccepted, prevEmitted []int, cfg Config) (*SpeculativeResult, error) {
	batch := len(draftProbs)
	if len(draftIDs) != batch || len(targetProbs) != batch {
		return nil, ErrShapeMismatch
	}
	res := &SpeculativeResult{
		OutIDs:      make([][]int, batch),
		OutAccepted: make([]int, batch),
		OutEmitted:  make([]int, batch),
	}
	err := e.dispatchRows(ctx, batch, func(b int) error {
		k := len(draftIDs[b])
		if len(draftProbs[b]) != k || len(targetProbs[b]) != k {
			return ErrShapeMismatch
		}
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		out := make([]int, k+1)
		for i := range out {
			out[i] = -1
		}

		accepted := 0
		pos := k
		for i := 0; i < k; i++ {
			t := draftIDs[b][i]
			p := draftProbs[b][i][t]
			q := targetProbs[b][i][t]
			if stream.Uniform()*float64(p) < float64(q) {
				out[i] = t
				accepted++
				continue
			}
			pos = i
			break
		}

		// emitted counts the accepted draft prefix; the resampled or bonus
		// token written below is not included.
		emitted := pos
		if pos < k {
			residualRow, total := residual(targetProbs[b][pos], draftProbs[b][pos])
			if total > 0 {
				u := stream.UniformRange(total)
				out[pos] = scanAndSelect(residualRow, isPositive, u, cfg.Deterministic)
			}
		} else {
			// every draft token accepted: draw one bonus token into slot K
			// from the last target distribution (targetProbs[b][K-1]),
			// residual against zero.
			residualRow, total := residual(targetProbs[b][k-1], nil)
			if total > 0 {
				u := stream.UniformRange(total)
				out[k] = scanAndSelect(residualRow, isPositive, u, cfg.Deterministic)
			}
		}

		// a reported acceptance rate needs draws for the remaining
		// positions too, even though they aren't emitted; §4.8 step 3.
		for i := pos + 1; i < k; i++ {
			t := draftIDs[b][i]
			p := draftProbs[b][i][t]
			q := targetProbs[b][i][t]
			if stream.Uniform()*float64(p) < float64(q) {
				accepted++
			}
		}

		res.OutIDs[b] = out
		base := 0
		if prevAccepted != nil {
			base = prevAccepted[b]
		}
		res.OutAccepted[b] = base + accepted
		base = 0
		if prevEmitted != nil {
			base = prevEmitted[b]
		}
		res.OutEmitted[b] = base + emitted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// residual computes relu(target - draft) elementwise (draft nil means all
// zero, the bonus-token case) and its sum, the distribution C4 samples the
// rejected or bonus position from.
func residual(target, draft []float32) ([]float32, float64) {
	out := make([]float32, len(target))
	var total float64
	for i, t := range target {
		d := float32(0)
		if draft != nil {
			d = draft[i]
		}
		r := t - d
		if r < 0 {
			r = 0
		}
		out[i] = r
		total += float64(r)
	}
	return out, total
}
