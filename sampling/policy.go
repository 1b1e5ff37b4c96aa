package sampling

import (
	"context"

	"github.com/ajroetker/go-tokensample/hwy"
	"github.com/ajroetker/go-tokensample/internal/philox"
)

// SamplingFromProb implements the unconstrained multinomial policy (C6):
// each row's token is drawn in proportion to its probability mass, with no
// truncation. probs is a [batch][d] row-major matrix; the returned slice
// holds one sampled column index per row.
func (e *Engine) SamplingFromProb(ctx context.Context, probs [][]float32, cfg Config) ([]int, error) {
	samples := make([]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		out, err := e.sampleRowMultinomial(probs[b], cfg, b)
		if err != nil {
			return err
		}
		samples[b] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// ParallelSamplingFromProb draws numSamples independent tokens per row from
// the same unconstrained distribution, seeding each row's stream through
// cfg.RowIndices exactly as every other policy does — used when a caller
// needs several candidate continuations per prompt (beam expansion,
// speculative draft proposals) without repeating the row sweep per draw.
// Successive draws for a row consume successive uniforms from that row's
// stream, so draw i is reproducible but not independent of draw i-1's
// stream position.
func (e *Engine) ParallelSamplingFromProb(ctx context.Context, probs [][]float32, numSamples int, cfg Config) ([][]int, error) {
	samples := make([][]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		total := rowSum(row)
		out := make([]int, numSamples)
		for i := range out {
			u := stream.UniformRange(total)
			out[i] = scanAndSelect(row, isPositive, u, cfg.Deterministic)
		}
		samples[b] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// TopKSamplingFromProb implements the top-k policy: row b is restricted to
// its k[b] highest-probability entries before sampling, found by pivot
// search rather than a sort. k[b] >= d short-circuits straight to the
// unconstrained multinomial draw, per §7.
func (e *Engine) TopKSamplingFromProb(ctx context.Context, probs [][]float32, k []int, cfg Config) ([]int, error) {
	if len(k) != len(probs) {
		return nil, ErrShapeMismatch
	}
	samples := make([]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		if k[b] <= 0 || k[b] >= len(row) {
			out, err := e.sampleRowMultinomial(row, cfg, b)
			if err != nil {
				return err
			}
			samples[b] = out
			return nil
		}
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		target := k[b]
		out := sampleWithPivotSearch(row, goal{countTarget: &target}, stream, cfg.Deterministic)
		samples[b] = out.sampledID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// TopPSamplingFromProb implements the top-p (nucleus) policy: row b is
// restricted to the smallest prefix of its distribution whose mass reaches
// topP[b]. topP[b] >= the row's total mass short-circuits to the
// unconstrained draw.
func (e *Engine) TopPSamplingFromProb(ctx context.Context, probs [][]float32, topP []float64, cfg Config) ([]int, error) {
	if len(topP) != len(probs) {
		return nil, ErrShapeMismatch
	}
	samples := make([]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		if topP[b] >= rowSum(row) {
			out, err := e.sampleRowMultinomial(row, cfg, b)
			if err != nil {
				return err
			}
			samples[b] = out
			return nil
		}
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		target := topP[b]
		out := sampleWithPivotSearch(row, goal{sumTarget: &target}, stream, cfg.Deterministic)
		samples[b] = out.sampledID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// MinPSamplingFromProb implements the min-p policy: row b keeps only
// entries at least minP[b] times its own maximum, a one-shot pivot with no
// search loop since the threshold is known up front.
func (e *Engine) MinPSamplingFromProb(ctx context.Context, probs [][]float32, minP []float64, cfg Config) ([]int, error) {
	if len(minP) != len(probs) {
		return nil, ErrShapeMismatch
	}
	samples := make([]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		tau := float32(minP[b]) * rowMax(row)
		q := sumAboveOrEqual(row, tau)
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		u := stream.UniformRange(q)
		samples[b] = scanAndSelect(row, func(p float32) bool { return p >= tau }, u, cfg.Deterministic)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// TopKTopPSamplingFromProb implements the intersection policy: row b must
// satisfy both its top-k and top-p bounds simultaneously, a single pivot
// search with a conjunctive goal rather than two sequential truncations.
func (e *Engine) TopKTopPSamplingFromProb(ctx context.Context, probs [][]float32, k []int, topP []float64, cfg Config) ([]int, error) {
	if len(k) != len(probs) || len(topP) != len(probs) {
		return nil, ErrShapeMismatch
	}
	samples := make([]int, len(probs))
	err := e.dispatchRows(ctx, len(probs), func(b int) error {
		row := probs[b]
		kActive := k[b] > 0 && k[b] < len(row)
		pActive := topP[b] < rowSum(row)
		if !kActive && !pActive {
			out, err := e.sampleRowMultinomial(row, cfg, b)
			if err != nil {
				return err
			}
			samples[b] = out
			return nil
		}
		g := goal{}
		if kActive {
			target := k[b]
			g.countTarget = &target
		}
		if pActive {
			target := topP[b]
			g.sumTarget = &target
		}
		physRow, err := cfg.physicalRow(b)
		if err != nil {
			return err
		}
		stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
		out := sampleWithPivotSearch(row, g, stream, cfg.Deterministic)
		samples[b] = out.sampledID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (e *Engine) sampleRowMultinomial(row []float32, cfg Config, b int) (int, error) {
	physRow, err := cfg.physicalRow(b)
	if err != nil {
		return 0, err
	}
	stream := philox.New(cfg.Seed, int64(physRow), cfg.Offset)
	total := rowSum(row)
	u := stream.UniformRange(total)
	return scanAndSelect(row, isPositive, u, cfg.Deterministic), nil
}

func isPositive(p float32) bool { return p > 0 }

// sumAboveOrEqual returns sum({p : p >= tau}), min-p's inclusive mass —
// distinct from sumAbove's strict bound used by the pivot-search goal.
func sumAboveOrEqual(row []float32, tau float32) float64 {
	return sumAbove(row, tau) + sumEqual(row, tau)
}

func sumEqual(row []float32, tau float32) float64 {
	lanes := tileLanes()
	buf := make([]float32, lanes)
	var total float64
	for i := 0; i < len(row); i += lanes {
		n := min(lanes, len(row)-i)
		for j := 0; j < lanes; j++ {
			if j < n && row[i+j] == tau {
				buf[j] = row[i+j]
			} else {
				buf[j] = 0
			}
		}
		total += float64(hwy.ReduceSum(hwy.Load(buf)))
	}
	return total
}
