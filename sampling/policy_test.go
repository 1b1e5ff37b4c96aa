package sampling

import (
	"context"
	"errors"
	"testing"
)

func TestSamplingFromProbReturnsOneIndexPerRow(t *testing.T) {
	e := New(WithWorkers(2))
	defer e.Close()

	probs := [][]float32{
		{0.25, 0.25, 0.25, 0.25},
		{0.1, 0.7, 0.1, 0.1},
	}
	out, err := e.SamplingFromProb(context.Background(), probs, Config{Seed: 7})
	if err != nil {
		t.Fatalf("SamplingFromProb: %v", err)
	}
	if len(out) != len(probs) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(probs))
	}
	for b, idx := range out {
		if idx < 0 || idx >= len(probs[b]) {
			t.Fatalf("row %d: sampled index %d out of range", b, idx)
		}
	}
}

func TestSamplingFromProbDeterministicAcrossRepeats(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.2, 0.3, 0.1, 0.4}}
	cfg := Config{Seed: 99, Deterministic: true}

	first, err := e.SamplingFromProb(context.Background(), probs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.SamplingFromProb(context.Background(), probs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if first[0] != second[0] {
		t.Fatalf("repeat calls with identical (seed, offset) diverged: %d != %d", first[0], second[0])
	}
}

func TestParallelSamplingFromProbDrawsNumSamples(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.25, 0.25, 0.25, 0.25}}
	out, err := e.ParallelSamplingFromProb(context.Background(), probs, 5, Config{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || len(out[0]) != 5 {
		t.Fatalf("got shape [%d][...], want [1][5]", len(out))
	}
}

func TestTopKSamplingRestrictsSupport(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.5, 0.3, 0.1, 0.06, 0.04}}
	k := []int{2}

	for seed := uint64(0); seed < 32; seed++ {
		out, err := e.TopKSamplingFromProb(context.Background(), probs, k, Config{Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if out[0] != 0 && out[0] != 1 {
			t.Fatalf("seed %d: top_k=2 sampled index %d, want 0 or 1", seed, out[0])
		}
	}
}

func TestTopKSamplingShapeMismatch(t *testing.T) {
	e := New()
	defer e.Close()
	_, err := e.TopKSamplingFromProb(context.Background(), [][]float32{{0.5, 0.5}}, nil, Config{})
	if err != ErrShapeMismatch {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestTopKGreaterEqualWidthIsMultinomial(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.25, 0.25, 0.25, 0.25}}
	out, err := e.TopKSamplingFromProb(context.Background(), probs, []int{100}, Config{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] < 0 || out[0] >= 4 {
		t.Fatalf("index %d out of range", out[0])
	}
}

func TestTopPSamplingRestrictsSupport(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.5, 0.3, 0.1, 0.06, 0.04}}
	topP := []float64{0.79}

	for seed := uint64(0); seed < 32; seed++ {
		out, err := e.TopPSamplingFromProb(context.Background(), probs, topP, Config{Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if out[0] < 0 || out[0] > 1 {
			t.Fatalf("seed %d: top_p sampled index %d, want within {0,1}", seed, out[0])
		}
	}
}

func TestMinPSamplingKeepsOnlyHighMassEntries(t *testing.T) {
	e := New()
	defer e.Close()
	// max = 0.5, min_p = 0.5 -> threshold 0.25, keeps {0.5, 0.3}.
	probs := [][]float32{{0.5, 0.3, 0.1, 0.06, 0.04}}
	minP := []float64{0.5}

	for seed := uint64(0); seed < 32; seed++ {
		out, err := e.MinPSamplingFromProb(context.Background(), probs, minP, Config{Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if out[0] != 0 && out[0] != 1 {
			t.Fatalf("seed %d: min_p sampled index %d, want 0 or 1", seed, out[0])
		}
	}
}

func TestMinPZeroKeepsEverything(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.5, 0.3, 0.1, 0.06, 0.04}}
	out, err := e.MinPSamplingFromProb(context.Background(), probs, []float64{0}, Config{Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] < 0 || out[0] >= len(probs[0]) {
		t.Fatalf("index %d out of range", out[0])
	}
}

func TestTopKTopPIntersectionNarrowerThanEither(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{0.5, 0.3, 0.1, 0.06, 0.04}}
	k := []int{3}
	topP := []float64{0.79}

	for seed := uint64(0); seed < 32; seed++ {
		out, err := e.TopKTopPSamplingFromProb(context.Background(), probs, k, topP, Config{Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		// top_k=3 alone admits {0,1,2}; top_p=0.79 alone admits {0,1}.
		// the intersection must never pick index 2.
		if out[0] == 2 {
			t.Fatalf("seed %d: combined policy picked index excluded by the tighter top_p bound", seed)
		}
	}
}

func TestRowIndicesOutOfRangeSurfacesErrorInsteadOfPanicking(t *testing.T) {
	e := New()
	defer e.Close()
	probs := [][]float32{{1, 0, 0, 0}, {1, 0, 0, 0}}
	cfg := Config{Seed: 1, RowIndices: []int{0, 5}}
	_, err := e.SamplingFromProb(context.Background(), probs, cfg)
	if !errors.Is(err, ErrRowIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrRowIndexOutOfRange", err)
	}
}

func TestRowIndicesGather(t *testing.T) {
	e := New()
	defer e.Close()
	// two logical entries both map to physical row 0.
	probs := [][]float32{{1, 0, 0, 0}}
	cfg := Config{Seed: 1, RowIndices: []int{0, 0}}
	out, err := e.SamplingFromProb(context.Background(), [][]float32{probs[0], probs[0]}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0 || out[1] != 0 {
		t.Fatalf("deterministic one-hot row sampled %v, want [0 0]", out)
	}
}
