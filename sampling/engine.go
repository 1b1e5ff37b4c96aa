package sampling

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-tokensample/hwy/contrib/workerpool"
)

// Config carries the per-call options shared by every policy kernel.
// It is passed by value — the engine keeps no sampling state across calls,
// only the worker pool and logger that back dispatch.
type Config struct {
	// Deterministic selects the fixed-tree prefix-sum variant in every
	// scan the kernel performs. It never changes which token is sampled
	// in expectation, only the bit pattern of intermediate sums.
	Deterministic bool

	// Seed and Offset root the per-row Philox stream: row r draws from
	// (Seed, row r's physical index, Offset). Advance Offset between
	// decoding steps to get a fresh draw per row without reseeding.
	Seed   uint64
	Offset uint64

	// RowIndices optionally remaps logical batch entry b to physical row
	// RowIndices[b]. Nil means the identity mapping. The physical row only
	// selects entry b's Philox stream; the probabilities read for entry b
	// are still the caller's row b, not gathered from another row.
	RowIndices []int
}

// physicalRow resolves logical batch entry b to its physical row index,
// surfacing an out-of-range RowIndices entry as an error rather than
// letting it panic on the downstream slice index — the host-side "trust
// the caller, but still don't segfault" contract (§7).
func (c Config) physicalRow(b int) (int, error) {
	if c.RowIndices == nil {
		return b, nil
	}
	r := c.RowIndices[b]
	if r < 0 || r >= len(c.RowIndices) {
		return 0, fmt.Errorf("%w: row_indices[%d] = %d", ErrRowIndexOutOfRange, b, r)
	}
	return r, nil
}

// Engine dispatches policy kernels across a batch. It is safe for
// concurrent use by multiple goroutines once constructed, and holds no
// state that a call mutates — only the worker pool and logger tying calls
// together.
type Engine struct {
	pool   *workerpool.Pool
	logger *log.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithWorkers overrides the worker pool size. The default is
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) { e.pool = workerpool.New(n) }
}

// WithLogger attaches a diagnostic logger to the Engine; the default is a
// discard logger. None of the kernels in this package write to it, so it
// never affects sampled output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New constructs an Engine. Call Close when done to release the worker
// pool's goroutines.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = workerpool.New(runtime.GOMAXPROCS(0))
	}
	return e
}

// Close releases the engine's worker pool.
func (e *Engine) Close() {
	e.pool.Close()
}

// dispatchRows runs rowFn once per logical batch entry in [0, batch),
// bounded to the engine's worker count, and aggregates the first error
// any row reports. It is the one fan-out path every policy kernel entry
// point funnels through: rows are independent (§3 "each row is
// independent"), so nothing beyond a shared concurrency limit and
// first-error propagation is needed between them.
func (e *Engine) dispatchRows(ctx context.Context, batch int, rowFn func(b int) error) error {
	if batch <= 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.pool.NumWorkers())
	for b := 0; b < batch; b++ {
		b := b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return rowFn(b)
		})
	}
	return g.Wait()
}
