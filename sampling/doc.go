// Package sampling implements batched truncated-sampling policies for LLM
// token decoding: unconstrained multinomial, top-k, top-p, min-p, their
// combination, the matching renormalization/masking kernels, and
// chain speculative-decoding acceptance.
//
// Every kernel sweeps each row of an unsorted [batch, d] probability (or
// logit) matrix a small, bounded number of times — there is no sort step
// and no materialized copy of the truncated support. Per-row randomness
// comes from an internal/philox.Stream seeded from (seed, row, offset), so
// a row's sample depends only on that triple, never on batch size, worker
// count, or launch order.
package sampling
