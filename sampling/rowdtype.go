package sampling

import "github.com/ajroetker/go-tokensample/hwy"

// RowDType identifies the storage width a row arrives in before C1's tile
// loader ever sees it. Every kernel in this package — reduce, select,
// pivot, renorm — operates on []float32 exclusively; a 16-bit row is
// promoted once, up front, by PromoteRow rather than threaded through the
// policy/renorm entry points themselves (§3's data model: "16-bit rows are
// promoted to float32 tiles by C1 before any reduce/scan/predicate touches
// them").
type RowDType int

const (
	// RowFloat32 marks a row already in the engine's native tile format.
	RowFloat32 RowDType = iota
	// RowBFloat16 marks a row of raw BFloat16 bit patterns (uint16).
	RowBFloat16
	// RowFloat16 marks a row of raw IEEE754 half-precision bit patterns.
	RowFloat16
)

// PromoteRow widens a row to float32, the one format every sampling kernel
// accepts. raw holds the row's bit pattern for RowBFloat16/RowFloat16 (one
// uint16 per element); it is ignored for RowFloat32, where row is returned
// unchanged. The widening sweeps raw in SIMD-width tiles via
// hwy.ProcessWithTail, the same zero-padded-tail tile walk C1 describes,
// so a row whose length isn't a multiple of the dispatch level's vector
// width still promotes correctly instead of reading past the slice.
func PromoteRow(dtype RowDType, raw []uint16, row []float32) []float32 {
	switch dtype {
	case RowBFloat16:
		out := make([]float32, len(raw))
		hwy.ProcessWithTail[hwy.BFloat16](len(raw),
			func(offset int) {
				lanes := hwy.MaxLanes[hwy.BFloat16]()
				hwy.StoreBF16ToF32(hwy.LoadBF16(raw[offset:offset+lanes]), out[offset:offset+lanes])
			},
			func(offset, count int) {
				hwy.StoreBF16ToF32(hwy.LoadBF16(raw[offset:offset+count]), out[offset:offset+count])
			},
		)
		return out
	case RowFloat16:
		out := make([]float32, len(raw))
		hwy.ProcessWithTail[hwy.Float16](len(raw),
			func(offset int) {
				lanes := hwy.MaxLanes[hwy.Float16]()
				hwy.StoreF16ToF32(hwy.LoadF16(raw[offset:offset+lanes]), out[offset:offset+lanes])
			},
			func(offset, count int) {
				hwy.StoreF16ToF32(hwy.LoadF16(raw[offset:offset+count]), out[offset:offset+count])
			},
		)
		return out
	default:
		return row
	}
}

// PromoteRows applies PromoteRow across a batch, the usual ingestion step
// ahead of a policy or renorm call when a caller's rows arrive packed as
// bfloat16/float16 logits straight from a model's KV cache or output
// buffer rather than already-widened float32.
func PromoteRows(dtype RowDType, raw [][]uint16) [][]float32 {
	if dtype == RowFloat32 {
		return nil
	}
	out := make([][]float32, len(raw))
	for i, r := range raw {
		out[i] = PromoteRow(dtype, r, nil)
	}
	return out
}
