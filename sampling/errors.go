package sampling

import "errors"

// ErrShapeMismatch is returned when caller-supplied slices disagree on
// batch size or row width. It is the one class of input error the host
// API checks — see the error handling design in DESIGN.md/SPEC_FULL.md:
// policy-level parameter misuse (k > d, top_p outside (0,1], ...) is not
// an error, it degrades per the policy tables.
var ErrShapeMismatch = errors.New("sampling: shape mismatch")

// ErrRowIndexOutOfRange is returned when a row_indices entry falls outside
// [0, batch) for the physical backing array it indexes into.
var ErrRowIndexOutOfRange = errors.New("sampling: row index out of range")
