package book

import "crossbook/internal/common"

// ErrInvalidFill is returned by Order.Fill when asked to fill more than
// remains. Re-exported here since it is the one error a caller of this
// package's core operations can actually observe (the matcher itself never
// triggers it). Unknown ids (Cancel, Modify) are never surfaced as errors —
// every public operation treats them as a silent no-op per spec.
var ErrInvalidFill = common.ErrInvalidFill
