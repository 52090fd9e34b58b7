// Package feature defines the quantized multi-modal feature shared by
// modality front-ends and the template catalog.
package feature

import "math/bits"

// Feature is a single sparse sample: a modality, a position, and a
// bitmask over the 8 orientation bins that position agrees with. The
// fast scoring path requires exactly one bit set; BinMask may carry
// more for callers building features by hand, but CreateAndAddTemplate
// and the synthetic modality always emit the canonical single-bit form.
type Feature struct {
	ModalityIndex uint8
	X, Y          int32
	BinMask       uint8
}

// BitCount returns the number of orientation bins this feature tests.
func (f Feature) BitCount() int {
	return bits.OnesCount8(f.BinMask)
}
