// Package energy builds per-bin agreement-count planes from a spread
// quantized orientation map.
package energy

import (
	"fmt"

	"github.com/cwbudde/linemod/internal/lmerrors"
	"github.com/cwbudde/linemod/internal/modality"
)

// NumBins is the fixed number of orientation bins per pixel.
const NumBins = 8

// Maps holds the eight energy planes derived from one modality's spread
// quantized map. Every byte of every plane is in [0,4].
type Maps struct {
	Width, Height int
	Planes        [NumBins][]byte
}

// Build computes the eight energy planes for q. Plane b at pixel p
// counts how many of the four nested bit-pattern tests for bin b hit a
// bit set in q's byte at p: V0 = 1<<b; V1 = V0 | 1<<((b+1)%8) |
// 1<<((b+7)%8); V2 and V3 widen further in the same way. Because V0
// through V3 are nested supersets, a hit at the narrowest test implies
// a hit at every wider one, so the count falls off step-wise with
// angular distance from b: 4 at distance 0, down to 0 at distance 4.
func Build(q modality.QuantizedMap) (Maps, error) {
	if q.Width <= 0 || q.Height <= 0 {
		return Maps{}, fmt.Errorf("energy: %w: non-positive dimensions %dx%d", lmerrors.ErrDimensionMismatch, q.Width, q.Height)
	}
	want := q.Width * q.Height
	if len(q.Bits) != want {
		return Maps{}, fmt.Errorf("energy: %w: expected %d bytes, got %d", lmerrors.ErrDimensionMismatch, want, len(q.Bits))
	}

	var maps Maps
	maps.Width, maps.Height = q.Width, q.Height

	for b := 0; b < NumBins; b++ {
		v0, v1, v2, v3 := ringMasks(b)
		plane := make([]byte, want)
		for i, qb := range q.Bits {
			var c byte
			if qb&v0 != 0 {
				c++
			}
			if qb&v1 != 0 {
				c++
			}
			if qb&v2 != 0 {
				c++
			}
			if qb&v3 != 0 {
				c++
			}
			plane[i] = c
		}
		maps.Planes[b] = plane
	}
	return maps, nil
}

// ringMasks returns the four nested bit-pattern tests for bin b, using
// the modular-shift form. The (b+k)&7 variant found in one branch of the
// reference is buggy — it applies &7 to the shift amount's sub-expression
// instead of wrapping the bin index itself — and must not be used.
func ringMasks(b int) (v0, v1, v2, v3 byte) {
	bit := func(k int) byte {
		return 1 << uint((k%NumBins+NumBins)%NumBins)
	}
	v0 = bit(b)
	v1 = v0 | bit(b+1) | bit(b+7)
	v2 = v1 | bit(b+2) | bit(b+6)
	v3 = v2 | bit(b+3) | bit(b+5)
	return v0, v1, v2, v3
}
