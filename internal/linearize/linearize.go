// Package linearize re-lays energy planes into step-strided coarse
// sub-grids so the scoring kernel can accumulate a feature's
// contribution as one contiguous byte run.
package linearize

import (
	"fmt"

	"github.com/cwbudde/linemod/internal/lmerrors"
)

// Step is the coarse grid stride (S in the spec).
const Step = 8

// Plane is the linearized form of one energy plane: Step*Step coarse
// sub-grids, each CoarseWidth*CoarseHeight bytes, indexed by
// dy*Step+dx.
type Plane struct {
	CoarseWidth, CoarseHeight int
	Sub                       [Step * Step][]byte
}

// Build linearizes a single W*H energy plane. The sub-grid at (dx,dy)
// holds, at coarse cell (cx,cy), the fine-grid byte at
// (cx*Step+dx, cy*Step+dy).
func Build(src []byte, width, height int) (Plane, error) {
	if width <= 0 || height <= 0 {
		return Plane{}, fmt.Errorf("linearize: %w: non-positive dimensions %dx%d", lmerrors.ErrDimensionMismatch, width, height)
	}
	if len(src) != width*height {
		return Plane{}, fmt.Errorf("linearize: %w: expected %d bytes, got %d", lmerrors.ErrDimensionMismatch, width*height, len(src))
	}

	cw, ch := width/Step, height/Step
	var p Plane
	p.CoarseWidth, p.CoarseHeight = cw, ch
	size := cw * ch

	for dy := 0; dy < Step; dy++ {
		for dx := 0; dx < Step; dx++ {
			sub := make([]byte, size)
			for cy := 0; cy < ch; cy++ {
				fy := cy*Step + dy
				rowBase := fy * width
				outBase := cy * cw
				for cx := 0; cx < cw; cx++ {
					fx := cx*Step + dx
					sub[outBase+cx] = src[rowBase+fx]
				}
			}
			p.Sub[dy*Step+dx] = sub
		}
	}
	return p, nil
}

// OffsetSlice returns the contiguous byte run a feature at (fx,fy)
// contributes to the coarse score grid: the sub-grid selected by
// (fx mod Step, fy mod Step), starting at coarse index
// (fy/Step)*CoarseWidth + (fx/Step) and running to the end of that
// sub-grid. Coarse cells beyond the end of the returned slice fall
// outside the image for this offset and receive no contribution from
// this feature, per the spec's non-goal of never scoring positions that
// would read outside image bounds.
func (p Plane) OffsetSlice(fx, fy int32) []byte {
	dx := int(((fx % Step) + Step) % Step)
	dy := int(((fy % Step) + Step) % Step)
	sub := p.Sub[dy*Step+dx]

	base := int(fy/Step)*p.CoarseWidth + int(fx/Step)
	if base < 0 {
		base = 0
	}
	if base >= len(sub) {
		return nil
	}
	return sub[base:]
}
