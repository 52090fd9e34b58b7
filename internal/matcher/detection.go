package matcher

import "github.com/cwbudde/linemod/internal/linearize"

// Detection is one reported match: a fine-grid coordinate, the
// template it belongs to, and a score in [0,1].
type Detection struct {
	X, Y       int32
	TemplateID int
	Score      float32
}

// isLocalMax reports whether S[row,col] is not strictly exceeded by any
// of its up-to-eight 3x3 coarse neighbors (ties survive). Bounds are
// checked explicitly at both edges rather than relying on unsigned
// wraparound, per the reimplementation requirement in spec §9.
func isLocalMax(S []uint16, coarseWidth, coarseHeight, row, col int) bool {
	v := S[row*coarseWidth+col]
	for dr := -1; dr <= 1; dr++ {
		nr := row + dr
		if nr < 0 || nr >= coarseHeight {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			nc := col + dc
			if nc < 0 || nc >= coarseWidth {
				continue
			}
			if S[nr*coarseWidth+nc] > v {
				return false
			}
		}
	}
	return true
}

// averageCenter computes the score-weighted center of mass of the 3x3
// coarse neighborhood around (row,col), in fine-grid coordinates. The
// weighted sum is multiplied by the coarse step before the (truncating,
// integer) division by the total weight, matching the reference's
// order of operations exactly.
func averageCenter(S []uint16, coarseWidth, coarseHeight, row, col int) (x, y int32) {
	var avgCol, avgRow, sum int
	for dr := -1; dr <= 1; dr++ {
		nr := row + dr
		if nr < 0 || nr >= coarseHeight {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			nc := col + dc
			if nc < 0 || nc >= coarseWidth {
				continue
			}
			w := int(S[nr*coarseWidth+nc])
			avgCol += nc * w
			avgRow += nr * w
			sum += w
		}
	}
	avgCol *= linearize.Step
	avgRow *= linearize.Step
	if sum > 0 {
		avgCol /= sum
		avgRow /= sum
	}
	return int32(avgCol), int32(avgRow)
}
