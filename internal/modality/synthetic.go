package modality

import (
	"fmt"
	"sort"

	"github.com/cwbudde/linemod/internal/feature"
)

// Seed places a single orientation bin at a pixel. Synthetic uses a list
// of seeds to build both its spread quantized map and its feature list,
// standing in for a real gradient/normal estimator in tests and demos.
type Seed struct {
	X, Y int
	Bin  uint8 // 0..7
}

// Synthetic is a deterministic, non-production Modality: it paints a
// quantized map from a fixed list of oriented seed pixels and extracts
// features at those same seed positions. It exists so the matching
// kernel can be exercised and demoed without a real front-end, which is
// explicitly out of scope for this repository.
type Synthetic struct {
	Width, Height int
	Seeds         []Seed
	SpreadRadius  int // Chebyshev radius used to OR a seed's bit into its neighborhood
}

// NewSynthetic builds a Synthetic modality, sorting seeds into row-major
// order so ExtractFeatures is deterministic regardless of input order.
func NewSynthetic(width, height int, seeds []Seed, spreadRadius int) *Synthetic {
	sorted := make([]Seed, len(seeds))
	copy(sorted, seeds)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	return &Synthetic{Width: width, Height: height, Seeds: sorted, SpreadRadius: spreadRadius}
}

func (s *Synthetic) SpreadQuantizedMap() (QuantizedMap, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return QuantizedMap{}, fmt.Errorf("synthetic modality: non-positive dimensions %dx%d", s.Width, s.Height)
	}
	bits := make([]byte, s.Width*s.Height)
	for _, seed := range s.Seeds {
		bit := byte(1) << (seed.Bin % 8)
		for dy := -s.SpreadRadius; dy <= s.SpreadRadius; dy++ {
			y := seed.Y + dy
			if y < 0 || y >= s.Height {
				continue
			}
			for dx := -s.SpreadRadius; dx <= s.SpreadRadius; dx++ {
				x := seed.X + dx
				if x < 0 || x >= s.Width {
					continue
				}
				bits[y*s.Width+x] |= bit
			}
		}
	}
	return QuantizedMap{Width: s.Width, Height: s.Height, Bits: bits}, nil
}

// ExtractFeatures walks the seed list in row-major order, emitting a
// canonical single-bit feature for each seed that falls inside mask
// until count is reached.
func (s *Synthetic) ExtractFeatures(mask Mask, count int, modalityIndex uint8) ([]feature.Feature, error) {
	if mask.Width != s.Width || mask.Height != s.Height {
		return nil, fmt.Errorf("synthetic modality: mask %dx%d does not match map %dx%d", mask.Width, mask.Height, s.Width, s.Height)
	}
	out := make([]feature.Feature, 0, count)
	for _, seed := range s.Seeds {
		if len(out) >= count {
			break
		}
		if seed.X < 0 || seed.X >= mask.Width || seed.Y < 0 || seed.Y >= mask.Height {
			continue
		}
		if mask.Set != nil && !mask.Set[seed.Y*mask.Width+seed.X] {
			continue
		}
		out = append(out, feature.Feature{
			ModalityIndex: modalityIndex,
			X:             int32(seed.X),
			Y:             int32(seed.Y),
			BinMask:       byte(1) << (seed.Bin % 8),
		})
	}
	return out, nil
}

// FullMask returns a Mask covering every pixel of the synthetic frame.
func (s *Synthetic) FullMask() Mask {
	set := make([]bool, s.Width*s.Height)
	for i := range set {
		set[i] = true
	}
	return Mask{Width: s.Width, Height: s.Height, Set: set}
}
