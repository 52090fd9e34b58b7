// Package scene decodes the JSON description of a synthetic test frame
// used by the CLI and the inspection server: one entry per modality,
// each a list of (x, y, bin) seeds for internal/modality's Synthetic
// stand-in. Real gradient/normal front-ends are out of scope, so this
// is the only frame source the tooling in this repository understands.
package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cwbudde/linemod/internal/modality"
)

// Seed mirrors modality.Seed with JSON tags.
type Seed struct {
	X   int   `json:"x"`
	Y   int   `json:"y"`
	Bin uint8 `json:"bin"`
}

// Modality describes one synthetic modality frame.
type Modality struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SpreadRadius int    `json:"spread_radius"`
	Seeds        []Seed `json:"seeds"`
}

// Scene is a full multi-modal frame: one Modality entry per modality
// index, in order.
type Scene struct {
	Modalities []Modality `json:"modalities"`
}

// Decode reads a Scene from r.
func Decode(r io.Reader) (Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("scene: decode: %w", err)
	}
	if len(s.Modalities) == 0 {
		return Scene{}, fmt.Errorf("scene: no modalities")
	}
	return s, nil
}

// Build converts a decoded Scene into matcher-ready Modality instances,
// each paired with a full mask covering its frame (suitable for
// template authoring via CreateAndAddTemplate).
func (s Scene) Build() ([]modality.Modality, []modality.Mask) {
	mods := make([]modality.Modality, len(s.Modalities))
	masks := make([]modality.Mask, len(s.Modalities))
	for i, m := range s.Modalities {
		seeds := make([]modality.Seed, len(m.Seeds))
		for j, sd := range m.Seeds {
			seeds[j] = modality.Seed{X: sd.X, Y: sd.Y, Bin: sd.Bin}
		}
		syn := modality.NewSynthetic(m.Width, m.Height, seeds, m.SpreadRadius)
		mods[i] = syn
		masks[i] = syn.FullMask()
	}
	return mods, masks
}
