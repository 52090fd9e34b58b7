// Package modality defines the contract a quantized-orientation front-end
// must satisfy to be matched against. Gradient extraction, normal
// estimation, and spreading are external concerns; this package only
// pins down the shape the matching kernel consumes.
package modality

import "github.com/cwbudde/linemod/internal/feature"

// QuantizedMap is a spread quantized orientation map: one byte per
// pixel, each byte an 8-bit bitmask over orientation bins.
type QuantizedMap struct {
	Width, Height int
	Bits          []byte // len == Width*Height, row-major
}

// Mask marks which pixels of a modality's input are eligible feature
// sites (e.g. foreground segmentation for template authoring).
type Mask struct {
	Width, Height int
	Set           []bool // len == Width*Height, row-major
}

// Modality is the capability the matcher requires of a front-end, per
// the external interface contract: a spread quantized map for scoring,
// and a deterministic feature extractor for template authoring.
type Modality interface {
	// SpreadQuantizedMap returns the current frame's spread quantized
	// orientation map. Must be synchronous and side-effect free.
	SpreadQuantizedMap() (QuantizedMap, error)

	// ExtractFeatures returns up to count features drawn from pixels
	// where mask is set, tagged with modalityIndex. Order is
	// deterministic but otherwise the modality's choice.
	ExtractFeatures(mask Mask, count int, modalityIndex uint8) ([]feature.Feature, error)
}
