package energy

import (
	"testing"

	"github.com/cwbudde/linemod/internal/modality"
)

// TestBuildEnergyAtDistance checks the step-wise falloff the doc comment
// describes: a single bit at bin b scores 4 against its own energy
// plane, 3 at distance 1, 2 at distance 2, 1 at distance 3, and 0 at
// distance 4 (directly opposite on the 8-bin ring).
func TestBuildEnergyAtDistance(t *testing.T) {
	const testBin = 2
	q := modality.QuantizedMap{Width: 1, Height: 1, Bits: []byte{1 << testBin}}

	maps, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for b := 0; b < NumBins; b++ {
		dist := b - testBin
		if dist < 0 {
			dist = -dist
		}
		if dist > NumBins-dist {
			dist = NumBins - dist
		}
		want := byte(4 - dist)
		got := maps.Planes[b][0]
		if got != want {
			t.Errorf("plane %d (distance %d from bin %d): got %d, want %d", b, dist, testBin, got, want)
		}
	}
}

// TestBuildAdjacentBinsScoreHigh resolves an internal inconsistency
// between one worked example and the normative formula: two adjacent
// bins (distance 1) must score 3, not 1 — adjacent orientations are a
// near-miss, not a near-total mismatch, under the nested-superset
// design this formula implements.
func TestBuildAdjacentBinsScoreHigh(t *testing.T) {
	q := modality.QuantizedMap{Width: 1, Height: 1, Bits: []byte{1 << 3}}
	maps, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := maps.Planes[4][0]; got != 3 {
		t.Errorf("adjacent-bin energy = %d, want 3", got)
	}
}

func TestBuildMultiBitInput(t *testing.T) {
	// A pixel carrying bins 0 and 4 (opposite ends of the ring) should
	// score 4 against both bin 0's and bin 4's planes: each bit hits all
	// four nested tests of its own plane, and each test counts once.
	q := modality.QuantizedMap{Width: 1, Height: 1, Bits: []byte{1<<0 | 1<<4}}
	maps, err := Build(q)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := maps.Planes[0][0]; got != 4 {
		t.Errorf("plane 0 = %d, want 4", got)
	}
	if got := maps.Planes[4][0]; got != 4 {
		t.Errorf("plane 4 = %d, want 4", got)
	}
}

func TestBuildRejectsDimensionMismatch(t *testing.T) {
	_, err := Build(modality.QuantizedMap{Width: 2, Height: 2, Bits: []byte{1}})
	if err == nil {
		t.Fatal("expected a dimension-mismatch error")
	}
}

func TestBuildRejectsNonPositiveDimensions(t *testing.T) {
	_, err := Build(modality.QuantizedMap{Width: 0, Height: 0})
	if err == nil {
		t.Fatal("expected an error for non-positive dimensions")
	}
}
