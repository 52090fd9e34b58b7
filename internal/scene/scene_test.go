package scene

import (
	"strings"
	"testing"
)

const twoModalityScene = `{
  "modalities": [
    {"width": 16, "height": 16, "spread_radius": 1, "seeds": [{"x": 8, "y": 8, "bin": 0}]},
    {"width": 16, "height": 16, "spread_radius": 0, "seeds": [{"x": 1, "y": 1, "bin": 3}]}
  ]
}`

func TestDecodeAndBuild(t *testing.T) {
	sc, err := Decode(strings.NewReader(twoModalityScene))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sc.Modalities) != 2 {
		t.Fatalf("got %d modalities, want 2", len(sc.Modalities))
	}

	mods, masks := sc.Build()
	if len(mods) != 2 || len(masks) != 2 {
		t.Fatalf("Build returned %d mods, %d masks, want 2 and 2", len(mods), len(masks))
	}

	qm, err := mods[0].SpreadQuantizedMap()
	if err != nil {
		t.Fatalf("SpreadQuantizedMap: %v", err)
	}
	if qm.Bits[8*16+8] == 0 {
		t.Fatal("expected the seeded pixel to carry a bit")
	}
	if masks[0].Width != 16 || masks[0].Height != 16 {
		t.Fatalf("mask dims = %dx%d, want 16x16", masks[0].Width, masks[0].Height)
	}
}

func TestDecodeRejectsEmptyScene(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"modalities": []}`))
	if err == nil {
		t.Fatal("expected an error for a scene with no modalities")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`not json`))
	if err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}
