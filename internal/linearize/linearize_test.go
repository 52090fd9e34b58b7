package linearize

import "testing"

func makeSrc(width, height int) []byte {
	src := make([]byte, width*height)
	for i := range src {
		src[i] = byte(i % 251)
	}
	return src
}

func TestBuildPreservesValues(t *testing.T) {
	width, height := 16, 24
	src := makeSrc(width, height)

	p, err := Build(src, width, height)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.CoarseWidth != width/Step || p.CoarseHeight != height/Step {
		t.Fatalf("coarse grid %dx%d, want %dx%d", p.CoarseWidth, p.CoarseHeight, width/Step, height/Step)
	}

	for fy := 0; fy < height; fy++ {
		for fx := 0; fx < width; fx++ {
			dx, dy := fx%Step, fy%Step
			cx, cy := fx/Step, fy/Step
			got := p.Sub[dy*Step+dx][cy*p.CoarseWidth+cx]
			want := src[fy*width+fx]
			if got != want {
				t.Fatalf("(%d,%d): got %d, want %d", fx, fy, got, want)
			}
		}
	}
}

func TestBuildRejectsSizeMismatch(t *testing.T) {
	_, err := Build(make([]byte, 10), 4, 4)
	if err == nil {
		t.Fatal("expected a dimension-mismatch error")
	}
}

func TestOffsetSliceFullLengthAtOrigin(t *testing.T) {
	width, height := 16, 16
	src := makeSrc(width, height)
	p, err := Build(src, width, height)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	run := p.OffsetSlice(0, 0)
	if len(run) != p.CoarseWidth*p.CoarseHeight {
		t.Fatalf("run length = %d, want %d", len(run), p.CoarseWidth*p.CoarseHeight)
	}
}

func TestOffsetSliceTruncatesNearBoundary(t *testing.T) {
	width, height := 16, 16
	src := makeSrc(width, height)
	p, err := Build(src, width, height)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Coarse grid is 2x2. A feature at fine (15,15) maps to coarse cell
	// (1,1), the last cell of its sub-grid.
	run := p.OffsetSlice(15, 15)
	if len(run) != 1 {
		t.Fatalf("run length = %d, want 1", len(run))
	}
}

func TestOffsetSliceNegativeCoordinateWraps(t *testing.T) {
	width, height := 16, 16
	src := makeSrc(width, height)
	p, err := Build(src, width, height)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	run := p.OffsetSlice(-1, -1)
	if run == nil {
		t.Fatal("expected a non-nil run for a small negative offset")
	}
}
