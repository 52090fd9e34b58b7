package template

import (
	"testing"

	"github.com/cwbudde/linemod/internal/feature"
	"github.com/cwbudde/linemod/internal/modality"
)

func TestTemplateBitCount(t *testing.T) {
	tmpl := Template{Features: []feature.Feature{
		{BinMask: 0x01},
		{BinMask: 0x03},
		{BinMask: 0xFF},
	}}
	if got := tmpl.BitCount(); got != 11 {
		t.Fatalf("BitCount() = %d, want 11", got)
	}
}

func TestCatalogAddAndGet(t *testing.T) {
	c := NewCatalog()
	id := c.Add(Template{Region: Region{W: 10, H: 10}})
	if id != 0 {
		t.Fatalf("first id = %d, want 0", id)
	}
	got, ok := c.Get(0)
	if !ok {
		t.Fatal("Get(0) not found")
	}
	if got.Region.W != 10 {
		t.Fatalf("Region.W = %d, want 10", got.Region.W)
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("Get(1) should not be found in a one-template catalog")
	}
}

func TestCreateAndAddTemplateTranslatesToRegionOrigin(t *testing.T) {
	syn := modality.NewSynthetic(20, 20, []modality.Seed{
		{X: 12, Y: 14, Bin: 1},
		{X: 15, Y: 16, Bin: 5},
	}, 0)
	mask := syn.FullMask()

	c := NewCatalog()
	region := Region{X: 10, Y: 10, W: 8, H: 8}
	id, err := c.CreateAndAddTemplate(
		[]modality.Modality{syn},
		[]modality.Mask{mask},
		region,
		CreateOptions{FeaturesPerModality: 10},
	)
	if err != nil {
		t.Fatalf("CreateAndAddTemplate: %v", err)
	}

	tmpl, ok := c.Get(id)
	if !ok {
		t.Fatal("template not found")
	}
	if tmpl.Region.X != 0 || tmpl.Region.Y != 0 {
		t.Fatalf("stored region origin = (%d,%d), want (0,0)", tmpl.Region.X, tmpl.Region.Y)
	}
	if tmpl.Region.W != 8 || tmpl.Region.H != 8 {
		t.Fatalf("stored region size = %dx%d, want 8x8", tmpl.Region.W, tmpl.Region.H)
	}
	if len(tmpl.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(tmpl.Features))
	}
	if tmpl.Features[0].X != 2 || tmpl.Features[0].Y != 4 {
		t.Errorf("feature[0] = (%d,%d), want (2,4)", tmpl.Features[0].X, tmpl.Features[0].Y)
	}
	if tmpl.Features[1].X != 5 || tmpl.Features[1].Y != 6 {
		t.Errorf("feature[1] = (%d,%d), want (5,6)", tmpl.Features[1].X, tmpl.Features[1].Y)
	}
}

func TestCreateAndAddTemplateRejectsMismatchedCounts(t *testing.T) {
	c := NewCatalog()
	syn := modality.NewSynthetic(4, 4, nil, 0)
	_, err := c.CreateAndAddTemplate(
		[]modality.Modality{syn},
		[]modality.Mask{},
		Region{W: 4, H: 4},
		CreateOptions{},
	)
	if err == nil {
		t.Fatal("expected an error for mismatched modality/mask counts")
	}
}

func TestCreateAndAddTemplateRejectsEmptyModalities(t *testing.T) {
	c := NewCatalog()
	_, err := c.CreateAndAddTemplate(nil, nil, Region{}, CreateOptions{})
	if err == nil {
		t.Fatal("expected an error for no modalities")
	}
}
