// Package template holds the append-only catalog of sparse multi-modal
// templates the matcher scores against.
package template

import (
	"fmt"

	"github.com/cwbudde/linemod/internal/feature"
	"github.com/cwbudde/linemod/internal/lmerrors"
	"github.com/cwbudde/linemod/internal/modality"
)

// Region is a template's bounding box in its authoring frame.
type Region struct {
	X, Y, W, H int32
}

// Template is a sparse set of features plus the region they were
// authored against. Feature coordinates are region-local: non-negative
// and bounded by Region.W/Region.H.
type Template struct {
	Region   Region
	Features []feature.Feature
}

// BitCount sums the orientation bits tested across every feature,
// i.e. max_score/4 for this template.
func (t Template) BitCount() int {
	n := 0
	for _, f := range t.Features {
		n += f.BitCount()
	}
	return n
}

// DefaultFeaturesPerModality is the historical fixed count the reference
// implementation requests from every modality when authoring a template.
const DefaultFeaturesPerModality = 63

// CreateOptions configures CreateAndAddTemplate. FeaturesPerModality
// defaults to DefaultFeaturesPerModality when zero, matching the
// reference's hardcoded behavior while leaving it an explicit knob.
type CreateOptions struct {
	FeaturesPerModality int
}

// Catalog is the ordered, append-only template store. A template's
// index in the catalog is its permanent identity.
type Catalog struct {
	templates []Template
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends t and returns its index.
func (c *Catalog) Add(t Template) int {
	c.templates = append(c.templates, t)
	return len(c.templates) - 1
}

// CreateAndAddTemplate requests opts.FeaturesPerModality features from
// each modality with the corresponding mask (a modality may return
// fewer), translates them to be
// relative to region's origin, and appends the resulting template.
func (c *Catalog) CreateAndAddTemplate(mods []modality.Modality, masks []modality.Mask, region Region, opts CreateOptions) (int, error) {
	if len(mods) == 0 {
		return -1, fmt.Errorf("template: %w", lmerrors.ErrEmptyInput)
	}
	if len(mods) != len(masks) {
		return -1, fmt.Errorf("template: %w: %d modalities but %d masks", lmerrors.ErrDimensionMismatch, len(mods), len(masks))
	}

	count := opts.FeaturesPerModality
	if count <= 0 {
		count = DefaultFeaturesPerModality
	}

	var features []feature.Feature
	for i, mod := range mods {
		extracted, err := mod.ExtractFeatures(masks[i], count, uint8(i))
		if err != nil {
			return -1, fmt.Errorf("template: extract features for modality %d: %w", i, err)
		}
		for _, f := range extracted {
			f.X -= region.X
			f.Y -= region.Y
			features = append(features, f)
		}
	}

	t := Template{
		Region:   Region{X: 0, Y: 0, W: region.W, H: region.H},
		Features: features,
	}
	return c.Add(t), nil
}

// Get returns the template at id.
func (c *Catalog) Get(id int) (Template, bool) {
	if id < 0 || id >= len(c.templates) {
		return Template{}, false
	}
	return c.templates[id], true
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// All returns a read-only view of every template, in catalog order.
func (c *Catalog) All() []Template {
	return c.templates
}
