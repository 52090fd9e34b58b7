// Package matcher implements the LINE-MOD sliding-window scoring kernel:
// energy maps and linearized re-layout feed a byte-temporary-then-flush
// accumulator, scored against every template in a catalog.
package matcher

import (
	"fmt"

	"github.com/cwbudde/linemod/internal/accumulate"
	"github.com/cwbudde/linemod/internal/energy"
	"github.com/cwbudde/linemod/internal/linearize"
	"github.com/cwbudde/linemod/internal/lmerrors"
	"github.com/cwbudde/linemod/internal/modality"
	"github.com/cwbudde/linemod/internal/persist"
	"github.com/cwbudde/linemod/internal/template"
)

// flushEvery is the feature count after which the byte temporary is
// widened into the 16-bit accumulator. It assumes canonical features: at
// most one orientation bit set, so each feature adds at most 4 per cell
// and 63 features add at most 252, which never overflows a byte.
const flushEvery = 63

// Matcher owns a template catalog and the threshold/NMS/averaging
// settings DetectTemplates applies.
type Matcher struct {
	cfg     Config
	catalog *template.Catalog
}

// New returns an empty matcher configured with cfg.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg, catalog: template.NewCatalog()}
}

// AddTemplate appends an already-built template and returns its id.
func (m *Matcher) AddTemplate(t template.Template) int {
	return m.catalog.Add(t)
}

// CreateAndAddTemplate extracts features from mods/masks and appends the
// resulting template.
func (m *Matcher) CreateAndAddTemplate(mods []modality.Modality, masks []modality.Mask, region template.Region, opts template.CreateOptions) (int, error) {
	return m.catalog.CreateAndAddTemplate(mods, masks, region, opts)
}

// SetTemplateThreshold sets τ for subsequent DetectTemplates calls.
func (m *Matcher) SetTemplateThreshold(threshold float32) { m.cfg.TemplateThreshold = threshold }

// SetUseNonMaxSuppression toggles 3x3 coarse-grid NMS.
func (m *Matcher) SetUseNonMaxSuppression(enabled bool) { m.cfg.UseNonMaxSuppression = enabled }

// SetAverageDetections toggles score-weighted coordinate averaging.
func (m *Matcher) SetAverageDetections(enabled bool) { m.cfg.AverageDetections = enabled }

// SaveTemplates writes the catalog to path in the fixed binary layout.
func (m *Matcher) SaveTemplates(path string) error {
	return persist.Save(path, m.catalog.All())
}

// LoadTemplates replaces the catalog with the templates stored at path.
func (m *Matcher) LoadTemplates(path string) error {
	templates, err := persist.Load(path)
	if err != nil {
		return err
	}
	c := template.NewCatalog()
	for _, t := range templates {
		c.Add(t)
	}
	m.catalog = c
	return nil
}

// TemplateCount returns the number of templates currently in the catalog.
func (m *Matcher) TemplateCount() int {
	return m.catalog.Len()
}

// Templates returns a read-only view of the catalog, in id order.
func (m *Matcher) Templates() []template.Template {
	return m.catalog.All()
}

// modalityPlanes holds the eight linearized energy planes for one
// modality, indexed by bin.
type modalityPlanes [energy.NumBins]linearize.Plane

// buildPlanes spreads and linearizes every modality's quantized map,
// verifying all modalities agree on width and height.
func buildPlanes(mods []modality.Modality) ([]modalityPlanes, int, int, error) {
	if len(mods) == 0 {
		return nil, 0, 0, fmt.Errorf("matcher: %w", lmerrors.ErrEmptyInput)
	}

	planes := make([]modalityPlanes, len(mods))
	var width, height, coarseWidth, coarseHeight int
	for i, mod := range mods {
		qm, err := mod.SpreadQuantizedMap()
		if err != nil {
			return nil, 0, 0, fmt.Errorf("matcher: modality %d: %w", i, err)
		}
		maps, err := energy.Build(qm)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("matcher: modality %d: %w", i, err)
		}

		var mp modalityPlanes
		for b := 0; b < energy.NumBins; b++ {
			p, err := linearize.Build(maps.Planes[b], maps.Width, maps.Height)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("matcher: modality %d bin %d: %w", i, b, err)
			}
			mp[b] = p
		}

		if i == 0 {
			width, height = maps.Width, maps.Height
			coarseWidth, coarseHeight = mp[0].CoarseWidth, mp[0].CoarseHeight
			if coarseWidth <= 0 || coarseHeight <= 0 {
				return nil, 0, 0, fmt.Errorf("matcher: %w: coarse grid %dx%d is empty, input smaller than linearize.Step", lmerrors.ErrDimensionMismatch, coarseWidth, coarseHeight)
			}
		} else if maps.Width != width || maps.Height != height {
			return nil, 0, 0, fmt.Errorf("matcher: %w: modality %d is %dx%d, want %dx%d", lmerrors.ErrDimensionMismatch, i, maps.Width, maps.Height, width, height)
		}
		planes[i] = mp
	}
	return planes, coarseWidth, coarseHeight, nil
}

// scoreTemplate runs the sliding-window accumulation for a single
// template and returns its coarse score grid S plus max_score (4 times
// the number of feature bits tested).
func scoreTemplate(t template.Template, planes []modalityPlanes, coarseWidth, coarseHeight int) ([]uint16, int, error) {
	size := coarseWidth * coarseHeight
	S := make([]uint16, size)
	tmp := make([]byte, size)

	maxScore := 0
	sinceFlush := 0
	for _, f := range t.Features {
		if int(f.ModalityIndex) >= len(planes) {
			return nil, 0, fmt.Errorf("matcher: feature references modality %d but only %d were provided", f.ModalityIndex, len(planes))
		}
		mp := planes[f.ModalityIndex]
		for b := 0; b < energy.NumBins; b++ {
			if f.BinMask&(1<<uint(b)) == 0 {
				continue
			}
			maxScore += 4
			run := mp[b].OffsetSlice(f.X, f.Y)
			if len(run) == 0 {
				continue
			}
			accumulate.Add(tmp[:len(run)], run)
		}

		sinceFlush++
		if sinceFlush > flushEvery-1 {
			accumulate.FlushInto(S, tmp)
			for i := range tmp {
				tmp[i] = 0
			}
			sinceFlush = 0
		}
	}
	accumulate.FlushInto(S, tmp)
	return S, maxScore, nil
}

// MatchTemplates returns, for every template in the catalog in id order,
// the single best-scoring coarse cell: the first cell attaining the
// maximum score, with no threshold applied.
func (m *Matcher) MatchTemplates(mods []modality.Modality) ([]Detection, error) {
	if m.catalog.Len() == 0 {
		return nil, fmt.Errorf("matcher: %w", lmerrors.ErrEmptyInput)
	}
	planes, coarseWidth, coarseHeight, err := buildPlanes(mods)
	if err != nil {
		return nil, err
	}

	templates := m.catalog.All()
	detections := make([]Detection, len(templates))
	for id, t := range templates {
		S, maxScore, err := scoreTemplate(t, planes, coarseWidth, coarseHeight)
		if err != nil {
			return nil, fmt.Errorf("matcher: template %d: %w", id, err)
		}

		var bestVal uint16
		bestIdx := 0
		for i, v := range S {
			if v > bestVal {
				bestVal = v
				bestIdx = i
			}
		}

		var score float32
		if maxScore > 0 {
			score = float32(bestVal) / float32(maxScore)
		}
		row, col := bestIdx/coarseWidth, bestIdx%coarseWidth
		detections[id] = Detection{
			X:          int32(col * linearize.Step),
			Y:          int32(row * linearize.Step),
			TemplateID: id,
			Score:      score,
		}
	}
	return detections, nil
}

// DetectTemplates returns every coarse cell, across every template,
// whose score exceeds the configured threshold. raw_threshold is
// max_score/2 + τ·max_score/2, i.e. halfway between a 50% match and a
// perfect one, scaled by τ. Detections are ordered by template id, then
// row-major within a template.
func (m *Matcher) DetectTemplates(mods []modality.Modality) ([]Detection, error) {
	if m.catalog.Len() == 0 {
		return nil, fmt.Errorf("matcher: %w", lmerrors.ErrEmptyInput)
	}
	planes, coarseWidth, coarseHeight, err := buildPlanes(mods)
	if err != nil {
		return nil, err
	}

	var detections []Detection
	for id, t := range m.catalog.All() {
		S, maxScore, err := scoreTemplate(t, planes, coarseWidth, coarseHeight)
		if err != nil {
			return nil, fmt.Errorf("matcher: template %d: %w", id, err)
		}
		detections = append(detections, m.detectInTemplate(S, maxScore, coarseWidth, coarseHeight, id)...)
	}
	return detections, nil
}

func (m *Matcher) detectInTemplate(S []uint16, maxScore, coarseWidth, coarseHeight, templateID int) []Detection {
	if maxScore == 0 {
		return nil
	}
	rawThreshold := float32(maxScore)/2 + m.cfg.TemplateThreshold*float32(maxScore)/2
	invMax := 1 / float32(maxScore)

	var out []Detection
	for idx, v := range S {
		if float32(v) <= rawThreshold {
			continue
		}
		row, col := idx/coarseWidth, idx%coarseWidth
		if m.cfg.UseNonMaxSuppression && !isLocalMax(S, coarseWidth, coarseHeight, row, col) {
			continue
		}

		var x, y int32
		if m.cfg.AverageDetections {
			x, y = averageCenter(S, coarseWidth, coarseHeight, row, col)
		} else {
			x, y = int32(col*linearize.Step), int32(row*linearize.Step)
		}
		out = append(out, Detection{X: x, Y: y, TemplateID: templateID, Score: float32(v) * invMax})
	}
	return out
}
