// Package persist implements the fixed binary layout used to save and
// load a template catalog: no header, no version tag, no endianness
// marker — the reference format this one matches also has none. Little-
// endian is used throughout since that is what every machine in the
// retrieval pack actually runs on.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/linemod/internal/feature"
	"github.com/cwbudde/linemod/internal/lmerrors"
	"github.com/cwbudde/linemod/internal/template"
)

var order = binary.LittleEndian

// Save writes templates to path as a fresh file, truncating any
// existing content.
func Save(path string, templates []template.Template) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeCatalog(w, templates); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	return f.Close()
}

func writeCatalog(w io.Writer, templates []template.Template) error {
	if err := binary.Write(w, order, uint32(len(templates))); err != nil {
		return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	for _, t := range templates {
		if err := writeTemplate(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTemplate(w io.Writer, t template.Template) error {
	region := [4]int32{t.Region.X, t.Region.Y, t.Region.W, t.Region.H}
	if err := binary.Write(w, order, region); err != nil {
		return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	if err := binary.Write(w, order, uint32(len(t.Features))); err != nil {
		return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	for _, f := range t.Features {
		if err := binary.Write(w, order, f.ModalityIndex); err != nil {
			return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
		}
		if err := binary.Write(w, order, f.X); err != nil {
			return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
		}
		if err := binary.Write(w, order, f.Y); err != nil {
			return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
		}
		if err := binary.Write(w, order, f.BinMask); err != nil {
			return fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
		}
	}
	return nil
}

// Load reads a template catalog previously written by Save. A failure
// to open the file is reported as lmerrors.ErrIO; any field that cannot
// be read from the stream (a truncated stream, a count the remaining
// bytes can't satisfy) is reported as lmerrors.ErrCorruptStream.
func Load(path string) ([]template.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %w: %v", lmerrors.ErrIO, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	templates, err := readCatalog(r)
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func readCatalog(r io.Reader) ([]template.Template, error) {
	var count uint32
	if err := binary.Read(r, order, &count); err != nil {
		return nil, fmt.Errorf("persist: %w: reading template count: %v", lmerrors.ErrCorruptStream, err)
	}

	templates := make([]template.Template, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		t, err := readTemplate(r)
		if err != nil {
			return nil, fmt.Errorf("persist: template %d: %w", i, err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func readTemplate(r io.Reader) (template.Template, error) {
	var region [4]int32
	if err := binary.Read(r, order, &region); err != nil {
		return template.Template{}, fmt.Errorf("%w: reading region: %v", lmerrors.ErrCorruptStream, err)
	}

	var featureCount uint32
	if err := binary.Read(r, order, &featureCount); err != nil {
		return template.Template{}, fmt.Errorf("%w: reading feature count: %v", lmerrors.ErrCorruptStream, err)
	}

	features := make([]feature.Feature, 0, min(featureCount, 1024))
	for i := uint32(0); i < featureCount; i++ {
		var f feature.Feature
		if err := binary.Read(r, order, &f.ModalityIndex); err != nil {
			return template.Template{}, fmt.Errorf("%w: reading feature %d modality index: %v", lmerrors.ErrCorruptStream, i, err)
		}
		if err := binary.Read(r, order, &f.X); err != nil {
			return template.Template{}, fmt.Errorf("%w: reading feature %d x: %v", lmerrors.ErrCorruptStream, i, err)
		}
		if err := binary.Read(r, order, &f.Y); err != nil {
			return template.Template{}, fmt.Errorf("%w: reading feature %d y: %v", lmerrors.ErrCorruptStream, i, err)
		}
		if err := binary.Read(r, order, &f.BinMask); err != nil {
			return template.Template{}, fmt.Errorf("%w: reading feature %d bin mask: %v", lmerrors.ErrCorruptStream, i, err)
		}
		features = append(features, f)
	}

	return template.Template{
		Region:   template.Region{X: region[0], Y: region[1], W: region[2], H: region[3]},
		Features: features,
	}, nil
}
