// Package server exposes the matcher over HTTP: a catalog summary, JSON
// match and detection endpoints, and a PNG that marks each template's
// best-match location. It deliberately carries no job queue or streaming
// machinery — matching is synchronous and fast enough to answer inline.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/linemod/internal/lmerrors"
	"github.com/cwbudde/linemod/internal/matcher"
	"github.com/cwbudde/linemod/internal/modality"
	"github.com/cwbudde/linemod/internal/runlog"
)

// ModalitySource builds the live modalities to score a request's frame
// against. Supplied by the caller since frame acquisition is outside
// this package's concern.
type ModalitySource func(r *http.Request) ([]modality.Modality, error)

// Server answers detection requests against a single matcher instance.
type Server struct {
	m       *matcher.Matcher
	source  ModalitySource
	addr    string
	log     *runlog.Log
	httpSrv *http.Server
}

// New returns a Server. log may be nil to disable run history.
func New(addr string, m *matcher.Matcher, source ModalitySource, log *runlog.Log) *Server {
	return &Server{m: m, source: source, addr: addr, log: log}
}

// Start builds the mux and blocks serving it until the listener fails
// or ListenAndServe returns.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/templates", s.handleTemplates)
	mux.HandleFunc("/v1/detect", s.handleDetect)
	mux.HandleFunc("/v1/match", s.handleMatch)
	mux.HandleFunc("/v1/heatmap", s.handleHeatmap)

	handler := s.loggingMiddleware(mux)
	s.httpSrv = &http.Server{Addr: s.addr, Handler: handler}

	slog.Info("starting detection server", "addr", s.addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "request_id", requestID, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "templates": s.m.TemplateCount()})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"count": s.m.TemplateCount()})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	s.runAndRespond(w, r, "match", s.m.MatchTemplates)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	s.runAndRespond(w, r, "detect", s.m.DetectTemplates)
}

func (s *Server) runAndRespond(w http.ResponseWriter, r *http.Request, op string, run func([]modality.Modality) ([]matcher.Detection, error)) {
	start := time.Now()
	mods, err := s.source(r)
	if err != nil {
		s.logRun(op, 0, time.Since(start), err)
		http.Error(w, fmt.Sprintf("acquire frame: %v", err), http.StatusBadRequest)
		return
	}

	detections, err := run(mods)
	s.logRun(op, len(detections), time.Since(start), err)
	if err != nil {
		writeMatcherError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"detections": detections})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	mods, err := s.source(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("acquire frame: %v", err), http.StatusBadRequest)
		return
	}

	detections, err := s.m.MatchTemplates(mods)
	if err != nil {
		writeMatcherError(w, err)
		return
	}

	img := renderHeatmap(detections)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, img); err != nil {
		slog.Error("encode heatmap png", "error", err)
	}
}

// renderHeatmap draws one pixel per template at its best match
// location, brightness proportional to score. It is a coarse debugging
// aid, not a visualization of the full score grid.
func renderHeatmap(detections []matcher.Detection) image.Image {
	var maxX, maxY int32
	for _, d := range detections {
		if d.X > maxX {
			maxX = d.X
		}
		if d.Y > maxY {
			maxY = d.Y
		}
	}
	img := image.NewGray(image.Rect(0, 0, int(maxX)+1, int(maxY)+1))
	for _, d := range detections {
		v := uint8(d.Score * 255)
		img.SetGray(int(d.X), int(d.Y), color.Gray{Y: v})
	}
	return img
}

func (s *Server) logRun(op string, count int, dur time.Duration, err error) {
	if s.log == nil {
		return
	}
	entry := runlog.Entry{
		Operation:      op,
		TemplateCount:  s.m.TemplateCount(),
		DetectionCount: count,
		DurationMS:     float64(dur.Microseconds()) / 1000,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if logErr := s.log.Append(entry); logErr != nil {
		slog.Warn("failed to append run log", "error", logErr)
	}
}

func writeMatcherError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lmerrors.ErrEmptyInput), errors.Is(err, lmerrors.ErrDimensionMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
