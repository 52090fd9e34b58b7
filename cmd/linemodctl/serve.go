package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cwbudde/linemod/internal/matcher"
	"github.com/cwbudde/linemod/internal/modality"
	"github.com/cwbudde/linemod/internal/runlog"
	"github.com/cwbudde/linemod/internal/scene"
	"github.com/cwbudde/linemod/internal/server"
)

var (
	serveAddr        string
	serveCatalogPath string
	serveThreshold   float32
	serveUseNMS      bool
	serveAverage     bool
	serveRunLogPath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a thin HTTP inspection endpoint over a template catalog",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveCatalogPath, "catalog", "templates.bin", "Template catalog to load")
	serveCmd.Flags().Float32Var(&serveThreshold, "threshold", 0.75, "Detection threshold τ in [0,1]")
	serveCmd.Flags().BoolVar(&serveUseNMS, "nms", false, "Enable 3x3 non-max suppression")
	serveCmd.Flags().BoolVar(&serveAverage, "average", false, "Average surviving coordinates over their 3x3 neighborhood")
	serveCmd.Flags().StringVar(&serveRunLogPath, "run-log", "", "Path to an append-only JSON run log (disabled if empty)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := matcher.Config{TemplateThreshold: serveThreshold, UseNonMaxSuppression: serveUseNMS, AverageDetections: serveAverage}
	m := matcher.New(cfg)
	if err := m.LoadTemplates(serveCatalogPath); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var log *runlog.Log
	if serveRunLogPath != "" {
		l, err := runlog.Open(serveRunLogPath)
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}
		log = l
	}

	source := func(r *http.Request) ([]modality.Modality, error) {
		defer r.Body.Close()
		sc, err := scene.Decode(r.Body)
		if err != nil {
			return nil, err
		}
		mods, _ := sc.Build()
		return mods, nil
	}

	srv := server.New(serveAddr, m, source, log)
	return srv.Start()
}
