package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/linemod/internal/matcher"
	"github.com/cwbudde/linemod/internal/modality"
	"github.com/cwbudde/linemod/internal/scene"
)

var (
	matchScenePath   string
	matchCatalogPath string
	matchThreshold   float32
	matchUseNMS      bool
	matchAverage     bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Report the best-scoring location for every template, no threshold",
	RunE:  runMatch,
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report every location scoring above threshold, across all templates",
	RunE:  runDetect,
}

func init() {
	for _, c := range []*cobra.Command{matchCmd, detectCmd} {
		c.Flags().StringVar(&matchScenePath, "scene", "", "Path to a scene JSON file (required)")
		c.Flags().StringVar(&matchCatalogPath, "catalog", "templates.bin", "Template catalog to load")
		c.MarkFlagRequired("scene")
	}
	detectCmd.Flags().Float32Var(&matchThreshold, "threshold", 0.75, "Detection threshold τ in [0,1]")
	detectCmd.Flags().BoolVar(&matchUseNMS, "nms", false, "Enable 3x3 non-max suppression")
	detectCmd.Flags().BoolVar(&matchAverage, "average", false, "Average surviving coordinates over their 3x3 neighborhood")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(detectCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	m := matcher.New(matcher.DefaultConfig())
	if err := m.LoadTemplates(matchCatalogPath); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	mods, err := decodeSceneModalities(matchScenePath)
	if err != nil {
		return err
	}

	detections, err := m.MatchTemplates(mods)
	if err != nil {
		return fmt.Errorf("match templates: %w", err)
	}
	return printDetections(detections)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := matcher.Config{TemplateThreshold: matchThreshold, UseNonMaxSuppression: matchUseNMS, AverageDetections: matchAverage}
	m := matcher.New(cfg)
	if err := m.LoadTemplates(matchCatalogPath); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	mods, err := decodeSceneModalities(matchScenePath)
	if err != nil {
		return err
	}

	detections, err := m.DetectTemplates(mods)
	if err != nil {
		return fmt.Errorf("detect templates: %w", err)
	}
	return printDetections(detections)
}

func decodeSceneModalities(path string) ([]modality.Modality, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	sc, err := scene.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	mods, _ := sc.Build()
	return mods, nil
}

func printDetections(detections []matcher.Detection) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(detections)
}
