package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/linemod/internal/matcher"
	"github.com/cwbudde/linemod/internal/scene"
	"github.com/cwbudde/linemod/internal/template"
)

var (
	buildScenePath string
	buildOutPath   string
	buildRegionX   int32
	buildRegionY   int32
	buildRegionW   int32
	buildRegionH   int32
	buildFeatures  int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Author a template from a synthetic scene and append it to a catalog",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildScenePath, "scene", "", "Path to a scene JSON file (required)")
	buildCmd.Flags().StringVar(&buildOutPath, "out", "templates.bin", "Catalog file to append to")
	buildCmd.Flags().Int32Var(&buildRegionX, "region-x", 0, "Authoring region origin x")
	buildCmd.Flags().Int32Var(&buildRegionY, "region-y", 0, "Authoring region origin y")
	buildCmd.Flags().Int32Var(&buildRegionW, "region-w", 0, "Authoring region width (0 = scene width)")
	buildCmd.Flags().Int32Var(&buildRegionH, "region-h", 0, "Authoring region height (0 = scene height)")
	buildCmd.Flags().IntVar(&buildFeatures, "features", template.DefaultFeaturesPerModality, "Features to extract per modality")

	buildCmd.MarkFlagRequired("scene")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	f, err := os.Open(buildScenePath)
	if err != nil {
		return fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	sc, err := scene.Decode(f)
	if err != nil {
		return fmt.Errorf("decode scene: %w", err)
	}
	mods, masks := sc.Build()

	region := template.Region{X: buildRegionX, Y: buildRegionY, W: buildRegionW, H: buildRegionH}
	if region.W == 0 {
		region.W = int32(sc.Modalities[0].Width)
	}
	if region.H == 0 {
		region.H = int32(sc.Modalities[0].Height)
	}

	m := matcher.New(matcher.DefaultConfig())
	if _, statErr := os.Stat(buildOutPath); statErr == nil {
		if err := m.LoadTemplates(buildOutPath); err != nil {
			return fmt.Errorf("load existing catalog: %w", err)
		}
	}

	id, err := m.CreateAndAddTemplate(mods, masks, region, template.CreateOptions{FeaturesPerModality: buildFeatures})
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	if err := m.SaveTemplates(buildOutPath); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	slog.Info("template built", "id", id, "catalog", buildOutPath, "total_templates", m.TemplateCount())
	return nil
}
