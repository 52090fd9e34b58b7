package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/linemod/internal/matcher"
)

var inspectCatalogPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of a template catalog",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectCatalogPath, "catalog", "templates.bin", "Template catalog to load")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	m := matcher.New(matcher.DefaultConfig())
	if err := m.LoadTemplates(inspectCatalogPath); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	fmt.Printf("catalog: %s\n", inspectCatalogPath)
	fmt.Printf("templates: %d\n", m.TemplateCount())
	for id, t := range m.Templates() {
		fmt.Printf("  [%d] region=%dx%d+%d+%d features=%d bits=%d max_score=%d\n",
			id, t.Region.W, t.Region.H, t.Region.X, t.Region.Y, len(t.Features), t.BitCount(), t.BitCount()*4)
	}
	return nil
}
