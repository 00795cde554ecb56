package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/kernel"
	"github.com/chazu/cellwfc/pkg/kernel/sdfx"
	"github.com/chazu/cellwfc/pkg/preview"
	"github.com/chazu/cellwfc/pkg/slot"
)

var previewCmd = &cobra.Command{
	Use:   "preview <script.wfc>",
	Short: "Mesh each module and print its triangle count",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().Int("resolution", sdfx.DefaultMeshCells, "marching cubes cells along the longest side")
	previewCmd.Flags().Bool("reserved", false, "also mesh the empty and out modules")
	previewCmd.Flags().Bool("slots", false, "also mesh the world slots")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	resolution, _ := cmd.Flags().GetInt("resolution")
	reserved, _ := cmd.Flags().GetBool("reserved")
	withSlots, _ := cmd.Flags().GetBool("slots")

	cat, compiled, err := compileScript(commandContext(cmd), args[0], cfg, logger)
	if err != nil {
		return err
	}

	k := sdfx.NewWithResolution(resolution)
	opts := preview.Options{IncludeReserved: reserved}
	meshes, err := preview.Modules(k, compiled.Modules, opts)
	if err != nil {
		return err
	}

	if withSlots {
		doc, err := worldDocument(cat, compiled, cfg)
		if err != nil {
			return err
		}
		slots, err := doc.ToSlots(grid.WorldXY)
		if err != nil {
			return err
		}
		slotMeshes, err := preview.Slots(k, slots, opts)
		if err != nil {
			return err
		}
		meshes = append(meshes, slotMeshes...)
		logger.Debug("meshed slots", "count", len(slotMeshes), "categories", categoryCounts(slots))
	}

	printMeshes(cmd, meshes)
	return nil
}

func printMeshes(cmd *cobra.Command, meshes []*kernel.Mesh) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTRIANGLES\tVERTICES\tSIZE\tCOLOR")
	for _, m := range meshes {
		size := m.Size()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2fx%.2fx%.2f\t%s\n",
			m.Name, m.TriangleCount(), m.VertexCount(), size[0], size[1], size[2], m.Color)
	}
	tw.Flush()
}

func categoryCounts(slots []slot.Slot) map[string]int {
	counts := make(map[string]int)
	for _, s := range slots {
		counts[s.ColorCategory().String()]++
	}
	return counts
}
