package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/gridio"
	"github.com/simmplecoder/flash/internal/pipeline"
)

var (
	diffuseFlags      imageFlags
	diffuseOut        string
	diffuseDump       string
	diffuseKappa      float64
	diffuseIterations int
	diffuseScheme     int
	diffuseChannels   bool
)

var diffuseCmd = &cobra.Command{
	Use:   "diffuse <input>",
	Short: "Smooth an image with Perona-Malik diffusion",
	Long: `Runs edge-preserving anisotropic diffusion over <input>. Gradients well below
--kappa are smoothed, steeper ones are kept. With --channels every colour
channel diffuses independently, otherwise the gray level does.

--dump additionally writes the unrounded result as a .fgrid file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiffuse,
}

func init() {
	diffuseFlags.register(diffuseCmd)
	f := diffuseCmd.Flags()
	f.StringVarP(&diffuseOut, "out", "o", "", "output image path (required)")
	f.StringVar(&diffuseDump, "dump", "", "write the float result to this "+gridio.Extension+" file")
	f.Float64VarP(&diffuseKappa, "kappa", "k", 30, "edge threshold of the conduction function")
	f.IntVarP(&diffuseIterations, "iterations", "n", 10, "number of diffusion steps")
	f.IntVar(&diffuseScheme, "scheme", 4, "neighbourhood: 4 or 8")
	f.BoolVar(&diffuseChannels, "channels", false, "diffuse colour channels instead of luminance")
	_ = diffuseCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(diffuseCmd)
}

func runDiffuse(cmd *cobra.Command, args []string) error {
	p := diffuseFlags.resolve()
	f := cmd.Flags()
	if f.Changed("kappa") {
		p.Kappa = diffuseKappa
	}
	if f.Changed("iterations") {
		p.Iterations = diffuseIterations
	}
	if f.Changed("scheme") {
		p.Scheme = diffuseScheme
	}
	if f.Changed("channels") {
		p.Channels = diffuseChannels
	}

	_, res, err := applyFile(args[0], pipeline.OpDiffuse, p)
	if err != nil {
		return err
	}
	out := res.Output("diffused").Raw

	fmt.Println()
	fmt.Printf("  %-14s kappa=%g iterations=%d scheme=%d\n", "parameters:", p.Kappa, p.Iterations, p.Scheme)
	printRange("before", res.Source)
	printRange("after", out)
	fmt.Printf("  %-14s %s -> %s\n", "mass:", formatMass(grid.Sum(res.Source)), formatMass(grid.Sum(out)))
	if err := saveOutputs(res, map[string]string{"diffused": diffuseOut}, diffuseFlags.quality); err != nil {
		return err
	}
	if diffuseDump != "" {
		if err := gridio.WriteFile(diffuseDump, out); err != nil {
			return fmt.Errorf("dump %s: %w", diffuseDump, err)
		}
		fmt.Printf("  %-14s %s\n", "raw:", diffuseDump)
	}
	fmt.Println()
	return nil
}

func formatMass(sums []float64) string {
	parts := make([]string, len(sums))
	for i, s := range sums {
		parts[i] = fmt.Sprintf("%.0f", s)
	}
	return strings.Join(parts, " ")
}
