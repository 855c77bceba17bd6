package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/pipeline"
)

var (
	hessianFlags     imageFlags
	hessianOut       string
	hessianDet       string
	hessianTrace     string
	hessianDetThresh float64
	hessianTrThresh  float64
	hessianWindow    int
	hessianColor     string
	hessianRadius    float64
)

var hessianCmd = &cobra.Command{
	Use:   "hessian <input>",
	Short: "Render Hessian determinants and traces",
	Long: `Computes the per-pixel Hessian of <input> from second-order Sobel
derivatives. The determinant and trace maps are written stretched onto 0..255
(--det, --trace). Both maps are thresholded and reduced by non-maximum
suppression over --window; cells that do not survive on both are painted onto a
copy of the input (--out).`,
	Args: cobra.ExactArgs(1),
	RunE: runHessian,
}

func init() {
	hessianFlags.register(hessianCmd)
	f := hessianCmd.Flags()
	f.StringVarP(&hessianOut, "out", "o", "", "overlay image path")
	f.StringVar(&hessianDet, "det", "", "determinant image path")
	f.StringVar(&hessianTrace, "trace", "", "trace image path")
	f.Float64Var(&hessianDetThresh, "dt", 1e6, "determinant threshold")
	f.Float64Var(&hessianTrThresh, "tt", 0, "trace threshold")
	f.IntVarP(&hessianWindow, "window", "w", 3, "non-maximum suppression window (odd)")
	f.StringVar(&hessianColor, "color", "", "marker colour (name or #rrggbb)")
	f.Float64Var(&hessianRadius, "radius", 0, "marker radius, 0 paints single pixels")
	hessianCmd.MarkFlagsOneRequired("out", "det", "trace")
	rootCmd.AddCommand(hessianCmd)
}

func runHessian(cmd *cobra.Command, args []string) error {
	p := hessianFlags.resolve()
	f := cmd.Flags()
	if f.Changed("dt") {
		p.DetThreshold = hessianDetThresh
	}
	if f.Changed("tt") {
		p.TraceThreshold = hessianTrThresh
	}
	if f.Changed("window") {
		p.Window = hessianWindow
	}
	if f.Changed("color") {
		p.MarkerColor = hessianColor
	}
	if f.Changed("radius") {
		p.MarkerRadius = hessianRadius
	}

	_, res, err := applyFile(args[0], pipeline.OpHessian, p)
	if err != nil {
		return err
	}

	fmt.Println()
	printRange("determinants", res.Output("determinants").Raw)
	printRange("traces", res.Output("traces").Raw)
	err = saveOutputs(res, map[string]string{
		"determinants": hessianDet,
		"traces":       hessianTrace,
		"overlay":      hessianOut,
	}, hessianFlags.quality)
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}
