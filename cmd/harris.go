package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/pipeline"
)

var (
	harrisFlags     imageFlags
	harrisOut       string
	harrisResponse  string
	harrisK         float64
	harrisThreshold float64
	harrisColor     string
	harrisRadius    float64
)

var harrisCmd = &cobra.Command{
	Use:   "harris <input>",
	Short: "Detect corners with the Harris response",
	Long: `Computes the Harris corner response of <input>, clamps negative values and
writes it stretched onto 0..255 (--response). Cells whose response reaches
--threshold are painted onto a copy of the input (--out).`,
	Args: cobra.ExactArgs(1),
	RunE: runHarris,
}

func init() {
	harrisFlags.register(harrisCmd)
	f := harrisCmd.Flags()
	f.StringVarP(&harrisOut, "out", "o", "", "overlay image path")
	f.StringVar(&harrisResponse, "response", "", "response image path")
	f.Float64VarP(&harrisK, "k-factor", "k", 0.04, "trace weight of the response")
	f.Float64VarP(&harrisThreshold, "threshold", "t", 1e10, "minimum response of a marked corner")
	f.StringVar(&harrisColor, "color", "", "marker colour (name or #rrggbb)")
	f.Float64Var(&harrisRadius, "radius", 0, "marker radius, 0 paints single pixels")
	harrisCmd.MarkFlagsOneRequired("out", "response")
	rootCmd.AddCommand(harrisCmd)
}

func runHarris(cmd *cobra.Command, args []string) error {
	p := harrisFlags.resolve()
	f := cmd.Flags()
	if f.Changed("k-factor") {
		p.HarrisK = harrisK
	}
	if f.Changed("threshold") {
		p.HarrisThreshold = harrisThreshold
	}
	if f.Changed("color") {
		p.MarkerColor = harrisColor
	}
	if f.Changed("radius") {
		p.MarkerRadius = harrisRadius
	}

	_, res, err := applyFile(args[0], pipeline.OpHarris, p)
	if err != nil {
		return err
	}

	fmt.Println()
	printRange("response", res.Output("response").Raw)
	err = saveOutputs(res, map[string]string{
		"response": harrisResponse,
		"overlay":  harrisOut,
	}, harrisFlags.quality)
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}
