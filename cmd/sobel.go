package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/pipeline"
)

var (
	sobelFlags imageFlags
	sobelOut   string
	sobelAxis  string
)

var sobelCmd = &cobra.Command{
	Use:   "sobel <input>",
	Short: "Render the Sobel gradient of an image",
	Long: `Convolves the gray level of <input> with a 3x3 Sobel kernel and writes the
response stretched onto 0..255. --axis selects the horizontal (x) or vertical
(y) derivative, or the gradient magnitude of both.`,
	Args: cobra.ExactArgs(1),
	RunE: runSobel,
}

func init() {
	sobelFlags.register(sobelCmd)
	sobelCmd.Flags().StringVarP(&sobelOut, "out", "o", "", "output image path (required)")
	sobelCmd.Flags().StringVar(&sobelAxis, "axis", "both", "derivative axis: x, y or both")
	_ = sobelCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(sobelCmd)
}

func runSobel(cmd *cobra.Command, args []string) error {
	p := sobelFlags.resolve()
	if cmd.Flags().Changed("axis") {
		p.Axis = sobelAxis
	}

	_, res, err := applyFile(args[0], pipeline.OpSobel, p)
	if err != nil {
		return err
	}

	fmt.Println()
	printRange("gradient", res.Output("sobel").Raw)
	if err := saveOutputs(res, map[string]string{"sobel": sobelOut}, sobelFlags.quality); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
