package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/pipeline"
)

var (
	padOut     string
	padCount   int
	padValue   uint8
	padQuality int
)

var padCmd = &cobra.Command{
	Use:   "pad <input>",
	Short: "Surround an image with a constant border",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		img, err := loadImage(args[0])
		if err != nil {
			return err
		}
		out, err := pipeline.Pad(img, padCount, padValue)
		if err != nil {
			return fmt.Errorf("pad: %w", err)
		}
		if err := saveImage(padOut, out, padQuality); err != nil {
			return err
		}
		fmt.Printf("  %dx%d -> %dx%d  %s\n",
			img.Bounds().Dx(), img.Bounds().Dy(), out.Bounds().Dx(), out.Bounds().Dy(), padOut)
		return nil
	},
}

func init() {
	f := padCmd.Flags()
	f.StringVarP(&padOut, "out", "o", "", "output image path (required)")
	f.IntVarP(&padCount, "count", "c", 8, "border width in pixels")
	f.Uint8Var(&padValue, "value", 0, "border value of every channel")
	f.IntVarP(&padQuality, "quality", "q", 0, "jpeg quality 1-100 (0 = default)")
	_ = padCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(padCmd)
}
