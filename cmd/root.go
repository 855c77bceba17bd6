package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flash",
	Short: "Gradient, corner and diffusion operators for raster images",
	Long: `flash runs Sobel gradients, Harris and Hessian structure detectors and
Perona-Malik anisotropic diffusion over images, one at a time or over whole
directories.

Responses are remapped to 8-bit images; detector hits are drawn as markers
over the source. Batch runs write content-addressed outputs, optional
lossless .fgrid dumps of the raw values, and a manifest.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupts cancel batch runs.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"flash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[flash] "+format+"\n", args...)
	}
}
