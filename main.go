package main

import (
	"os"

	"github.com/simmplecoder/flash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
