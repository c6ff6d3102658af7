package main

import (
	"fmt"
	"os"

	"github.com/handiism/cmcol/internal/config"
	"github.com/handiism/cmcol/internal/tui"
)

func main() {
	path := config.DefaultPath()

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := tui.Run(settings, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
