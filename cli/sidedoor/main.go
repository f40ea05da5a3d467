package main

import (
	"os"

	sidedoorcmder "github.com/papercomputeco/sidedoor/cmd/sidedoor"
)

func main() {
	cmd := sidedoorcmder.NewSidedoorCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
