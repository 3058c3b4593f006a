package main

import (
	"os"

	"github.com/blockberries/cfdate/cmd/cfdate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
