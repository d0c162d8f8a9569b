package main

import (
	"os"

	"github.com/ferro-gianluca-29/microgrid-simulator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
