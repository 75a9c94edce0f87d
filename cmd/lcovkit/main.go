package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/lcovkit/cmd/lcovkit/app"
)

func main() {
	if err := app.NewLcovkitCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
