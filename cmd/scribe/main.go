package main

import (
	"os"

	"github.com/scribe-ai/scribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
