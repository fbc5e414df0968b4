package main

import (
	"os"

	"github.com/serenlabs/lucid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
