// Package main is the entry point for the pastesearch CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/pastesearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
