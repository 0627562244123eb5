// Package main is the entry point for catalog-reporter.
package main

import (
	"fmt"
	"os"

	"github.com/retailscope/catalog-reporter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
