// Package main provides the sheetlens CLI entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/sheetlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
