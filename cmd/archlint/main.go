// Package main provides the CLI for the archlint architecture conformance checker.
package main

import (
	"os"

	"github.com/leapstack-labs/archlint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
