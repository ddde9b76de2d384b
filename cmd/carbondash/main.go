// Package main provides the carbondash CLI.
package main

import (
	"os"

	"github.com/kilnworks/carbondash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
