// Package main provides the chainconf CLI for inspecting and checking the
// contract toolchain configuration.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorRed(os.Stderr, "Error:"), err)
		os.Exit(1)
	}
}
