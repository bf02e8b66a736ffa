// Command dealscout serves the deal search API and runs one-off searches from the terminal.
package main

import (
	"fmt"
	"os"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
