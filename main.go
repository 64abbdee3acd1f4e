package main

import (
	"fmt"
	"io"
	"os"

	"cmdgate/pkg/extract"
)

// Quick debug entry point: reads a command line from stdin and prints the
// enumerated leaf commands. The real CLI lives in cmd/cmdgate.
func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	cmds, err := extract.Commands(string(data))
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Println("\n--- Commands ---")
	for i, cmd := range cmds {
		fmt.Printf("[%d] %s\n", i, cmd)
	}
}
