// Command extract-cmds reads a shell command line from stdin and prints
// every leaf command it would invoke, one per line. Useful for inspecting
// what cmdgate will evaluate.
package main

import (
	"fmt"
	"io"
	"os"

	"cmdgate/pkg/extract"
)

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
	for _, cmd := range cmds {
		fmt.Println(cmd)
	}
}
