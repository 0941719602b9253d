package main

import (
	"context"
	"fmt"
	"os"

	"tasktracker/internal/cli"
)

// main is a thin boundary: all parsing and task logic live in internal/cli,
// which returns a semantic exit code instead of exiting itself.
func main() {
	result, err := cli.Run(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(result.ExitCode)
}
