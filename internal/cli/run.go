package cli

import (
	"context"
	"io"
	"os"
)

type CLIResult struct {
	ExitCode int
}

// Run is the process entrypoint. It accepts the argument slice (excluding
// argv[0]) and returns the semantic exit code plus any error.
func Run(ctx context.Context, args []string) (CLIResult, error) {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO is Run with explicit output streams, suitable for black-box tests.
// Command output goes to stdout; logs and cobra diagnostics go to stderr.
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) (CLIResult, error) {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return CLIResult{ExitCode: ExitCode(err)}, err
}
