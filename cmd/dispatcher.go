package cmd

import (
	"fmt"
	"io"
	"os"
)

// MainDispatcher runs "gtaiconv <subcommand>" and returns the exit code.
func MainDispatcher(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(out, "Available applets: posix2tai,tai2posix,range,leapinfo,gtailocal")
		return 1
	}

	root := newRootCommand(newApp())
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		return exitFailure
	}
	return 0
}
