package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/prr/internal/cli"
)

func main() {
	ctx := cli.NewSignalContext(context.Background())

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}

	switch {
	case cli.IsInterrupted(err):
		cli.PrintSystemMessage(os.Stderr, "Interrupted")
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	code := cli.ExitCode(err, ctx.Signal())

	// os.Exit skips deferred calls.
	ctx.Cancel()
	os.Exit(code)
}
