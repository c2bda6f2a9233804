package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/bstlayout/internal/cli"
	bsterrors "github.com/matzehuels/bstlayout/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr).RootCommand()
	root.SilenceErrors = true

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", bsterrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps input problems to 2 and everything else to 1.
func exitCode(err error) int {
	switch bsterrors.GetCode(err) {
	case bsterrors.ErrCodeInvalidInput, bsterrors.ErrCodeMalformedToken,
		bsterrors.ErrCodeIntegerOverflow, bsterrors.ErrCodeInvalidArtifact:
		return 2
	}
	return 1
}
