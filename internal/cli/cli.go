package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCommand assembles the elevendx command tree.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "elevendx",
		Short: "elevendx - symptom triage on a Bayesian belief network",
		Long: `elevendx estimates disease probabilities from observed symptoms and risk
factors, and suggests the most informative question to ask next.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	opts.register(root.PersistentFlags())

	root.AddCommand(
		validateCmd(opts),
		inferCmd(opts),
		nextCmd(opts),
		interviewCmd(opts),
		scanCmd(opts),
		serveCmd(opts),
	)
	return root
}

// Execute runs the command line in args. Every returned error is an
// *ExitError.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root := NewRootCommand(in, out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}
